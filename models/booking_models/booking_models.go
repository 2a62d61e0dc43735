package booking_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/freelancer_models"
	"github.com/servenear/marketplace/models/payment_models"
	"github.com/servenear/marketplace/models/service_models"
	"github.com/servenear/marketplace/models/shared_models"
)

// ErrBookingNotFound covers both a missing booking and an ownership
// mismatch, so callers cannot probe for other users' bookings.
var ErrBookingNotFound = errors.New("booking not found")

// ErrIllegalTransition is wrapped with a human-readable reason whenever a
// status change is attempted from a state that does not permit it.
var ErrIllegalTransition = errors.New("cannot perform this action")

func illegalTransition(reason string) error {
	return fmt.Errorf("%w: %s", ErrIllegalTransition, reason)
}

// ValidationError reports a bad input field on booking creation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Booking is one customer's request for one freelancer's service at a
// specific date and time.
type Booking struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	FreelancerID    uuid.UUID  `json:"freelancer_id"`
	ServiceID       uuid.UUID  `json:"service_id"`
	BookingDate     time.Time  `json:"booking_date"`
	BookingTime     time.Time  `json:"booking_time"`
	Status          string     `json:"status"`
	CustomerNotes   string     `json:"customer_notes,omitempty"`
	FreelancerNotes string     `json:"freelancer_notes,omitempty"`
	TotalAmount     float64    `json:"total_amount"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	AcceptedAt      *time.Time `json:"accepted_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CancelledAt     *time.Time `json:"cancelled_at,omitempty"`
}

// ScheduledAt combines the booking's calendar date and time-of-day into a
// single instant in local time.
func (b *Booking) ScheduledAt() time.Time {
	return time.Date(
		b.BookingDate.Year(), b.BookingDate.Month(), b.BookingDate.Day(),
		b.BookingTime.Hour(), b.BookingTime.Minute(), b.BookingTime.Second(), 0,
		time.Local,
	)
}

// IsTerminal reports whether no further transition is possible.
func (b *Booking) IsTerminal() bool {
	switch b.Status {
	case shared_models.BookingStatusRejected,
		shared_models.BookingStatusCompleted,
		shared_models.BookingStatusCancelled:
		return true
	}
	return false
}

// CanAccept reports whether the freelancer may accept the booking.
func (b *Booking) CanAccept() bool {
	return b.Status == shared_models.BookingStatusPending
}

// CanReject reports whether the freelancer may reject the booking.
func (b *Booking) CanReject() bool {
	return b.Status == shared_models.BookingStatusPending
}

// CanComplete reports whether the freelancer may mark the booking done.
func (b *Booking) CanComplete() bool {
	return b.Status == shared_models.BookingStatusAccepted
}

// CanCancel reports whether the customer may still cancel: only pending or
// accepted bookings, and only while more than `window` remains before the
// scheduled start. Evaluated against the supplied clock, never cached.
func (b *Booking) CanCancel(now time.Time, window time.Duration) bool {
	if b.Status != shared_models.BookingStatusPending &&
		b.Status != shared_models.BookingStatusAccepted {
		return false
	}
	return b.ScheduledAt().Sub(now) > window
}

// CreateBookingInput carries everything the booking creation needs. For
// razorpay the GatewayPaymentID must already be signature-verified by the
// caller; creation fails without it and persists nothing.
type CreateBookingInput struct {
	CustomerID       uuid.UUID
	ServiceID        uuid.UUID
	BookingDate      time.Time
	BookingTime      time.Time
	CustomerNotes    string
	PaymentMethod    string
	GatewayPaymentID string
	GatewayOrderID   string
	GatewaySignature string
}

// Validate checks date/time and payment method inputs against the
// freelancer's profile. Returns a *ValidationError naming the bad field.
func (in *CreateBookingInput) Validate(now time.Time, profile *freelancer_models.FreelancerProfile) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	bookingDay := time.Date(in.BookingDate.Year(), in.BookingDate.Month(), in.BookingDate.Day(), 0, 0, 0, 0, time.Local)
	if bookingDay.Before(today) {
		return &ValidationError{Field: "booking_date", Message: "booking date cannot be in the past"}
	}

	scheduled := time.Date(
		in.BookingDate.Year(), in.BookingDate.Month(), in.BookingDate.Day(),
		in.BookingTime.Hour(), in.BookingTime.Minute(), in.BookingTime.Second(), 0,
		time.Local,
	)
	if scheduled.Before(now) {
		return &ValidationError{Field: "booking_time", Message: "booking time cannot be in the past"}
	}

	switch in.PaymentMethod {
	case shared_models.PaymentMethodCash, shared_models.PaymentMethodGpay, shared_models.PaymentMethodRazorpay:
	default:
		return &ValidationError{Field: "payment_method", Message: "invalid payment method"}
	}

	if !profile.AcceptsPaymentMethod(in.PaymentMethod) {
		return &ValidationError{Field: "payment_method", Message: "this freelancer does not accept the selected payment method"}
	}

	if in.PaymentMethod == shared_models.PaymentMethodRazorpay && in.GatewayPaymentID == "" {
		return &ValidationError{Field: "razorpay_payment_id", Message: "payment confirmation is required for online payments"}
	}

	return nil
}

// CreateBooking validates the request and atomically persists the Booking
// (status pending, amount snapshotted from the service price), its Payment
// and the initial history entry. Nothing is persisted on failure.
func CreateBooking(ctx context.Context, db *pgxpool.Pool, in *CreateBookingInput) (*Booking, error) {
	logger.InfoLogger.Infof("Attempting to create booking for service %s by customer %s", in.ServiceID, in.CustomerID)

	service, err := service_models.GetServiceByID(ctx, db, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !service.IsActive || !service.IsApproved {
		return nil, service_models.ErrServiceNotFound
	}

	profile, err := freelancer_models.GetProfileByUserID(ctx, db, service.FreelancerID)
	if err != nil {
		return nil, err
	}

	if err := in.Validate(time.Now(), profile); err != nil {
		logger.WarnLogger.Warnf("Booking validation failed for customer %s: %v", in.CustomerID, err)
		return nil, err
	}

	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}

	now := time.Now()
	booking := &Booking{
		ID:            id,
		CustomerID:    in.CustomerID,
		FreelancerID:  service.FreelancerID,
		ServiceID:     service.ID,
		BookingDate:   in.BookingDate,
		BookingTime:   in.BookingTime,
		Status:        shared_models.BookingStatusPending,
		CustomerNotes: in.CustomerNotes,
		TotalAmount:   service.Price, // price snapshot, never recalculated
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO bookings (
			id, customer_id, freelancer_id, service_id, booking_date, booking_time,
			status, customer_notes, freelancer_notes, total_amount, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '', $9, $10, $11)`,
		booking.ID, booking.CustomerID, booking.FreelancerID, booking.ServiceID,
		booking.BookingDate, booking.BookingTime, booking.Status,
		booking.CustomerNotes, booking.TotalAmount, booking.CreatedAt, booking.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking for customer %s: %v", in.CustomerID, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	payment, err := payment_models.NewPayment(booking.ID, booking.CustomerID, booking.TotalAmount, in.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if in.PaymentMethod == shared_models.PaymentMethodRazorpay {
		payment.Status = shared_models.PaymentStatusCompleted
		payment.TransactionID = in.GatewayPaymentID
		paidAt := now
		payment.PaymentDate = &paidAt
		payment.PaymentDetails = fmt.Sprintf(
			`{"razorpay_payment_id":%q,"razorpay_order_id":%q,"razorpay_signature":%q}`,
			in.GatewayPaymentID, in.GatewayOrderID, in.GatewaySignature)
	}
	if err := payment_models.CreatePayment(ctx, tx, payment); err != nil {
		return nil, err
	}

	if err := appendHistory(ctx, tx, booking.ID, booking.Status, "Booking created", &booking.CustomerID); err != nil {
		return nil, err
	}

	if err := freelancer_models.IncrementTotalBookings(ctx, tx, booking.FreelancerID); err != nil {
		return nil, err
	}
	if err := freelancer_models.IncrementCustomerBookings(ctx, tx, booking.CustomerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit booking creation: %w", err)
	}

	logger.InfoLogger.Infof("Booking %s created (method %s, amount %.2f)", booking.ID, in.PaymentMethod, booking.TotalAmount)
	return booking, nil
}

const bookingColumns = `
	id, customer_id, freelancer_id, service_id, booking_date, booking_time,
	status, COALESCE(customer_notes, ''), COALESCE(freelancer_notes, ''),
	total_amount, created_at, updated_at, accepted_at, completed_at, cancelled_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.FreelancerID, &b.ServiceID,
		&b.BookingDate, &b.BookingTime, &b.Status,
		&b.CustomerNotes, &b.FreelancerNotes, &b.TotalAmount,
		&b.CreatedAt, &b.UpdatedAt, &b.AcceptedAt, &b.CompletedAt, &b.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		logger.ErrorLogger.Errorf("Failed to scan booking: %v", err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}
	return b, nil
}

// GetBookingByID fetches a booking by its ID.
func GetBookingByID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(db.QueryRow(ctx, query, bookingID))
}

// ListBookings returns bookings visible to the given user. Customers see
// their own bookings, freelancers theirs, admins everything. Optional
// status filter, newest first, paginated.
func ListBookings(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID, userType, status string, page, limit int) ([]Booking, int, error) {
	offset := (page - 1) * limit

	baseQuery := `SELECT ` + bookingColumns + ` FROM bookings`
	countQuery := `SELECT COUNT(*) FROM bookings`

	var conds []string
	var args []interface{}

	switch userType {
	case shared_models.UserTypeCustomer:
		args = append(args, userID)
		conds = append(conds, fmt.Sprintf("customer_id = $%d", len(args)))
	case shared_models.UserTypeFreelancer:
		args = append(args, userID)
		conds = append(conds, fmt.Sprintf("freelancer_id = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	where := ""
	for i, c := range conds {
		if i == 0 {
			where = " WHERE " + c
		} else {
			where += " AND " + c
		}
	}

	var totalCount int
	if err := db.QueryRow(ctx, countQuery+where, args...).Scan(&totalCount); err != nil {
		logger.ErrorLogger.Errorf("Failed to count bookings for user %s: %v", userID, err)
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		baseQuery, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch bookings for user %s: %v", userID, err)
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.CustomerID, &b.FreelancerID, &b.ServiceID,
			&b.BookingDate, &b.BookingTime, &b.Status,
			&b.CustomerNotes, &b.FreelancerNotes, &b.TotalAmount,
			&b.CreatedAt, &b.UpdatedAt, &b.AcceptedAt, &b.CompletedAt, &b.CancelledAt,
		); err != nil {
			logger.ErrorLogger.Errorf("Failed to scan booking row: %v", err)
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, totalCount, nil
}

package payment_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/shared_models"
)

var ErrPaymentNotFound = errors.New("payment not found")

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so payment operations
// can join a caller's transaction when they must move with a status change.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Payment is the single payment record tied 1:1 to a booking.
type Payment struct {
	ID             uuid.UUID  `json:"id"`
	BookingID      uuid.UUID  `json:"booking_id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	Amount         float64    `json:"amount"`
	PaymentMethod  string     `json:"payment_method"` // "cash", "gpay" or "razorpay"
	Status         string     `json:"status"`
	TransactionID  string     `json:"transaction_id,omitempty"`
	PaymentDate    *time.Time `json:"payment_date,omitempty"`
	PaymentDetails string     `json:"payment_details,omitempty"` // gateway JSON blob
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewPayment builds a pending Payment for a booking.
func NewPayment(bookingID, customerID uuid.UUID, amount float64, method string) (*Payment, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for payment: %w", err)
	}
	now := time.Now()
	return &Payment{
		ID:            id,
		BookingID:     bookingID,
		CustomerID:    customerID,
		Amount:        amount,
		PaymentMethod: method,
		Status:        shared_models.PaymentStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// CreatePayment inserts the payment record, typically inside the booking
// creation transaction.
func CreatePayment(ctx context.Context, db DBTX, p *Payment) error {
	logger.InfoLogger.Infof("Attempting to create payment for booking %s (method %s)", p.BookingID, p.PaymentMethod)

	_, err := db.Exec(ctx, `
		INSERT INTO payments (
			id, booking_id, customer_id, amount, payment_method, status,
			transaction_id, payment_date, payment_details, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		p.ID, p.BookingID, p.CustomerID, p.Amount, p.PaymentMethod, p.Status,
		p.TransactionID, p.PaymentDate, p.PaymentDetails, p.Notes, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert payment for booking %s: %v", p.BookingID, err)
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// GetPaymentByBookingID fetches the payment tied to a booking.
func GetPaymentByBookingID(ctx context.Context, db DBTX, bookingID uuid.UUID) (*Payment, error) {
	p := &Payment{}
	err := db.QueryRow(ctx, `
		SELECT id, booking_id, customer_id, amount, payment_method, status,
		       COALESCE(transaction_id, ''), payment_date,
		       COALESCE(payment_details, ''), COALESCE(notes, ''),
		       created_at, updated_at
		FROM payments
		WHERE booking_id = $1`, bookingID).Scan(
		&p.ID, &p.BookingID, &p.CustomerID, &p.Amount, &p.PaymentMethod, &p.Status,
		&p.TransactionID, &p.PaymentDate, &p.PaymentDetails, &p.Notes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch payment for booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching payment: %w", err)
	}
	return p, nil
}

// MarkCompleted flips a payment to completed and stamps the payment date.
// Optionally records a gateway transaction id.
func MarkCompleted(ctx context.Context, db DBTX, paymentID uuid.UUID, transactionID string) error {
	now := time.Now()
	var err error
	var cmdTag pgconn.CommandTag
	if transactionID != "" {
		cmdTag, err = db.Exec(ctx, `
			UPDATE payments
			SET status = $2, payment_date = $3, transaction_id = $4, updated_at = $3
			WHERE id = $1`,
			paymentID, shared_models.PaymentStatusCompleted, now, transactionID)
	} else {
		cmdTag, err = db.Exec(ctx, `
			UPDATE payments
			SET status = $2, payment_date = $3, updated_at = $3
			WHERE id = $1`,
			paymentID, shared_models.PaymentStatusCompleted, now)
	}
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to mark payment %s completed: %v", paymentID, err)
		return fmt.Errorf("failed to mark payment completed: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	logger.InfoLogger.Infof("Payment %s marked completed", paymentID)
	return nil
}

// MarkFailed flips a payment to failed with a reason note.
func MarkFailed(ctx context.Context, db DBTX, paymentID uuid.UUID, reason string) error {
	cmdTag, err := db.Exec(ctx, `
		UPDATE payments
		SET status = $2, notes = $3, updated_at = $4
		WHERE id = $1`,
		paymentID, shared_models.PaymentStatusFailed, reason, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to mark payment %s failed: %v", paymentID, err)
		return fmt.Errorf("failed to mark payment failed: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

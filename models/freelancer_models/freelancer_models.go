package freelancer_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/shared_models"
)

var ErrProfileNotFound = errors.New("freelancer profile not found")

// FreelancerProfile is the extended profile for freelancer accounts.
type FreelancerProfile struct {
	UserID            uuid.UUID `json:"user_id"`
	Bio               string    `json:"bio,omitempty"`
	ExperienceYears   int       `json:"experience_years"`
	Skills            string    `json:"skills,omitempty"`
	PaymentMode       string    `json:"payment_mode"` // "cash", "gpay" or "both"
	GpayNumber        string    `json:"gpay_number,omitempty"`
	HourlyRate        float64   `json:"hourly_rate"`
	IsAvailable       bool      `json:"is_available"`
	Rating            float64   `json:"rating"`
	TotalReviews      int       `json:"total_reviews"`
	TotalBookings     int       `json:"total_bookings"`
	CompletedBookings int       `json:"completed_bookings"`
}

// AcceptsPaymentMethod reports whether the freelancer accepts the given
// booking payment method. Razorpay is always accepted; cash is refused by
// freelancers who only take app payments, and vice versa.
func (p *FreelancerProfile) AcceptsPaymentMethod(method string) bool {
	switch method {
	case shared_models.PaymentMethodRazorpay:
		return true
	case shared_models.PaymentMethodCash:
		return p.PaymentMode == shared_models.PaymentModeCash || p.PaymentMode == shared_models.PaymentModeBoth
	case shared_models.PaymentMethodGpay:
		return p.PaymentMode == shared_models.PaymentModeGpay || p.PaymentMode == shared_models.PaymentModeBoth
	default:
		return false
	}
}

// CreateProfile inserts an empty profile for a new freelancer account.
func CreateProfile(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID, paymentMode string) (*FreelancerProfile, error) {
	logger.InfoLogger.Infof("Creating freelancer profile for user %s", userID)

	if paymentMode == "" {
		paymentMode = shared_models.PaymentModeBoth
	}

	profile := &FreelancerProfile{
		UserID:      userID,
		PaymentMode: paymentMode,
		IsAvailable: true,
	}

	_, err := db.Exec(ctx, `
		INSERT INTO freelancer_profiles (user_id, payment_mode, is_available)
		VALUES ($1, $2, $3)`,
		profile.UserID, profile.PaymentMode, profile.IsAvailable)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create freelancer profile for user %s: %v", userID, err)
		return nil, fmt.Errorf("failed to create freelancer profile: %w", err)
	}
	return profile, nil
}

// GetProfileByUserID fetches a freelancer profile by the owning user's ID.
func GetProfileByUserID(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) (*FreelancerProfile, error) {
	profile := &FreelancerProfile{}
	err := db.QueryRow(ctx, `
		SELECT user_id, COALESCE(bio, ''), experience_years, COALESCE(skills, ''),
		       payment_mode, COALESCE(gpay_number, ''), hourly_rate, is_available,
		       rating, total_reviews, total_bookings, completed_bookings
		FROM freelancer_profiles
		WHERE user_id = $1`, userID).Scan(
		&profile.UserID, &profile.Bio, &profile.ExperienceYears, &profile.Skills,
		&profile.PaymentMode, &profile.GpayNumber, &profile.HourlyRate, &profile.IsAvailable,
		&profile.Rating, &profile.TotalReviews, &profile.TotalBookings, &profile.CompletedBookings,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch freelancer profile for user %s: %v", userID, err)
		return nil, fmt.Errorf("database error fetching freelancer profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile updates the mutable fields a freelancer controls.
func UpdateProfile(ctx context.Context, db *pgxpool.Pool, profile *FreelancerProfile) error {
	cmdTag, err := db.Exec(ctx, `
		UPDATE freelancer_profiles
		SET bio = $2, experience_years = $3, skills = $4, payment_mode = $5,
		    gpay_number = $6, hourly_rate = $7, is_available = $8
		WHERE user_id = $1`,
		profile.UserID, profile.Bio, profile.ExperienceYears, profile.Skills,
		profile.PaymentMode, profile.GpayNumber, profile.HourlyRate, profile.IsAvailable)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update freelancer profile for user %s: %v", profile.UserID, err)
		return fmt.Errorf("failed to update freelancer profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	logger.InfoLogger.Infof("Freelancer profile for user %s updated", profile.UserID)
	return nil
}

// IncrementTotalBookings bumps the freelancer's total booking counter.
func IncrementTotalBookings(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE freelancer_profiles
		SET total_bookings = total_bookings + 1
		WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment total bookings: %w", err)
	}
	return nil
}

// IncrementCompletedBookings bumps the freelancer's completed booking
// counter. Runs inside the caller's transaction so the counter moves with
// the status change or not at all.
func IncrementCompletedBookings(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE freelancer_profiles
		SET completed_bookings = completed_bookings + 1
		WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment completed bookings: %w", err)
	}
	return nil
}

// RecalculateRating recomputes the freelancer's average rating and review
// count from active reviews, inside the caller's transaction.
func RecalculateRating(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE freelancer_profiles
		SET rating = COALESCE((SELECT AVG(rating) FROM reviews WHERE freelancer_id = $1 AND is_active), 0),
		    total_reviews = (SELECT COUNT(*) FROM reviews WHERE freelancer_id = $1 AND is_active)
		WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to recalculate rating: %w", err)
	}
	return nil
}

// CustomerProfile tracks per-customer aggregates.
type CustomerProfile struct {
	UserID        uuid.UUID `json:"user_id"`
	TotalBookings int       `json:"total_bookings"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateCustomerProfile inserts an empty profile for a new customer account.
func CreateCustomerProfile(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) error {
	_, err := db.Exec(ctx, `
		INSERT INTO customer_profiles (user_id, total_bookings, created_at)
		VALUES ($1, 0, $2)`, userID, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create customer profile for user %s: %v", userID, err)
		return fmt.Errorf("failed to create customer profile: %w", err)
	}
	return nil
}

// IncrementCustomerBookings bumps a customer's total booking counter.
func IncrementCustomerBookings(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	_, err := tx.Exec(ctx, `
		UPDATE customer_profiles
		SET total_bookings = total_bookings + 1
		WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment customer bookings: %w", err)
	}
	return nil
}

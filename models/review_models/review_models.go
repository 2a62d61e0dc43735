package review_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/booking_models"
	"github.com/servenear/marketplace/models/freelancer_models"
	"github.com/servenear/marketplace/models/shared_models"
)

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrAlreadyReviewed     = errors.New("booking already reviewed")
	ErrBookingNotCompleted = errors.New("only completed bookings can be reviewed")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

// Review is a customer's rating of a completed booking, at most one per
// booking. The freelancer may attach a single public response.
type Review struct {
	ID           uuid.UUID  `json:"id"`
	BookingID    uuid.UUID  `json:"booking_id"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	FreelancerID uuid.UUID  `json:"freelancer_id"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment,omitempty"`
	Response     string     `json:"response,omitempty"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
}

// CreateReview records a review for a completed booking the customer owns
// and recalculates the freelancer's aggregate rating in the same
// transaction.
func CreateReview(ctx context.Context, db *pgxpool.Pool, customerID, bookingID uuid.UUID, rating int, comment string) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	booking, err := booking_models.GetBookingByID(ctx, db, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.CustomerID != customerID {
		return nil, booking_models.ErrBookingNotFound
	}
	if booking.Status != shared_models.BookingStatusCompleted {
		return nil, ErrBookingNotCompleted
	}

	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for review: %w", err)
	}

	review := &Review{
		ID:           id,
		BookingID:    bookingID,
		CustomerID:   customerID,
		FreelancerID: booking.FreelancerID,
		Rating:       rating,
		Comment:      comment,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO reviews (id, booking_id, customer_id, freelancer_id, rating, comment, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		review.ID, review.BookingID, review.CustomerID, review.FreelancerID,
		review.Rating, review.Comment, review.IsActive, review.CreatedAt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert review for booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	if err := freelancer_models.RecalculateRating(ctx, tx, review.FreelancerID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit review: %w", err)
	}

	logger.InfoLogger.Infof("Review %s created for booking %s (rating %d)", review.ID, bookingID, rating)
	return review, nil
}

// RespondToReview stores the freelancer's single public response.
func RespondToReview(ctx context.Context, db *pgxpool.Pool, reviewID, freelancerID uuid.UUID, response string) error {
	cmdTag, err := db.Exec(ctx, `
		UPDATE reviews
		SET response = $3, responded_at = $4
		WHERE id = $1 AND freelancer_id = $2 AND responded_at IS NULL`,
		reviewID, freelancerID, response, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to respond to review %s: %v", reviewID, err)
		return fmt.Errorf("failed to respond to review: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrReviewNotFound
	}
	logger.InfoLogger.Infof("Freelancer %s responded to review %s", freelancerID, reviewID)
	return nil
}

// DeactivateReview hides a review from listings and aggregates (admin
// moderation). The freelancer's rating is recalculated without it.
func DeactivateReview(ctx context.Context, db *pgxpool.Pool, reviewID uuid.UUID) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var freelancerID uuid.UUID
	err = tx.QueryRow(ctx, `
		UPDATE reviews SET is_active = FALSE
		WHERE id = $1 AND is_active
		RETURNING freelancer_id`, reviewID).Scan(&freelancerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrReviewNotFound
		}
		return fmt.Errorf("failed to deactivate review: %w", err)
	}

	if err := freelancer_models.RecalculateRating(ctx, tx, freelancerID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListReviewsByFreelancer returns active reviews for a freelancer, newest
// first, paginated.
func ListReviewsByFreelancer(ctx context.Context, db *pgxpool.Pool, freelancerID uuid.UUID, page, limit int) ([]Review, int, error) {
	offset := (page - 1) * limit

	var totalCount int
	if err := db.QueryRow(ctx,
		`SELECT COUNT(*) FROM reviews WHERE freelancer_id = $1 AND is_active`,
		freelancerID).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	rows, err := db.Query(ctx, `
		SELECT id, booking_id, customer_id, freelancer_id, rating,
		       COALESCE(comment, ''), COALESCE(response, ''), responded_at, is_active, created_at
		FROM reviews
		WHERE freelancer_id = $1 AND is_active
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, freelancerID, limit, offset)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch reviews for freelancer %s: %v", freelancerID, err)
		return nil, 0, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		var r Review
		if err := rows.Scan(
			&r.ID, &r.BookingID, &r.CustomerID, &r.FreelancerID, &r.Rating,
			&r.Comment, &r.Response, &r.RespondedAt, &r.IsActive, &r.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, totalCount, nil
}

// GetReviewByBookingID fetches the review attached to a booking, if any.
func GetReviewByBookingID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Review, error) {
	r := &Review{}
	err := db.QueryRow(ctx, `
		SELECT id, booking_id, customer_id, freelancer_id, rating,
		       COALESCE(comment, ''), COALESCE(response, ''), responded_at, is_active, created_at
		FROM reviews
		WHERE booking_id = $1`, bookingID).Scan(
		&r.ID, &r.BookingID, &r.CustomerID, &r.FreelancerID, &r.Rating,
		&r.Comment, &r.Response, &r.RespondedAt, &r.IsActive, &r.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReviewNotFound
		}
		return nil, fmt.Errorf("database error fetching review: %w", err)
	}
	return r, nil
}

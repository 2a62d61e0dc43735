package payment_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/shared_models"
)

var (
	ErrRefundNotFound    = errors.New("refund not found")
	ErrRefundNotApproved = errors.New("refund is not approved")
)

// Refund tracks a refund request against a completed payment. Processing an
// approved refund flips the payment to refunded.
type Refund struct {
	ID          uuid.UUID  `json:"id"`
	PaymentID   uuid.UUID  `json:"payment_id"`
	BookingID   uuid.UUID  `json:"booking_id"`
	Amount      float64    `json:"amount"`
	Reason      string     `json:"reason"`
	Status      string     `json:"status"`
	RequestedBy uuid.UUID  `json:"requested_by"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedBy *uuid.UUID `json:"processed_by,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	AdminNotes  string     `json:"admin_notes,omitempty"`
}

// CreateRefundRequest inserts a pending refund for a payment. Used both by
// the customer-facing endpoint and automatically when a paid booking is
// cancelled.
func CreateRefundRequest(ctx context.Context, db DBTX, payment *Payment, requestedBy uuid.UUID, reason string) (*Refund, error) {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for refund: %w", err)
	}

	refund := &Refund{
		ID:          id,
		PaymentID:   payment.ID,
		BookingID:   payment.BookingID,
		Amount:      payment.Amount,
		Reason:      reason,
		Status:      shared_models.RefundStatusPending,
		RequestedBy: requestedBy,
		RequestedAt: time.Now(),
	}

	_, err = db.Exec(ctx, `
		INSERT INTO refunds (id, payment_id, booking_id, amount, reason, status, requested_by, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		refund.ID, refund.PaymentID, refund.BookingID, refund.Amount,
		refund.Reason, refund.Status, refund.RequestedBy, refund.RequestedAt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert refund for payment %s: %v", payment.ID, err)
		return nil, fmt.Errorf("failed to create refund request: %w", err)
	}

	logger.InfoLogger.Infof("Refund %s requested for payment %s (%.2f)", refund.ID, payment.ID, refund.Amount)
	return refund, nil
}

// GetRefundByID fetches a refund by its ID.
func GetRefundByID(ctx context.Context, db DBTX, refundID uuid.UUID) (*Refund, error) {
	r := &Refund{}
	err := db.QueryRow(ctx, `
		SELECT id, payment_id, booking_id, amount, reason, status,
		       requested_by, requested_at, processed_by, processed_at, COALESCE(admin_notes, '')
		FROM refunds
		WHERE id = $1`, refundID).Scan(
		&r.ID, &r.PaymentID, &r.BookingID, &r.Amount, &r.Reason, &r.Status,
		&r.RequestedBy, &r.RequestedAt, &r.ProcessedBy, &r.ProcessedAt, &r.AdminNotes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRefundNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch refund %s: %v", refundID, err)
		return nil, fmt.Errorf("database error fetching refund: %w", err)
	}
	return r, nil
}

// ReviewRefund lets an admin approve or reject a pending refund request.
func ReviewRefund(ctx context.Context, db DBTX, refundID, adminID uuid.UUID, approve bool, notes string) error {
	status := shared_models.RefundStatusRejected
	if approve {
		status = shared_models.RefundStatusApproved
	}

	cmdTag, err := db.Exec(ctx, `
		UPDATE refunds
		SET status = $2, processed_by = $3, processed_at = $4, admin_notes = $5
		WHERE id = $1 AND status = $6`,
		refundID, status, adminID, time.Now(), notes, shared_models.RefundStatusPending)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to review refund %s: %v", refundID, err)
		return fmt.Errorf("failed to review refund: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrRefundNotFound
	}
	logger.InfoLogger.Infof("Refund %s reviewed by admin %s: %s", refundID, adminID, status)
	return nil
}

// ProcessRefund marks an approved refund processed and flips the payment to
// refunded, both inside the caller's transaction.
func ProcessRefund(ctx context.Context, tx pgx.Tx, refundID uuid.UUID) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE refunds
		SET status = $2
		WHERE id = $1 AND status = $3`,
		refundID, shared_models.RefundStatusProcessed, shared_models.RefundStatusApproved)
	if err != nil {
		return fmt.Errorf("failed to process refund: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrRefundNotApproved
	}

	_, err = tx.Exec(ctx, `
		UPDATE payments
		SET status = $2, updated_at = $3
		WHERE id = (SELECT payment_id FROM refunds WHERE id = $1)`,
		refundID, shared_models.PaymentStatusRefunded, time.Now())
	if err != nil {
		return fmt.Errorf("failed to mark payment refunded: %w", err)
	}

	logger.InfoLogger.Infof("Refund %s processed", refundID)
	return nil
}

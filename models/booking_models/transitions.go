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
	"github.com/servenear/marketplace/models/shared_models"
)

// Every transition follows the same shape: lock the row, re-read the
// persisted status, check the guard, then update conditionally on the old
// status so a concurrent transition loses cleanly instead of clobbering.
// The history row is appended in the same transaction as the update.

// lockBooking loads a booking FOR UPDATE with an ownership condition. An
// ownership mismatch surfaces as ErrBookingNotFound, never as a distinct
// authorization error.
func lockBooking(ctx context.Context, tx pgx.Tx, where string, args ...interface{}) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + where + ` FOR UPDATE`
	return scanBooking(tx.QueryRow(ctx, query, args...))
}

func transitionNote(oldStatus, newStatus string) string {
	return fmt.Sprintf("Status changed from %s to %s", oldStatus, newStatus)
}

// AcceptBooking moves a pending booking to accepted. Only the owning
// freelancer may accept; anyone else gets a not-found.
func AcceptBooking(ctx context.Context, db *pgxpool.Pool, bookingID, freelancerID uuid.UUID) error {
	logger.InfoLogger.Infof("Freelancer %s accepting booking %s", freelancerID, bookingID)

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	booking, err := lockBooking(ctx, tx, "id = $1 AND freelancer_id = $2", bookingID, freelancerID)
	if err != nil {
		return err
	}
	if !booking.CanAccept() {
		return illegalTransition("booking is not pending")
	}

	now := time.Now()
	cmdTag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, accepted_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4`,
		bookingID, shared_models.BookingStatusAccepted, now, shared_models.BookingStatusPending)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to accept booking %s: %v", bookingID, err)
		return fmt.Errorf("failed to accept booking: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return illegalTransition("booking is not pending")
	}

	note := transitionNote(booking.Status, shared_models.BookingStatusAccepted)
	if err := appendHistory(ctx, tx, bookingID, shared_models.BookingStatusAccepted, note, &freelancerID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit accept: %w", err)
	}
	logger.InfoLogger.Infof("Booking %s accepted", bookingID)
	return nil
}

// RejectBooking moves a pending booking to rejected (terminal).
func RejectBooking(ctx context.Context, db *pgxpool.Pool, bookingID, freelancerID uuid.UUID) error {
	logger.InfoLogger.Infof("Freelancer %s rejecting booking %s", freelancerID, bookingID)

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	booking, err := lockBooking(ctx, tx, "id = $1 AND freelancer_id = $2", bookingID, freelancerID)
	if err != nil {
		return err
	}
	if !booking.CanReject() {
		return illegalTransition("booking is not pending")
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		bookingID, shared_models.BookingStatusRejected, time.Now(), shared_models.BookingStatusPending)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to reject booking %s: %v", bookingID, err)
		return fmt.Errorf("failed to reject booking: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return illegalTransition("booking is not pending")
	}

	note := transitionNote(booking.Status, shared_models.BookingStatusRejected)
	if err := appendHistory(ctx, tx, bookingID, shared_models.BookingStatusRejected, note, &freelancerID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit reject: %w", err)
	}
	logger.InfoLogger.Infof("Booking %s rejected", bookingID)
	return nil
}

// CompleteBooking moves an accepted booking to completed. In the same
// transaction it stores the freelancer's notes, bumps the freelancer's
// completed-booking counter, and marks a cash payment completed.
func CompleteBooking(ctx context.Context, db *pgxpool.Pool, bookingID, freelancerID uuid.UUID, freelancerNotes string) error {
	logger.InfoLogger.Infof("Freelancer %s completing booking %s", freelancerID, bookingID)

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	booking, err := lockBooking(ctx, tx, "id = $1 AND freelancer_id = $2", bookingID, freelancerID)
	if err != nil {
		return err
	}
	if !booking.CanComplete() {
		return illegalTransition("booking is not accepted")
	}

	now := time.Now()
	cmdTag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, completed_at = $3, updated_at = $3, freelancer_notes = $4
		WHERE id = $1 AND status = $5`,
		bookingID, shared_models.BookingStatusCompleted, now, freelancerNotes, shared_models.BookingStatusAccepted)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to complete booking %s: %v", bookingID, err)
		return fmt.Errorf("failed to complete booking: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return illegalTransition("booking is not accepted")
	}

	note := transitionNote(booking.Status, shared_models.BookingStatusCompleted)
	if err := appendHistory(ctx, tx, bookingID, shared_models.BookingStatusCompleted, note, &freelancerID); err != nil {
		return err
	}

	if err := freelancer_models.IncrementCompletedBookings(ctx, tx, freelancerID); err != nil {
		return err
	}

	payment, err := payment_models.GetPaymentByBookingID(ctx, tx, bookingID)
	if err != nil && !errors.Is(err, payment_models.ErrPaymentNotFound) {
		return err
	}
	if payment != nil && payment.PaymentMethod == shared_models.PaymentMethodCash &&
		payment.Status == shared_models.PaymentStatusPending {
		if err := payment_models.MarkCompleted(ctx, tx, payment.ID, ""); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit complete: %w", err)
	}
	logger.InfoLogger.Infof("Booking %s completed", bookingID)
	return nil
}

// CancelBooking moves a pending or accepted booking to cancelled, provided
// more than `window` remains before the scheduled start. Only the owning
// customer may cancel. A pending offline payment is marked failed; a
// completed online payment gets an automatic pending refund request.
func CancelBooking(ctx context.Context, db *pgxpool.Pool, bookingID, customerID uuid.UUID, window time.Duration) error {
	logger.InfoLogger.Infof("Customer %s cancelling booking %s", customerID, bookingID)

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	booking, err := lockBooking(ctx, tx, "id = $1 AND customer_id = $2", bookingID, customerID)
	if err != nil {
		return err
	}

	now := time.Now()
	if booking.Status != shared_models.BookingStatusPending &&
		booking.Status != shared_models.BookingStatusAccepted {
		return illegalTransition("booking is not pending or accepted")
	}
	if !booking.CanCancel(now, window) {
		return illegalTransition(fmt.Sprintf(
			"cancellation is only allowed up to %d minutes before the scheduled time",
			int(window.Minutes())))
	}

	cmdTag, err := tx.Exec(ctx, `
		UPDATE bookings
		SET status = $2, cancelled_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4`,
		bookingID, shared_models.BookingStatusCancelled, now, booking.Status)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to cancel booking %s: %v", bookingID, err)
		return fmt.Errorf("failed to cancel booking: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return illegalTransition("booking is not pending or accepted")
	}

	note := transitionNote(booking.Status, shared_models.BookingStatusCancelled)
	if err := appendHistory(ctx, tx, bookingID, shared_models.BookingStatusCancelled, note, &customerID); err != nil {
		return err
	}

	payment, err := payment_models.GetPaymentByBookingID(ctx, tx, bookingID)
	if err != nil && !errors.Is(err, payment_models.ErrPaymentNotFound) {
		return err
	}
	if payment != nil {
		switch payment.Status {
		case shared_models.PaymentStatusPending:
			if err := payment_models.MarkFailed(ctx, tx, payment.ID, "booking cancelled"); err != nil {
				return err
			}
		case shared_models.PaymentStatusCompleted:
			if _, err := payment_models.CreateRefundRequest(ctx, tx, payment, customerID, "booking cancelled"); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancel: %w", err)
	}
	logger.InfoLogger.Infof("Booking %s cancelled", bookingID)
	return nil
}

package booking_models

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/shared_models"
)

// BookingHistory is an append-only audit record of a booking status change
// or creation event. Entries are never mutated or deleted.
type BookingHistory struct {
	ID        uuid.UUID  `json:"id"`
	BookingID uuid.UUID  `json:"booking_id"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"` // nil means system/unspecified
	ChangedAt time.Time  `json:"changed_at"`
}

// appendHistory writes one history row inside the caller's transaction so
// the audit entry commits together with the status change it records.
func appendHistory(ctx context.Context, tx pgx.Tx, bookingID uuid.UUID, status, notes string, changedBy *uuid.UUID) error {
	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return fmt.Errorf("failed to generate UUID for history entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO booking_history (id, booking_id, status, notes, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		id, bookingID, status, notes, changedBy, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to append history for booking %s: %v", bookingID, err)
		return fmt.Errorf("failed to append booking history: %w", err)
	}
	return nil
}

// GetBookingHistory returns all history entries for a booking, newest first.
func GetBookingHistory(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) ([]BookingHistory, error) {
	rows, err := db.Query(ctx, `
		SELECT id, booking_id, status, COALESCE(notes, ''), changed_by, changed_at
		FROM booking_history
		WHERE booking_id = $1
		ORDER BY changed_at DESC`, bookingID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch history for booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("failed to fetch booking history: %w", err)
	}
	defer rows.Close()

	var entries []BookingHistory
	for rows.Next() {
		var h BookingHistory
		if err := rows.Scan(&h.ID, &h.BookingID, &h.Status, &h.Notes, &h.ChangedBy, &h.ChangedAt); err != nil {
			logger.ErrorLogger.Errorf("Failed to scan history row: %v", err)
			return nil, fmt.Errorf("failed to scan booking history: %w", err)
		}
		entries = append(entries, h)
	}
	return entries, nil
}

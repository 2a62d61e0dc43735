package booking_models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servenear/marketplace/models/freelancer_models"
	"github.com/servenear/marketplace/models/shared_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dateAt(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func timeAt(hour, minute int) time.Time {
	return time.Date(0, 1, 1, hour, minute, 0, 0, time.Local)
}

func TestScheduledAt(t *testing.T) {
	b := &Booking{
		BookingDate: dateAt(2025, time.January, 10),
		BookingTime: timeAt(10, 0),
	}
	got := b.ScheduledAt()
	assert.Equal(t, time.Date(2025, time.January, 10, 10, 0, 0, 0, time.Local), got)
}

func TestTransitionGuards(t *testing.T) {
	tests := []struct {
		status      string
		canAccept   bool
		canReject   bool
		canComplete bool
		terminal    bool
	}{
		{shared_models.BookingStatusPending, true, true, false, false},
		{shared_models.BookingStatusAccepted, false, false, true, false},
		{shared_models.BookingStatusRejected, false, false, false, true},
		{shared_models.BookingStatusCompleted, false, false, false, true},
		{shared_models.BookingStatusCancelled, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			b := &Booking{Status: tt.status}
			assert.Equal(t, tt.canAccept, b.CanAccept())
			assert.Equal(t, tt.canReject, b.CanReject())
			assert.Equal(t, tt.canComplete, b.CanComplete())
			assert.Equal(t, tt.terminal, b.IsTerminal())
		})
	}
}

func TestCanCancelWindow(t *testing.T) {
	window := 30 * time.Minute
	b := &Booking{
		Status:      shared_models.BookingStatusPending,
		BookingDate: dateAt(2025, time.January, 10),
		BookingTime: timeAt(10, 0),
	}

	// 60 minutes before the scheduled time: allowed.
	at0900 := time.Date(2025, time.January, 10, 9, 0, 0, 0, time.Local)
	assert.True(t, b.CanCancel(at0900, window))

	// 15 minutes before: inside the window, refused.
	at0945 := time.Date(2025, time.January, 10, 9, 45, 0, 0, time.Local)
	assert.False(t, b.CanCancel(at0945, window))

	// Exactly at the threshold: strict inequality, refused.
	at0930 := time.Date(2025, time.January, 10, 9, 30, 0, 0, time.Local)
	assert.False(t, b.CanCancel(at0930, window))

	// Accepted bookings may still cancel.
	b.Status = shared_models.BookingStatusAccepted
	assert.True(t, b.CanCancel(at0900, window))

	// Terminal states never cancel, regardless of lead time.
	for _, status := range []string{
		shared_models.BookingStatusRejected,
		shared_models.BookingStatusCompleted,
		shared_models.BookingStatusCancelled,
	} {
		b.Status = status
		assert.False(t, b.CanCancel(at0900, window), "status %s should not be cancellable", status)
	}
}

func profileWithMode(mode string) *freelancer_models.FreelancerProfile {
	return &freelancer_models.FreelancerProfile{
		UserID:      uuid.New(),
		PaymentMode: mode,
		IsAvailable: true,
	}
}

func validInput(method string) *CreateBookingInput {
	tomorrow := time.Now().Add(24 * time.Hour)
	return &CreateBookingInput{
		CustomerID:    uuid.New(),
		ServiceID:     uuid.New(),
		BookingDate:   tomorrow,
		BookingTime:   timeAt(10, 0),
		PaymentMethod: method,
	}
}

func TestValidateRejectsPastDate(t *testing.T) {
	in := validInput(shared_models.PaymentMethodCash)
	in.BookingDate = time.Now().Add(-48 * time.Hour)

	err := in.Validate(time.Now(), profileWithMode(shared_models.PaymentModeBoth))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "booking_date", vErr.Field)
}

func TestValidateRejectsPastTimeToday(t *testing.T) {
	now := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.Local)
	in := validInput(shared_models.PaymentMethodCash)
	in.BookingDate = dateAt(2025, time.March, 3)
	in.BookingTime = timeAt(9, 0) // earlier the same day

	err := in.Validate(now, profileWithMode(shared_models.PaymentModeBoth))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "booking_time", vErr.Field)
}

func TestValidateRejectsDisallowedMethod(t *testing.T) {
	in := validInput(shared_models.PaymentMethodCash)

	err := in.Validate(time.Now(), profileWithMode(shared_models.PaymentModeGpay))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "payment_method", vErr.Field)
}

func TestValidateRejectsUnknownMethod(t *testing.T) {
	in := validInput("barter")

	err := in.Validate(time.Now(), profileWithMode(shared_models.PaymentModeBoth))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "payment_method", vErr.Field)
}

func TestValidateRequiresGatewayConfirmation(t *testing.T) {
	in := validInput(shared_models.PaymentMethodRazorpay)

	err := in.Validate(time.Now(), profileWithMode(shared_models.PaymentModeGpay))
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "razorpay_payment_id", vErr.Field)

	in.GatewayPaymentID = "pay_abc123"
	assert.NoError(t, in.Validate(time.Now(), profileWithMode(shared_models.PaymentModeGpay)))
}

func TestValidateAcceptsCashForCashFreelancer(t *testing.T) {
	in := validInput(shared_models.PaymentMethodCash)
	assert.NoError(t, in.Validate(time.Now(), profileWithMode(shared_models.PaymentModeCash)))
}

func TestIllegalTransitionErrorWraps(t *testing.T) {
	err := illegalTransition("booking is not pending")
	assert.True(t, errors.Is(err, ErrIllegalTransition))
	assert.Contains(t, err.Error(), "booking is not pending")
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "booking_date", Message: "booking date cannot be in the past"}
	assert.Equal(t, "booking_date: booking date cannot be in the past", err.Error())
}

package booking_controller

import "errors"

var (
	ErrInvalidBookingID      = errors.New("invalid booking id")
	ErrPaymentNotVerified    = errors.New("payment signature verification failed")
	ErrGatewayNotConfigured  = errors.New("payment gateway not configured")
	ErrInvalidDateTimeFormat = errors.New("invalid date or time format")
)

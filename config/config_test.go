package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCancellationWindowDefault(t *testing.T) {
	t.Setenv("BOOKING_CANCELLATION_MINUTES", "")
	assert.Equal(t, 30*time.Minute, CancellationWindow())
}

func TestCancellationWindowOverride(t *testing.T) {
	t.Setenv("BOOKING_CANCELLATION_MINUTES", "90")
	assert.Equal(t, 90*time.Minute, CancellationWindow())
}

func TestCancellationWindowInvalidFallsBack(t *testing.T) {
	t.Setenv("BOOKING_CANCELLATION_MINUTES", "soon")
	assert.Equal(t, 30*time.Minute, CancellationWindow())

	t.Setenv("BOOKING_CANCELLATION_MINUTES", "-5")
	assert.Equal(t, 30*time.Minute, CancellationWindow())
}

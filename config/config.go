package config

import (
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

var loadOnce sync.Once

// LoadEnv loads environment variables from a .env file if one exists.
// Safe to call from multiple init functions.
func LoadEnv() {
	loadOnce.Do(func() {
		// Missing .env is fine in production, real env vars win anyway.
		_ = godotenv.Load()
	})
}

// CancellationWindow returns the minimum lead time before a booking's
// scheduled start during which the customer may still cancel.
// Controlled by BOOKING_CANCELLATION_MINUTES, default 30 minutes.
func CancellationWindow() time.Duration {
	if v := os.Getenv("BOOKING_CANCELLATION_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes >= 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return 30 * time.Minute
}

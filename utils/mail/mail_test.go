package mail

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/servenear/marketplace/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.InitLoggers()

	s, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	os.Setenv("REDIS_URL", "redis://"+s.Addr())

	code := m.Run()
	s.Close()
	os.Exit(code)
}

func TestOTPRoundTrip(t *testing.T) {
	ctx := context.Background()
	key := EMAIL_VERIFICATION_OTP_PREFIX + "someone@example.com"

	require.NoError(t, StoreOTP(ctx, key, "123456"))

	// A wrong code fails without consuming the stored OTP.
	assert.ErrorIs(t, VerifyOTP(ctx, key, "000000"), ErrOTPNotFound)

	require.NoError(t, VerifyOTP(ctx, key, "123456"))

	// Single use: the same code is gone after a successful verification.
	assert.ErrorIs(t, VerifyOTP(ctx, key, "123456"), ErrOTPNotFound)
}

func TestVerifyOTPMissingKey(t *testing.T) {
	err := VerifyOTP(context.Background(), EMAIL_VERIFICATION_OTP_PREFIX+"nobody@example.com", "123456")
	assert.ErrorIs(t, err, ErrOTPNotFound)
}

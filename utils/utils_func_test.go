package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSecureOTP(t *testing.T) {
	otp := GenerateSecureOTP()
	assert.Len(t, otp, 6)
	for _, ch := range otp {
		assert.True(t, ch >= '0' && ch <= '9', "OTP must be digits only, got %q", otp)
	}
}

func TestHashOTPIsDeterministic(t *testing.T) {
	assert.Equal(t, HashOTP("123456"), HashOTP("123456"))
	assert.NotEqual(t, HashOTP("123456"), HashOTP("654321"))
}

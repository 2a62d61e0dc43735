package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCustomRate(t *testing.T) {
	tests := []struct {
		input  string
		limit  int64
		period time.Duration
	}{
		{"10-2m", 10, 2 * time.Minute},
		{"5-1h", 5, time.Hour},
		{"20-10s", 20, 10 * time.Second},
		{"1-30m", 1, 30 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rate, err := ParseCustomRate(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.limit, rate.Limit)
			assert.Equal(t, tt.period, rate.Period)
		})
	}
}

func TestParseCustomRateRejectsBadInput(t *testing.T) {
	for _, input := range []string{"", "10", "ten-2m", "10-2d", "10-2", "10-2m-extra"} {
		_, err := ParseCustomRate(input)
		assert.Error(t, err, "input %q", input)
	}
}

package clients

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToPaise(t *testing.T) {
	tests := []struct {
		rupees float64
		paise  int64
	}{
		{19.99, 1999},
		{8.20, 820},
		{0.29, 29},
		{1500, 150000},
		{0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.paise, toPaise(tt.rupees), "rupees %v", tt.rupees)
	}
}

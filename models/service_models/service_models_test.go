package service_models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceStartsUnapproved(t *testing.T) {
	service, err := NewService(uuid.New(), uuid.New(), "Deep cleaning", "3 bedroom flat", 1500, 120)
	require.NoError(t, err)

	assert.True(t, service.IsActive)
	assert.False(t, service.IsApproved, "new services must wait for admin approval")
	assert.NotEqual(t, uuid.Nil, service.ID)
	assert.Equal(t, 1500.0, service.Price)
}

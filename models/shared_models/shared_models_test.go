package shared_models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	tokenString, err := GenerateAccessToken(userID, UserTypeCustomer, 1, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := ParseAccessToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, UserTypeCustomer, claims.UserType)
	assert.Equal(t, "access", claims.Type)
	assert.Equal(t, 1, claims.TokenVersion)
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	tokenString, err := GenerateRefreshToken(uuid.New(), UserTypeFreelancer, 0, time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(tokenString)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	tokenString, err := GenerateAccessToken(uuid.New(), UserTypeCustomer, 0, -2*time.Minute)
	require.NoError(t, err)

	_, err = ParseAccessToken(tokenString)
	assert.Error(t, err)
}

func TestGenerateUUIDv7(t *testing.T) {
	id, err := GenerateUUIDv7()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, uuid.Version(7), id.Version())
}

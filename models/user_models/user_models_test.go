package user_models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/servenear/marketplace/models/shared_models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	ok, err := VerifyPassword("s3cret-password", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordBadHashFormat(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-a-valid-hash")
	assert.Error(t, err)
}

func TestHashPasswordIsSalted(t *testing.T) {
	h1, err := HashPassword("same-password")
	require.NoError(t, err)
	h2, err := HashPassword("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
	assert.True(t, IsUniqueViolation(pgErr))

	// Wrapped the way CreateUser returns it.
	assert.True(t, IsUniqueViolation(fmt.Errorf("failed to create user: %w", pgErr)))

	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestRoleHelpers(t *testing.T) {
	customer := &User{UserType: shared_models.UserTypeCustomer}
	assert.True(t, customer.IsCustomer())
	assert.False(t, customer.IsFreelancer())
	assert.False(t, customer.IsAdmin())

	freelancer := &User{UserType: shared_models.UserTypeFreelancer}
	assert.True(t, freelancer.IsFreelancer())

	admin := &User{UserType: shared_models.UserTypeAdmin}
	assert.True(t, admin.IsAdmin())
}

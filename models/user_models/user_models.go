package user_models

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/shared_models"
	"golang.org/x/crypto/argon2"
)

// Argon2 parameters
const (
	Memory      = 64 * 1024
	Iterations  = 3
	Parallelism = 4
	SaltLength  = 16
	KeyLength   = 64
)

var ErrUserNotFound = errors.New("user not found")

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation, so concurrent duplicate inserts can be mapped to a conflict
// response instead of a generic failure.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// User is a marketplace account: admin, customer or freelancer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	UserType     string    `json:"user_type"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	City         string    `json:"city,omitempty"`
	Area         string    `json:"area,omitempty"`
	Pincode      string    `json:"pincode,omitempty"`
	IsVerified   bool      `json:"is_verified"`
	TokenVersion int       `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsCustomer reports whether the account holds the customer role.
func (u *User) IsCustomer() bool { return u.UserType == shared_models.UserTypeCustomer }

// IsFreelancer reports whether the account holds the freelancer role.
func (u *User) IsFreelancer() bool { return u.UserType == shared_models.UserTypeFreelancer }

// IsAdmin reports whether the account holds the admin role.
func (u *User) IsAdmin() bool { return u.UserType == shared_models.UserTypeAdmin }

func generateSalt(size int) ([]byte, error) {
	salt := make([]byte, size)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, err
	}
	return salt, nil
}

// HashPassword hashes a password using Argon2id.
func HashPassword(password string) (string, error) {
	salt, err := generateSalt(SaltLength)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, Iterations, Memory, uint8(Parallelism), KeyLength)

	saltBase64 := base64.RawStdEncoding.EncodeToString(salt)
	hashBase64 := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("%s$%s", saltBase64, hashBase64), nil
}

// VerifyPassword verifies a password against a stored hash.
func VerifyPassword(password, storedHash string) (bool, error) {
	parts := strings.Split(storedHash, "$")
	if len(parts) != 2 {
		return false, errors.New("invalid stored hash format")
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return false, err
	}

	expectedHash, err := base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return false, err
	}

	computedHash := argon2.IDKey([]byte(password), salt, Iterations, Memory, uint8(Parallelism), KeyLength)
	if subtle.ConstantTimeCompare(computedHash, expectedHash) == 1 {
		return true, nil
	}
	return false, nil
}

// CreateUser inserts a new user with the given role. The email stays
// unverified until the OTP flow confirms it.
func CreateUser(ctx context.Context, db *pgxpool.Pool, username, email, password, userType string) (*User, error) {
	logger.InfoLogger.Infof("Attempting to create %s account for username: %s", userType, username)

	id, err := shared_models.GenerateUUIDv7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for user: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to hash password for %s: %v", username, err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		UserType:     userType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, user_type, is_verified, token_version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7, $8)`

	_, err = db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash,
		user.UserType, user.IsVerified, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert user %s: %v", username, err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.InfoLogger.Infof("User %s created with ID %s", username, user.ID)
	return user, nil
}

// GetUserByID fetches a user by its ID.
func GetUserByID(ctx context.Context, db *pgxpool.Pool, id uuid.UUID) (*User, error) {
	return getUser(ctx, db, "id = $1", id)
}

// GetUserByUsername fetches a user by username.
func GetUserByUsername(ctx context.Context, db *pgxpool.Pool, username string) (*User, error) {
	return getUser(ctx, db, "username = $1", username)
}

// GetUserByEmail fetches a user by email.
func GetUserByEmail(ctx context.Context, db *pgxpool.Pool, email string) (*User, error) {
	return getUser(ctx, db, "email = $1", email)
}

func getUser(ctx context.Context, db *pgxpool.Pool, where string, arg interface{}) (*User, error) {
	user := &User{}
	query := `
		SELECT id, username, email, password_hash, user_type,
		       COALESCE(phone, ''), COALESCE(address, ''), COALESCE(city, ''),
		       COALESCE(area, ''), COALESCE(pincode, ''),
		       is_verified, token_version, created_at, updated_at
		FROM users
		WHERE ` + where

	err := db.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.UserType,
		&user.Phone, &user.Address, &user.City, &user.Area, &user.Pincode,
		&user.IsVerified, &user.TokenVersion, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch user: %v", err)
		return nil, fmt.Errorf("database error fetching user: %w", err)
	}
	return user, nil
}

// MarkEmailVerified flips is_verified after a successful OTP check.
func MarkEmailVerified(ctx context.Context, db *pgxpool.Pool, email string) error {
	cmdTag, err := db.Exec(ctx,
		`UPDATE users SET is_verified = TRUE, updated_at = $2 WHERE email = $1`,
		email, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to mark email %s verified: %v", email, err)
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	logger.InfoLogger.Infof("Email %s marked verified", email)
	return nil
}

// UpdateUserProfile updates the mutable contact fields of a user.
func UpdateUserProfile(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID, phone, address, city, area, pincode string) error {
	cmdTag, err := db.Exec(ctx, `
		UPDATE users
		SET phone = $2, address = $3, city = $4, area = $5, pincode = $6, updated_at = $7
		WHERE id = $1`,
		userID, phone, address, city, area, pincode, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update profile for user %s: %v", userID, err)
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// LoginUser verifies credentials and returns the user with fresh tokens.
func LoginUser(ctx context.Context, db *pgxpool.Pool, username, password string) (*User, string, string, error) {
	user, err := GetUserByUsername(ctx, db, username)
	if err != nil {
		return nil, "", "", err
	}

	valid, err := VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.ErrorLogger.Errorf("Password verification failed for %s: %v", username, err)
		return nil, "", "", fmt.Errorf("password verification failed: %w", err)
	}
	if !valid {
		logger.WarnLogger.Warnf("Invalid password attempt for user %s", username)
		return nil, "", "", errors.New("invalid credentials")
	}

	accessToken, err := shared_models.GenerateAccessToken(user.ID, user.UserType, user.TokenVersion, shared_models.ACCESS_TOKEN_EXPIRY)
	if err != nil {
		return nil, "", "", err
	}
	refreshToken, err := shared_models.GenerateRefreshToken(user.ID, user.UserType, user.TokenVersion, shared_models.REFRESH_TOKEN_EXPIRY)
	if err != nil {
		return nil, "", "", err
	}

	logger.InfoLogger.Infof("User %s logged in", username)
	return user, accessToken, refreshToken, nil
}

// IncrementTokenVersion bumps the user's token version, invalidating every
// refresh token issued before the bump. Used by logout.
func IncrementTokenVersion(ctx context.Context, db *pgxpool.Pool, userID uuid.UUID) error {
	cmdTag, err := db.Exec(ctx,
		`UPDATE users SET token_version = token_version + 1, updated_at = $2 WHERE id = $1`,
		userID, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to increment token version for user %s: %v", userID, err)
		return fmt.Errorf("failed to increment token version: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

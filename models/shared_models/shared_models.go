package shared_models

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/utils"
)

// User roles
const (
	UserTypeAdmin      = "admin"
	UserTypeCustomer   = "customer"
	UserTypeFreelancer = "freelancer"
)

// Booking statuses
const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusRejected  = "rejected"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Payment methods a customer can choose at booking time.
const (
	PaymentMethodCash     = "cash"
	PaymentMethodGpay     = "gpay"
	PaymentMethodRazorpay = "razorpay"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Freelancer payment modes (which offline methods the freelancer accepts).
const (
	PaymentModeCash = "cash"
	PaymentModeGpay = "gpay"
	PaymentModeBoth = "both"
)

// Refund statuses
const (
	RefundStatusPending   = "pending"
	RefundStatusApproved  = "approved"
	RefundStatusRejected  = "rejected"
	RefundStatusProcessed = "processed"
)

const (
	ACCESS_TOKEN_EXPIRY  = time.Hour * 1
	REFRESH_TOKEN_EXPIRY = time.Hour * 24 * 30
)

// GenerateUUIDv7 generates a new UUIDv7.
func GenerateUUIDv7() (uuid.UUID, error) {
	return uuid.NewV7()
}

// Claims represents the JWT claims carried by access and refresh tokens.
// TokenVersion lets logout invalidate every refresh token issued before it.
type Claims struct {
	UserID       uuid.UUID `json:"sub"`
	UserType     string    `json:"user_type"`
	Type         string    `json:"type"`
	TokenVersion int       `json:"token_version"`
	jwt.RegisteredClaims
}

// GenerateAccessToken creates a signed access token for the given user.
func GenerateAccessToken(userID uuid.UUID, userType string, tokenVersion int, duration time.Duration) (string, error) {
	return generateToken(userID, userType, "access", tokenVersion, duration, utils.GetJWTSecret())
}

// GenerateRefreshToken creates a signed refresh token for the given user.
func GenerateRefreshToken(userID uuid.UUID, userType string, tokenVersion int, duration time.Duration) (string, error) {
	return generateToken(userID, userType, "refresh", tokenVersion, duration, utils.GetJWTRefreshSecret())
}

func generateToken(userID uuid.UUID, userType, tokenType string, tokenVersion int, duration time.Duration, secret []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":           userID.String(),
		"user_type":     userType,
		"type":          tokenType,
		"token_version": tokenVersion,
		"iat":           now.Unix(),
		"nbf":           now.Unix(),
		"exp":           now.Add(duration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secret)
	if err != nil {
		logger.ErrorLogger.Errorf("failed to sign %s token: %v", tokenType, err)
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return tokenString, nil
}

// ParseAccessToken parses and validates an access token string.
func ParseAccessToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, "access", utils.GetJWTSecret())
}

// ParseRefreshToken parses and validates a refresh token string.
func ParseRefreshToken(tokenString string) (*Claims, error) {
	return parseToken(tokenString, "refresh", utils.GetJWTRefreshSecret())
}

func parseToken(tokenString, wantType string, secret []byte) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30*time.Second),
	)
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("invalid token: user ID missing")
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("invalid token: expected %s token, got %s", wantType, claims.Type)
	}
	return claims, nil
}

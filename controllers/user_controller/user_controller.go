package user_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/freelancer_models"
	"github.com/servenear/marketplace/models/shared_models"
	"github.com/servenear/marketplace/models/user_models"
	"github.com/servenear/marketplace/utils"
	"github.com/servenear/marketplace/utils/mail"
)

// UserController holds dependencies for account operations.
type UserController struct {
	DB *pgxpool.Pool
}

// NewUserController creates a new instance of UserController.
func NewUserController(db *pgxpool.Pool) *UserController {
	return &UserController{DB: db}
}

type RegisterRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	UserType    string `json:"user_type" binding:"required"`
	PaymentMode string `json:"payment_mode"` // freelancers only: "cash", "gpay" or "both"
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type UpdateProfileRequest struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Area    string `json:"area"`
	Pincode string `json:"pincode"`
}

// Register handles POST /register. Creates the account plus its role
// profile and mails a verification OTP.
func (uc *UserController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if req.UserType != shared_models.UserTypeCustomer && req.UserType != shared_models.UserTypeFreelancer {
		c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidUserType.Error()})
		return
	}

	ctx := c.Request.Context()
	if _, err := user_models.GetUserByUsername(ctx, uc.DB, req.Username); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
		return
	}
	if _, err := user_models.GetUserByEmail(ctx, uc.DB, req.Email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}

	user, err := user_models.CreateUser(ctx, uc.DB, req.Username, req.Email, req.Password, req.UserType)
	if err != nil {
		// The existence checks above race with concurrent registrations;
		// the unique constraints are the source of truth.
		if user_models.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "username or email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
		return
	}

	switch req.UserType {
	case shared_models.UserTypeFreelancer:
		if _, err := freelancer_models.CreateProfile(ctx, uc.DB, user.ID, req.PaymentMode); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create freelancer profile"})
			return
		}
	case shared_models.UserTypeCustomer:
		if err := freelancer_models.CreateCustomerProfile(ctx, uc.DB, user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create customer profile"})
			return
		}
	}

	// Verification email is best effort; registration stands even if SMTP
	// or Redis are down, the OTP can be re-requested.
	otp := utils.GenerateSecureOTP()
	if err := mail.StoreOTP(ctx, mail.EMAIL_VERIFICATION_OTP_PREFIX+req.Email, otp); err != nil {
		logger.WarnLogger.Warnf("Could not store verification OTP for %s: %v", req.Email, err)
	} else if err := mail.SendVerificationOTP(req.Email, req.Username, otp); err != nil {
		logger.WarnLogger.Warnf("Could not send verification OTP to %s: %v", req.Email, err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "account created, check your email for the verification code",
		"user":    user,
	})
}

// VerifyEmail handles POST /verify-email.
func (uc *UserController) VerifyEmail(c *gin.Context) {
	var req VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	if err := mail.VerifyOTP(ctx, mail.EMAIL_VERIFICATION_OTP_PREFIX+req.Email, req.OTP); err != nil {
		if errors.Is(err, mail.ErrOTPNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or expired verification code"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify code"})
		return
	}

	if err := user_models.MarkEmailVerified(ctx, uc.DB, req.Email); err != nil {
		if errors.Is(err, user_models.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to verify email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified"})
}

// ResendOTP handles POST /resend-otp.
func (uc *UserController) ResendOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ctx := c.Request.Context()
	user, err := user_models.GetUserByEmail(ctx, uc.DB, req.Email)
	if err != nil {
		// Same response whether or not the account exists.
		c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a new code has been sent"})
		return
	}
	if user.IsVerified {
		c.JSON(http.StatusOK, gin.H{"message": "email is already verified"})
		return
	}

	otp := utils.GenerateSecureOTP()
	if err := mail.StoreOTP(ctx, mail.EMAIL_VERIFICATION_OTP_PREFIX+req.Email, otp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue verification code"})
		return
	}
	if err := mail.SendVerificationOTP(req.Email, user.Username, otp); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send verification code"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "if the account exists, a new code has been sent"})
}

// Login handles POST /login.
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, accessToken, refreshToken, err := user_models.LoginUser(c.Request.Context(), uc.DB, req.Username, req.Password)
	if err != nil {
		logger.WarnLogger.Warnf("Login failed for %s: %v", req.Username, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}
	if !user.IsVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": ErrEmailNotVerified.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          user,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RefreshToken handles POST /refresh-token, exchanging a valid refresh
// token for a fresh pair.
func (uc *UserController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	claims, err := shared_models.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}

	// A logout bumps the user's token version, so older refresh tokens
	// stop working here.
	user, err := user_models.GetUserByID(c.Request.Context(), uc.DB, claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	if claims.TokenVersion != user.TokenVersion {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "session expired, please log in again"})
		return
	}

	accessToken, err := shared_models.GenerateAccessToken(user.ID, user.UserType, user.TokenVersion, shared_models.ACCESS_TOKEN_EXPIRY)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	refreshToken, err := shared_models.GenerateRefreshToken(user.ID, user.UserType, user.TokenVersion, shared_models.REFRESH_TOKEN_EXPIRY)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Logout handles POST /logout. Bumping the token version invalidates all
// outstanding refresh tokens; access tokens die at their short expiry.
func (uc *UserController) Logout(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := user_models.IncrementTokenVersion(c.Request.Context(), uc.DB, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log out"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GetMyProfile handles GET /profile: the account plus its role profile.
func (uc *UserController) GetMyProfile(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ctx := c.Request.Context()
	user, err := user_models.GetUserByID(ctx, uc.DB, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}

	resp := gin.H{"user": user}
	if user.IsFreelancer() {
		if profile, err := freelancer_models.GetProfileByUserID(ctx, uc.DB, userID); err == nil {
			resp["freelancer_profile"] = profile
		}
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProfile handles PATCH /update-profile for contact fields.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := user_models.UpdateUserProfile(c.Request.Context(), uc.DB, userID,
		req.Phone, req.Address, req.City, req.Area, req.Pincode); err != nil {
		if errors.Is(err, user_models.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}

type UpdateFreelancerProfileRequest struct {
	Bio             string  `json:"bio"`
	ExperienceYears int     `json:"experience_years"`
	Skills          string  `json:"skills"`
	PaymentMode     string  `json:"payment_mode"`
	GpayNumber      string  `json:"gpay_number"`
	HourlyRate      float64 `json:"hourly_rate"`
	IsAvailable     *bool   `json:"is_available"`
}

// UpdateFreelancerProfile handles PATCH /freelancer-profile. Freelancers
// only.
func (uc *UserController) UpdateFreelancerProfile(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req UpdateFreelancerProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	switch req.PaymentMode {
	case "", shared_models.PaymentModeCash, shared_models.PaymentModeGpay, shared_models.PaymentModeBoth:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment_mode must be cash, gpay or both"})
		return
	}

	ctx := c.Request.Context()
	profile, err := freelancer_models.GetProfileByUserID(ctx, uc.DB, userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "freelancer profile not found"})
		return
	}

	profile.Bio = req.Bio
	profile.ExperienceYears = req.ExperienceYears
	profile.Skills = req.Skills
	profile.GpayNumber = req.GpayNumber
	profile.HourlyRate = req.HourlyRate
	if req.PaymentMode != "" {
		profile.PaymentMode = req.PaymentMode
	}
	if req.IsAvailable != nil {
		profile.IsAvailable = *req.IsAvailable
	}

	if err := freelancer_models.UpdateProfile(ctx, uc.DB, profile); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update freelancer profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "profile updated", "profile": profile})
}

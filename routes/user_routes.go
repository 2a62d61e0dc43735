package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/servenear/marketplace/config/db"
	"github.com/servenear/marketplace/controllers/user_controller"
	middleware "github.com/servenear/marketplace/middlewares"
	"github.com/servenear/marketplace/middlewares/auth"
	"github.com/servenear/marketplace/models/shared_models"
)

func RegisterUserRoutes(router *gin.Engine) {
	userController := user_controller.NewUserController(db.DB)

	// Public routes
	router.POST("/register", middleware.CombinedRateLimiter("register", "10-2m", "30-60m"), userController.Register)
	router.POST("/login", middleware.CombinedRateLimiter("login", "10-2m", "30-30m"), userController.Login)
	router.POST("/refresh-token", middleware.NewRateLimiter("10-60m", "refresh-token"), userController.RefreshToken)
	router.POST("/verify-email", middleware.CombinedRateLimiter("verify-email", "5-1m", "20-10m"), userController.VerifyEmail)
	router.POST("/resend-otp", middleware.CombinedRateLimiter("resend-otp", "5-1m", "20-10m"), userController.ResendOTP)

	// Protected routes
	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/logout", middleware.CombinedRateLimiter("logout", "5-1m", "20-10m"), userController.Logout)
		protected.GET("/profile", middleware.NewRateLimiter("15-30s", "profile"), userController.GetMyProfile)
		protected.PATCH("/update-profile", middleware.CombinedRateLimiter("update-profile", "5-1m", "10-5m"), userController.UpdateProfile)
		protected.PATCH("/freelancer-profile",
			auth.RequireUserType(shared_models.UserTypeFreelancer),
			middleware.CombinedRateLimiter("freelancer-profile", "5-1m", "10-5m"),
			userController.UpdateFreelancerProfile)
	}
}

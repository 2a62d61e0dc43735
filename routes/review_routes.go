package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/servenear/marketplace/config/db"
	"github.com/servenear/marketplace/controllers/review_controller"
	middleware "github.com/servenear/marketplace/middlewares"
	"github.com/servenear/marketplace/middlewares/auth"
	"github.com/servenear/marketplace/models/shared_models"
)

func RegisterReviewRoutes(router *gin.Engine) {
	reviewController := review_controller.NewReviewController(db.DB)

	// Public: anyone can read a freelancer's reviews.
	router.GET("/freelancers/:id/reviews", middleware.NewRateLimiter("60-30s", "list-reviews"), reviewController.ListFreelancerReviews)

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/reviews",
			auth.RequireUserType(shared_models.UserTypeCustomer),
			middleware.CombinedRateLimiter("create-review", "5-1m", "20-60m"),
			reviewController.CreateReview)

		protected.POST("/reviews/:id/respond",
			auth.RequireUserType(shared_models.UserTypeFreelancer),
			middleware.NewRateLimiter("10-1m", "respond-review"),
			reviewController.RespondToReview)

		protected.DELETE("/reviews/:id",
			auth.RequireUserType(shared_models.UserTypeAdmin),
			reviewController.DeactivateReview)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/servenear/marketplace/config/db"
	"github.com/servenear/marketplace/controllers/payment_controller"
	middleware "github.com/servenear/marketplace/middlewares"
	"github.com/servenear/marketplace/middlewares/auth"
	"github.com/servenear/marketplace/models/shared_models"
)

func RegisterPaymentRoutes(router *gin.Engine) {
	paymentController := payment_controller.NewPaymentController(db.DB)

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/bookings/:id/payment", middleware.NewRateLimiter("30-30s", "get-payment"), paymentController.GetBookingPayment)

		protected.POST("/bookings/:id/refund",
			auth.RequireUserType(shared_models.UserTypeCustomer),
			middleware.NewRateLimiter("5-10m", "request-refund"),
			paymentController.RequestRefund)

		admin := protected.Group("/")
		admin.Use(auth.RequireUserType(shared_models.UserTypeAdmin))
		{
			admin.POST("/refunds/:id/review", paymentController.ReviewRefund)
			admin.POST("/refunds/:id/process", paymentController.ProcessRefund)
		}
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/servenear/marketplace/clients"
	"github.com/servenear/marketplace/config/db"
	"github.com/servenear/marketplace/controllers/booking_controller"
	middleware "github.com/servenear/marketplace/middlewares"
	"github.com/servenear/marketplace/middlewares/auth"
	"github.com/servenear/marketplace/models/shared_models"
)

func RegisterBookingRoutes(router *gin.Engine, gateway clients.PaymentGateway) {
	bookingController := booking_controller.NewBookingController(db.DB, gateway)

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/bookings", middleware.NewRateLimiter("30-30s", "list-bookings"), bookingController.ListBookings)
		protected.GET("/bookings/:id", middleware.NewRateLimiter("30-30s", "get-booking"), bookingController.GetBooking)
		protected.GET("/bookings/:id/history", middleware.NewRateLimiter("30-30s", "booking-history"), bookingController.GetBookingHistory)

		customer := protected.Group("/")
		customer.Use(auth.RequireUserType(shared_models.UserTypeCustomer))
		{
			customer.POST("/bookings", middleware.CombinedRateLimiter("create-booking", "10-1m", "50-60m"), bookingController.CreateBooking)
			customer.POST("/bookings/payment-order", middleware.CombinedRateLimiter("payment-order", "10-1m", "50-60m"), bookingController.CreatePaymentOrder)
			customer.POST("/bookings/:id/cancel", middleware.NewRateLimiter("10-1m", "cancel-booking"), bookingController.CancelBooking)
		}

		freelancer := protected.Group("/")
		freelancer.Use(auth.RequireUserType(shared_models.UserTypeFreelancer))
		{
			freelancer.POST("/bookings/:id/accept", middleware.NewRateLimiter("20-1m", "accept-booking"), bookingController.AcceptBooking)
			freelancer.POST("/bookings/:id/reject", middleware.NewRateLimiter("20-1m", "reject-booking"), bookingController.RejectBooking)
			freelancer.POST("/bookings/:id/complete", middleware.NewRateLimiter("20-1m", "complete-booking"), bookingController.CompleteBooking)
		}
	}
}

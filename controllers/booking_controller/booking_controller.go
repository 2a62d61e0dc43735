package booking_controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/clients"
	"github.com/servenear/marketplace/config"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/booking_models"
	"github.com/servenear/marketplace/models/freelancer_models"
	"github.com/servenear/marketplace/models/service_models"
	"github.com/servenear/marketplace/models/shared_models"
	"github.com/servenear/marketplace/utils"
)

const (
	bookingDateLayout = "2006-01-02"
	bookingTimeLayout = "15:04"
)

// BookingController holds dependencies for booking lifecycle operations.
type BookingController struct {
	DB      *pgxpool.Pool
	Gateway clients.PaymentGateway
}

// NewBookingController creates a new instance of BookingController.
func NewBookingController(db *pgxpool.Pool, gateway clients.PaymentGateway) *BookingController {
	return &BookingController{
		DB:      db,
		Gateway: gateway,
	}
}

type CreateBookingRequest struct {
	ServiceID         string `json:"service_id" binding:"required,uuid"`
	BookingDate       string `json:"booking_date" binding:"required"`
	BookingTime       string `json:"booking_time" binding:"required"`
	CustomerNotes     string `json:"customer_notes"`
	PaymentMethod     string `json:"payment_method" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

type CompleteBookingRequest struct {
	FreelancerNotes string `json:"freelancer_notes"`
}

type CreateOrderRequest struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
}

// CreateBooking handles POST /bookings. Customers only.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	customerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request", "details": err.Error()})
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid service id"})
		return
	}

	bookingDate, err := time.ParseInLocation(bookingDateLayout, req.BookingDate, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ErrInvalidDateTimeFormat.Error(), "field": "booking_date"})
		return
	}
	bookingTime, err := time.ParseInLocation(bookingTimeLayout, req.BookingTime, time.Local)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ErrInvalidDateTimeFormat.Error(), "field": "booking_time"})
		return
	}

	// Online payments must carry a signature we can verify before anything
	// is persisted.
	if req.PaymentMethod == shared_models.PaymentMethodRazorpay {
		if bc.Gateway == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": ErrGatewayNotConfigured.Error()})
			return
		}
		if !bc.Gateway.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			logger.WarnLogger.Warnf("Razorpay signature verification failed for customer %s", customerID)
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": ErrPaymentNotVerified.Error()})
			return
		}
	}

	input := &booking_models.CreateBookingInput{
		CustomerID:       customerID,
		ServiceID:        serviceID,
		BookingDate:      bookingDate,
		BookingTime:      bookingTime,
		CustomerNotes:    req.CustomerNotes,
		PaymentMethod:    req.PaymentMethod,
		GatewayPaymentID: req.RazorpayPaymentID,
		GatewayOrderID:   req.RazorpayOrderID,
		GatewaySignature: req.RazorpaySignature,
	}

	booking, err := booking_models.CreateBooking(c.Request.Context(), bc.DB, input)
	if err != nil {
		var vErr *booking_models.ValidationError
		switch {
		case errors.As(err, &vErr):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": vErr.Message, "field": vErr.Field})
		case errors.Is(err, service_models.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "service not found"})
		case errors.Is(err, freelancer_models.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "service not found"})
		default:
			logger.ErrorLogger.Errorf("Failed to create booking for customer %s: %v", customerID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "booking": booking})
}

// CreatePaymentOrder handles POST /bookings/payment-order. It creates a
// Razorpay order for the service price so the client can open checkout.
func (bc *BookingController) CreatePaymentOrder(c *gin.Context) {
	customerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
		return
	}

	if bc.Gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": ErrGatewayNotConfigured.Error()})
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid service id"})
		return
	}

	service, err := service_models.GetServiceByID(c.Request.Context(), bc.DB, serviceID)
	if err != nil || !service.IsActive || !service.IsApproved {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "service not found"})
		return
	}

	receipt := "bk_" + customerID.String()[:8] + "_" + strconv.FormatInt(time.Now().Unix(), 10)
	order, err := bc.Gateway.CreateOrder(service.Price, "INR", receipt)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create payment order for service %s: %v", serviceID, err)
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "message": "failed to create payment order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func bookingIDFromPath(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidBookingID
	}
	return id, nil
}

// respondTransitionError maps model errors from status transitions onto
// HTTP statuses: missing/foreign booking is 404, a guard refusal is 409.
func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking_models.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "booking not found"})
	case errors.Is(err, booking_models.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": err.Error()})
	default:
		logger.ErrorLogger.Errorf("Booking transition failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
	}
}

// AcceptBooking handles POST /bookings/:id/accept. Freelancers only.
func (bc *BookingController) AcceptBooking(c *gin.Context) {
	freelancerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	bookingID, err := bookingIDFromPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := booking_models.AcceptBooking(c.Request.Context(), bc.DB, bookingID, freelancerID); err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "booking accepted"})
}

// RejectBooking handles POST /bookings/:id/reject. Freelancers only.
func (bc *BookingController) RejectBooking(c *gin.Context) {
	freelancerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	bookingID, err := bookingIDFromPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	if err := booking_models.RejectBooking(c.Request.Context(), bc.DB, bookingID, freelancerID); err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "booking rejected"})
}

// CompleteBooking handles POST /bookings/:id/complete. Freelancers only.
func (bc *BookingController) CompleteBooking(c *gin.Context) {
	freelancerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	bookingID, err := bookingIDFromPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	var req CompleteBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
			return
		}
	}

	if err := booking_models.CompleteBooking(c.Request.Context(), bc.DB, bookingID, freelancerID, req.FreelancerNotes); err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "booking completed"})
}

// CancelBooking handles POST /bookings/:id/cancel. Customers only, and only
// outside the configured cancellation window.
func (bc *BookingController) CancelBooking(c *gin.Context) {
	customerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	bookingID, err := bookingIDFromPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	window := config.CancellationWindow()
	if err := booking_models.CancelBooking(c.Request.Context(), bc.DB, bookingID, customerID, window); err != nil {
		respondTransitionError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "booking cancelled"})
}

// canView reports whether the caller may see a booking.
func canView(booking *booking_models.Booking, userID uuid.UUID, userType string) bool {
	if userType == shared_models.UserTypeAdmin {
		return true
	}
	return booking.CustomerID == userID || booking.FreelancerID == userID
}

// GetBooking handles GET /bookings/:id.
func (bc *BookingController) GetBooking(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	bookingID, err := bookingIDFromPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	booking, err := booking_models.GetBookingByID(c.Request.Context(), bc.DB, bookingID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	if !canView(booking, userID, c.GetString("user_type")) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "booking": booking})
}

// ListBookings handles GET /bookings. Customers see their own bookings,
// freelancers theirs, admins everything.
func (bc *BookingController) ListBookings(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}

	status := c.Query("status")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	bookings, totalCount, err := booking_models.ListBookings(
		c.Request.Context(), bc.DB, userID, c.GetString("user_type"), status, page, limit)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list bookings for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"bookings":    bookings,
		"total_count": totalCount,
		"page":        page,
		"limit":       limit,
	})
}

// GetBookingHistory handles GET /bookings/:id/history.
func (bc *BookingController) GetBookingHistory(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "unauthorized"})
		return
	}
	bookingID, err := bookingIDFromPath(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	booking, err := booking_models.GetBookingByID(c.Request.Context(), bc.DB, bookingID)
	if err != nil {
		respondTransitionError(c, err)
		return
	}
	if !canView(booking, userID, c.GetString("user_type")) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "booking not found"})
		return
	}

	history, err := booking_models.GetBookingHistory(c.Request.Context(), bc.DB, bookingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch booking history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "history": history})
}

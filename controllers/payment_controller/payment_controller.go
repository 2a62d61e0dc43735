package payment_controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/booking_models"
	"github.com/servenear/marketplace/models/payment_models"
	"github.com/servenear/marketplace/models/shared_models"
	"github.com/servenear/marketplace/utils"
)

// PaymentController holds dependencies for payment and refund operations.
type PaymentController struct {
	DB *pgxpool.Pool
}

// NewPaymentController creates a new instance of PaymentController.
func NewPaymentController(db *pgxpool.Pool) *PaymentController {
	return &PaymentController{DB: db}
}

type RequestRefundRequest struct {
	Reason string `json:"reason" binding:"required,min=5,max=500"`
}

type ReviewRefundRequest struct {
	Approve bool   `json:"approve"`
	Notes   string `json:"notes"`
}

// GetBookingPayment handles GET /bookings/:id/payment.
func (pc *PaymentController) GetBookingPayment(c *gin.Context) {
	userID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	ctx := c.Request.Context()
	booking, err := booking_models.GetBookingByID(ctx, pc.DB, bookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	userType := c.GetString("user_type")
	if userType != shared_models.UserTypeAdmin &&
		booking.CustomerID != userID && booking.FreelancerID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	payment, err := payment_models.GetPaymentByBookingID(ctx, pc.DB, bookingID)
	if err != nil {
		if errors.Is(err, payment_models.ErrPaymentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": payment})
}

// RequestRefund handles POST /bookings/:id/refund. The paying customer may
// request a refund of a completed payment.
func (pc *PaymentController) RequestRefund(c *gin.Context) {
	customerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req RequestRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	payment, err := payment_models.GetPaymentByBookingID(ctx, pc.DB, bookingID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if payment.CustomerID != customerID {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	if payment.Status != shared_models.PaymentStatusCompleted {
		c.JSON(http.StatusConflict, gin.H{"error": "only completed payments can be refunded"})
		return
	}

	refund, err := payment_models.CreateRefundRequest(ctx, pc.DB, payment, customerID, req.Reason)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refund request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"refund": refund})
}

// ReviewRefund handles POST /refunds/:id/review. Admins only.
func (pc *PaymentController) ReviewRefund(c *gin.Context) {
	adminID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund id"})
		return
	}

	var req ReviewRefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := payment_models.ReviewRefund(c.Request.Context(), pc.DB, refundID, adminID, req.Approve, req.Notes); err != nil {
		if errors.Is(err, payment_models.ErrRefundNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "refund not found or already reviewed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to review refund"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "refund reviewed"})
}

// ProcessRefund handles POST /refunds/:id/process. Admins only; flips an
// approved refund to processed and the payment to refunded atomically.
func (pc *PaymentController) ProcessRefund(c *gin.Context) {
	refundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid refund id"})
		return
	}

	ctx := c.Request.Context()
	tx, err := pc.DB.Begin(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process refund"})
		return
	}
	defer tx.Rollback(ctx)

	if err := payment_models.ProcessRefund(ctx, tx, refundID); err != nil {
		if errors.Is(err, payment_models.ErrRefundNotApproved) {
			c.JSON(http.StatusConflict, gin.H{"error": "refund is not approved"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to process refund %s: %v", refundID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process refund"})
		return
	}
	if err := tx.Commit(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process refund"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "refund processed"})
}

package review_controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/models/booking_models"
	"github.com/servenear/marketplace/models/review_models"
	"github.com/servenear/marketplace/utils"
)

// ReviewController holds dependencies for review operations.
type ReviewController struct {
	DB *pgxpool.Pool
}

// NewReviewController creates a new instance of ReviewController.
func NewReviewController(db *pgxpool.Pool) *ReviewController {
	return &ReviewController{DB: db}
}

type CreateReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required,uuid"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=1000"`
}

type RespondToReviewRequest struct {
	Response string `json:"response" binding:"required,min=1,max=1000"`
}

// CreateReview handles POST /reviews. Customers only, completed bookings
// only, one review per booking.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	customerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	review, err := review_models.CreateReview(c.Request.Context(), rc.DB, customerID, bookingID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, booking_models.ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, review_models.ErrBookingNotCompleted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, review_models.ErrAlreadyReviewed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case errors.Is(err, review_models.ErrInvalidRating):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"review": review})
}

// RespondToReview handles POST /reviews/:id/respond. Freelancers only.
func (rc *ReviewController) RespondToReview(c *gin.Context) {
	freelancerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	var req RespondToReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if err := review_models.RespondToReview(c.Request.Context(), rc.DB, reviewID, freelancerID, req.Response); err != nil {
		if errors.Is(err, review_models.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found or already responded"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to respond to review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "response added"})
}

// ListFreelancerReviews handles GET /freelancers/:id/reviews. Public.
func (rc *ReviewController) ListFreelancerReviews(c *gin.Context) {
	freelancerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid freelancer id"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	reviews, totalCount, err := review_models.ListReviewsByFreelancer(c.Request.Context(), rc.DB, freelancerID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":     reviews,
		"total_count": totalCount,
		"page":        page,
		"limit":       limit,
	})
}

// DeactivateReview handles DELETE /reviews/:id. Admins only.
func (rc *ReviewController) DeactivateReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review id"})
		return
	}

	if err := review_models.DeactivateReview(c.Request.Context(), rc.DB, reviewID); err != nil {
		if errors.Is(err, review_models.ErrReviewNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to deactivate review"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "review deactivated"})
}

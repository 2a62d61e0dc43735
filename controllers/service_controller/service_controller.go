package service_controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/servenear/marketplace/logger"
	"github.com/servenear/marketplace/models/service_models"
	"github.com/servenear/marketplace/utils"
)

// ServiceController holds dependencies for catalog operations.
type ServiceController struct {
	DB *pgxpool.Pool
}

// NewServiceController creates a new instance of ServiceController.
func NewServiceController(db *pgxpool.Pool) *ServiceController {
	return &ServiceController{DB: db}
}

type CreateServiceRequest struct {
	CategoryID    string  `json:"category_id" binding:"required,uuid"`
	SubcategoryID string  `json:"subcategory_id" binding:"omitempty,uuid"`
	Title         string  `json:"title" binding:"required,min=3,max=200"`
	Description   string  `json:"description"`
	Price         float64 `json:"price" binding:"required,gt=0"`
	Duration      int     `json:"duration" binding:"required,gt=0"`
}

type CreateSubcategoryRequest struct {
	CategoryID string `json:"category_id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required,min=2,max=100"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description"`
}

// CreateService handles POST /services. Freelancers only; the service
// stays unbookable until an admin approves it.
func (sc *ServiceController) CreateService(c *gin.Context) {
	freelancerID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	service, err := service_models.NewService(freelancerID, categoryID, req.Title, req.Description, req.Price, req.Duration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create service"})
		return
	}

	if req.SubcategoryID != "" {
		subcategoryID, err := uuid.Parse(req.SubcategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subcategory id"})
			return
		}
		service.SubcategoryID = pgtype.UUID{Bytes: subcategoryID, Valid: true}
	}

	created, err := service_models.CreateService(c.Request.Context(), sc.DB, service)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create service for freelancer %s: %v", freelancerID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "service created, pending approval", "service": created})
}

// ListServices handles GET /services with optional category filter.
func (sc *ServiceController) ListServices(c *gin.Context) {
	categoryID := uuid.Nil
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
			return
		}
		categoryID = parsed
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	services, totalCount, err := service_models.ListServices(c.Request.Context(), sc.DB, categoryID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services":    services,
		"total_count": totalCount,
		"page":        page,
		"limit":       limit,
	})
}

// GetService handles GET /services/:id.
func (sc *ServiceController) GetService(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}

	service, err := service_models.GetServiceByID(c.Request.Context(), sc.DB, serviceID)
	if err != nil {
		if errors.Is(err, service_models.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

// ApproveService handles POST /services/:id/approve. Admins only.
func (sc *ServiceController) ApproveService(c *gin.Context) {
	serviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid service id"})
		return
	}

	if err := service_models.ApproveService(c.Request.Context(), sc.DB, serviceID); err != nil {
		if errors.Is(err, service_models.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to approve service"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "service approved"})
}

// ListCategories handles GET /categories.
func (sc *ServiceController) ListCategories(c *gin.Context) {
	categories, err := service_models.ListCategories(c.Request.Context(), sc.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// ListSubcategories handles GET /categories/:id/subcategories.
func (sc *ServiceController) ListSubcategories(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	subcategories, err := service_models.ListSubcategories(c.Request.Context(), sc.DB, categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subcategories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subcategories": subcategories})
}

// CreateSubcategory handles POST /subcategories. Admins only.
func (sc *ServiceController) CreateSubcategory(c *gin.Context) {
	var req CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	subcategory, err := service_models.CreateSubcategory(c.Request.Context(), sc.DB, categoryID, req.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subcategory"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"subcategory": subcategory})
}

// CreateCategory handles POST /categories. Admins only.
func (sc *ServiceController) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	category, err := service_models.CreateCategory(c.Request.Context(), sc.DB, req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

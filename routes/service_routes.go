package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/servenear/marketplace/config/db"
	"github.com/servenear/marketplace/controllers/service_controller"
	middleware "github.com/servenear/marketplace/middlewares"
	"github.com/servenear/marketplace/middlewares/auth"
	"github.com/servenear/marketplace/models/shared_models"
)

func RegisterServiceRoutes(router *gin.Engine) {
	serviceController := service_controller.NewServiceController(db.DB)

	// Public catalog
	router.GET("/services", middleware.NewRateLimiter("60-30s", "list-services"), serviceController.ListServices)
	router.GET("/services/:id", middleware.NewRateLimiter("60-30s", "get-service"), serviceController.GetService)
	router.GET("/categories", middleware.NewRateLimiter("60-30s", "list-categories"), serviceController.ListCategories)
	router.GET("/categories/:id/subcategories", middleware.NewRateLimiter("60-30s", "list-subcategories"), serviceController.ListSubcategories)

	protected := router.Group("/")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/services",
			auth.RequireUserType(shared_models.UserTypeFreelancer),
			middleware.CombinedRateLimiter("create-service", "5-1m", "20-60m"),
			serviceController.CreateService)

		admin := protected.Group("/")
		admin.Use(auth.RequireUserType(shared_models.UserTypeAdmin))
		{
			admin.POST("/services/:id/approve", serviceController.ApproveService)
			admin.POST("/categories", serviceController.CreateCategory)
			admin.POST("/subcategories", serviceController.CreateSubcategory)
		}
	}
}

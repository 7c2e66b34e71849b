package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/config"
	productcontroller "github.com/stylehub/backoffice-api/controllers/product"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/middleware"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

func SetupProductRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, inv *inventory.Service) {
	// Storefront reads stay open.
	r.GET("/product/all", productcontroller.GetProducts(db))
	r.GET("/product/:id", productcontroller.GetProductByID(db))
	r.GET("/categories", productcontroller.GetAllCategories(db))

	product := r.Group("/product")
	product.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireRoles(db, models.RoleProductManager))
	{
		product.POST("/add", productcontroller.AddProduct(db))
		product.PUT("/:id", productcontroller.UpdateProduct(db, inv))
		product.DELETE("/:id", productcontroller.DeleteProduct(db))
		product.POST("/bulk-upload", productcontroller.BulkUploadProducts(db))
		product.GET("/export/excel", productcontroller.ExportProductsToExcel(db))
		product.POST("/:id/images", productcontroller.UploadProductImage(db, cfg.UploadDir))
	}

	category := r.Group("/categories")
	category.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireRoles(db, models.RoleProductManager))
	{
		category.POST("", productcontroller.CreateCategory(db))
		category.PUT("/:id", productcontroller.UpdateCategory(db))
		category.DELETE("/:id", productcontroller.DeleteCategory(db))
		category.POST("/sub", productcontroller.CreateSubCategory(db))
		category.DELETE("/sub/:id", productcontroller.DeleteSubCategory(db))
	}
}

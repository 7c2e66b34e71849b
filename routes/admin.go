package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/config"
	adminController "github.com/stylehub/backoffice-api/controllers/admin"
	"github.com/stylehub/backoffice-api/middleware"
	"gorm.io/gorm"
)

// Admin management is reserved for the super admin.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireSuperAdmin(db))
	{
		admin.POST("/add-admin", adminController.AddAdmin(db))
		admin.GET("/all", adminController.GetAllAdmins(db))
		admin.PUT("/:id/roles", adminController.UpdateAdminRoles(db))
		admin.DELETE("/:id", adminController.DeleteAdmin(db))
		admin.GET("/roles", adminController.GetAllRoles(db))
	}
}

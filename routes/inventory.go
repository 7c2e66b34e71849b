package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/config"
	inventoryControllers "github.com/stylehub/backoffice-api/controllers/inventory"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/middleware"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

func SetupInventoryRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, inv *inventory.Service) {
	grp := r.Group("/inventory")
	grp.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireRoles(db, models.RoleInventoryManager))
	{
		grp.GET("/realtime-inventory", inventoryControllers.RealtimeInventoryHandler(db, inv))
		grp.GET("/inventory-report", inventoryControllers.InventoryReportHandler(db, cfg.ReportLookbackMonths))
	}

	// Browser WebSocket clients cannot set an Authorization header, so
	// the alert stream sits outside the token middleware.
	r.GET("/ws/inventory-alerts", inventoryControllers.AlertsSocketHandler(inv))
}

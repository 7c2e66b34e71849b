package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/config"
	"github.com/stylehub/backoffice-api/inventory"
	"gorm.io/gorm"
)

// SetupRoutes registers every route group on the engine.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, inv *inventory.Service) {
	SetupAuthRoutes(r, db, cfg)
	SetupAdminRoutes(r, db, cfg)
	SetupProductRoutes(r, db, cfg, inv)
	SetupOrderRoutes(r, db, cfg, inv)
	SetupInventoryRoutes(r, db, cfg, inv)
	SetupPromotionRoutes(r, db, cfg)
}

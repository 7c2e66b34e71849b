package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/config"
	promotionController "github.com/stylehub/backoffice-api/controllers/promotion"
	"github.com/stylehub/backoffice-api/middleware"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

func SetupPromotionRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.GET("/promotions/all", promotionController.GetAllPromotions(db))

	promo := r.Group("/promotions")
	promo.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireRoles(db, models.RoleProductManager))
	{
		promo.POST("/add", promotionController.AddPromotion(db))
		promo.DELETE("/:id", promotionController.DeletePromotion(db))
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/auth"
	"github.com/stylehub/backoffice-api/config"
	"gorm.io/gorm"
)

func SetupAuthRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.POST("/auth/login", auth.LoginHandler(db, cfg.JWTSecret))
	r.POST("/auth/logout", auth.LogoutHandler())
}

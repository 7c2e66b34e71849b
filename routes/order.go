package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/config"
	orderControllers "github.com/stylehub/backoffice-api/controllers/order"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/middleware"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config, inv *inventory.Service) {
	// Storefront entry points: placing an order and opening a return
	// happen before any admin is involved.
	r.POST("/orders/create", orderControllers.CreateOrderHandler(db, inv))
	r.POST("/orders/:orderID/create-return", orderControllers.CreateReturnHandler(db))

	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken(cfg.JWTSecret), middleware.RequireRoles(db, models.RoleOrderManager))
	{
		orders.GET("/all", orderControllers.GetAllOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))
		orders.PUT("/:orderID/update-status", orderControllers.UpdateOrderStatusHandler(db))
		orders.GET("/:orderID/invoice", orderControllers.GetInvoiceHandler(db, cfg.InvoiceDir))

		orders.GET("/returns/all", orderControllers.GetAllReturnsHandler(db))
		orders.GET("/returns/:returnID", orderControllers.GetReturnByIDHandler(db))
		orders.PUT("/returns/:returnID/update-status", orderControllers.UpdateReturnStatusHandler(db, inv))
		orders.GET("/refunds/all", orderControllers.GetAllRefundsHandler(db))
	}
}

package orderControllers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

// -------- Request Structs --------

type OrderLine struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

type CreateOrderRequest struct {
	UserID   uint        `json:"user_id" binding:"required"`
	Products []OrderLine `json:"products" binding:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

// mapOrderStatus accepts the statuses an admin may set directly.
// Refunded is reachable only through the refund workflow.
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch strings.ToLower(status) {
	case "pending":
		return models.OrderStatusPending, nil
	case "processing":
		return models.OrderStatusProcessing, nil
	case "shipped":
		return models.OrderStatusShipped, nil
	case "delivered":
		return models.OrderStatusDelivered, nil
	default:
		return "", errors.New("invalid order status")
	}
}

// -------- Core Logic --------

// CreateOrder validates each line, deducts stock and creates the order
// with its payment row in one transaction. Partial application is never
// visible: any failure rolls the whole operation back.
func CreateOrder(db *gorm.DB, inv *inventory.Service, req CreateOrderRequest) (uint, []inventory.Alert, error) {
	var orderID uint
	var alerts []inventory.Alert

	err := db.Transaction(func(tx *gorm.DB) error {
		var total float64
		items := make([]models.OrderItem, 0, len(req.Products))

		for _, line := range req.Products {
			product, lineAlerts, err := inv.Deduct(tx, line.ProductID, line.Quantity, models.ChangeOrderCreated)
			if err != nil {
				return err
			}
			total += product.Price * float64(line.Quantity)
			alerts = append(alerts, lineAlerts...)
			items = append(items, models.OrderItem{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				UnitPrice: product.Price,
			})
		}

		order := models.Order{
			UserID:        req.UserID,
			OrderDate:     time.Now().UTC(),
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			TotalAmount:   total,
			Items:         items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Payment{
			OrderID:       order.ID,
			PaymentStatus: models.PaymentStatusPending,
		}).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return orderID, alerts, nil
}

// -------- Handlers --------

func CreateOrderHandler(db *gorm.DB, inv *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderID, alerts, err := CreateOrder(db, inv, req)
		if err != nil {
			switch {
			case errors.Is(err, inventory.ErrProductNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, inventory.ErrInvalidQuantity), errors.Is(err, inventory.ErrInsufficientStock):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				log.Printf("order creation failed: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			}
			return
		}

		inv.Broadcast(alerts)
		c.JSON(http.StatusCreated, gin.H{"message": "Order created successfully", "order_id": orderID})
	}
}

func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("order_date DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		var order models.Order
		if err := db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var order models.Order
		if err := db.First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated successfully"})
	}
}

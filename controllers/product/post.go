package productcontroller

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

type WarehouseEntry struct {
	WarehouseID uint `json:"warehouse_id"`
	Quantity    int  `json:"quantity"`
}

type AddProductRequest struct {
	Name           string           `json:"name" binding:"required"`
	Description    string           `json:"description"`
	Price          *float64         `json:"price" binding:"required"`
	BaseCost       float64          `json:"base_cost"`
	Size           string           `json:"size"`
	Color          string           `json:"color"`
	Material       string           `json:"material"`
	StockQuantity  *int             `json:"stock_quantity" binding:"required"`
	CategoryID     *uint            `json:"category_id"`
	SubCategoryID  *uint            `json:"subcategory_id"`
	Featured       bool             `json:"featured"`
	WarehouseStock []WarehouseEntry `json:"warehouse_stock"`
}

// validateWarehouseStock checks every entry and, when entries are
// present, that they account for the full aggregate quantity.
func validateWarehouseStock(entries []WarehouseEntry, total int) error {
	sum := 0
	for _, e := range entries {
		if e.WarehouseID == 0 {
			return errors.New("warehouse_id must be a positive integer")
		}
		if e.Quantity < 0 {
			return errors.New("warehouse quantity must be non-negative")
		}
		sum += e.Quantity
	}
	if len(entries) > 0 && sum != total {
		return fmt.Errorf("warehouse quantities sum to %d, stock_quantity is %d", sum, total)
	}
	return nil
}

// createProduct inserts the product, its warehouse rows and the initial
// ledger entry in the caller's transaction. Shared with bulk upload.
func createProduct(tx *gorm.DB, req AddProductRequest) (*models.Product, error) {
	if *req.Price < 0 {
		return nil, errors.New("price must be non-negative")
	}
	if *req.StockQuantity < 0 {
		return nil, errors.New("stock_quantity must be non-negative")
	}
	if err := validateWarehouseStock(req.WarehouseStock, *req.StockQuantity); err != nil {
		return nil, err
	}

	product := models.Product{
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		BaseCost:      req.BaseCost,
		Size:          req.Size,
		Color:         req.Color,
		Material:      req.Material,
		StockQuantity: *req.StockQuantity,
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		Featured:      req.Featured,
	}
	if err := tx.Create(&product).Error; err != nil {
		return nil, err
	}

	for _, e := range req.WarehouseStock {
		if err := tx.Create(&models.WarehouseStock{
			ProductID:   product.ID,
			WarehouseID: e.WarehouseID,
			Quantity:    e.Quantity,
		}).Error; err != nil {
			return nil, err
		}
	}

	if product.StockQuantity > 0 {
		if err := tx.Create(&models.InventoryLog{
			ProductID:    product.ID,
			ChangeAmount: product.StockQuantity,
			ChangeType:   models.ChangeInitialStock,
			Timestamp:    time.Now().UTC(),
		}).Error; err != nil {
			return nil, err
		}
	}
	return &product, nil
}

func AddProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, price, and stock quantity are required fields."})
			return
		}

		var product *models.Product
		err := db.Transaction(func(tx *gorm.DB) error {
			var txErr error
			product, txErr = createProduct(tx, req)
			return txErr
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

type UpdateProductRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price"`
	BaseCost      *float64 `json:"base_cost"`
	Size          *string  `json:"size"`
	Color         *string  `json:"color"`
	Material      *string  `json:"material"`
	StockQuantity *int     `json:"stock_quantity"`
	CategoryID    *uint    `json:"category_id"`
	SubCategoryID *uint    `json:"subcategory_id"`
	Featured      *bool    `json:"featured"`
}

// UpdateProduct applies partial field updates. Stock changes go through
// the inventory service so the warehouse breakdown and the ledger stay
// consistent.
func UpdateProduct(db *gorm.DB, inv *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Price != nil && *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must be non-negative"})
			return
		}
		if req.StockQuantity != nil && *req.StockQuantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "stock_quantity must be non-negative"})
			return
		}

		var product models.Product
		if err := db.First(&product, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			return
		}

		var alerts []inventory.Alert
		err := db.Transaction(func(tx *gorm.DB) error {
			if req.StockQuantity != nil {
				updated, lineAlerts, err := inv.AdjustTo(tx, product.ID, *req.StockQuantity, models.ChangeManualAdjustment)
				if err != nil {
					return err
				}
				alerts = lineAlerts
				product.StockQuantity = updated.StockQuantity
			}

			if req.Name != nil {
				product.Name = *req.Name
			}
			if req.Description != nil {
				product.Description = *req.Description
			}
			if req.Price != nil {
				product.Price = *req.Price
			}
			if req.BaseCost != nil {
				product.BaseCost = *req.BaseCost
			}
			if req.Size != nil {
				product.Size = *req.Size
			}
			if req.Color != nil {
				product.Color = *req.Color
			}
			if req.Material != nil {
				product.Material = *req.Material
			}
			if req.CategoryID != nil {
				product.CategoryID = req.CategoryID
			}
			if req.SubCategoryID != nil {
				product.SubCategoryID = req.SubCategoryID
			}
			if req.Featured != nil {
				product.Featured = *req.Featured
			}
			return tx.Save(&product).Error
		})
		if err != nil {
			if errors.Is(err, inventory.ErrInsufficientStock) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}

		inv.Broadcast(alerts)
		c.JSON(http.StatusOK, product)
	}
}

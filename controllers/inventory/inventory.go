package inventoryControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/inventory"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

type warehouseLevel struct {
	WarehouseID uint `json:"warehouse_id"`
	Quantity    int  `json:"quantity"`
}

type inventoryRow struct {
	ProductID     uint             `json:"product_id"`
	Name          string           `json:"name"`
	StockQuantity int              `json:"stock_quantity"`
	Category      string           `json:"category"`
	Warehouses    []warehouseLevel `json:"warehouses"`
	LowStockAlert bool             `json:"low_stock_alert"`
}

// RealtimeInventoryHandler returns the current stock position of every
// product with its warehouse breakdown.
func RealtimeInventoryHandler(db *gorm.DB, inv *inventory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Preload("Category").Order("name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
			return
		}

		var stocks []models.WarehouseStock
		if err := db.Find(&stocks).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch warehouse stock"})
			return
		}
		byProduct := make(map[uint][]warehouseLevel)
		for _, s := range stocks {
			byProduct[s.ProductID] = append(byProduct[s.ProductID], warehouseLevel{
				WarehouseID: s.WarehouseID,
				Quantity:    s.Quantity,
			})
		}

		rows := make([]inventoryRow, 0, len(products))
		for _, p := range products {
			row := inventoryRow{
				ProductID:     p.ID,
				Name:          p.Name,
				StockQuantity: p.StockQuantity,
				Warehouses:    byProduct[p.ID],
				LowStockAlert: p.StockQuantity < inv.Threshold(),
			}
			if p.Category != nil {
				row.Category = p.Category.Name
			}
			for _, w := range row.Warehouses {
				if w.Quantity < inv.Threshold() {
					row.LowStockAlert = true
				}
			}
			rows = append(rows, row)
		}
		c.JSON(http.StatusOK, gin.H{"inventory": rows})
	}
}

package orderControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/invoice"
	"gorm.io/gorm"
)

// GetInvoiceHandler generates a PDF invoice for the order and streams
// it as an attachment.
func GetInvoiceHandler(db *gorm.DB, invoiceDir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}

		inv, err := invoice.Generate(db, uint(orderID), invoiceDir)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			log.Printf("invoice generation failed for order %d: %v", orderID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate invoice"})
			return
		}

		c.FileAttachment(inv.FilePath, fmt.Sprintf("invoice_%d.pdf", orderID))
	}
}

package promotionController

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

type AddPromotionRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	DiscountRate float64 `json:"discount_rate" binding:"required"`
	StartDate    string  `json:"start_date" binding:"required"`
	EndDate      string  `json:"end_date" binding:"required"`
	ProductIDs   []uint  `json:"product_ids"`
}

func AddPromotion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddPromotionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.DiscountRate <= 0 || req.DiscountRate > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "discount_rate must be between 0 and 1"})
			return
		}
		start, err := time.Parse(dateLayout, req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start_date, expected YYYY-MM-DD"})
			return
		}
		end, err := time.Parse(dateLayout, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date, expected YYYY-MM-DD"})
			return
		}
		if end.Before(start) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end_date must not precede start_date"})
			return
		}

		var products []models.Product
		if len(req.ProductIDs) > 0 {
			if err := db.Where("id IN ?", req.ProductIDs).Find(&products).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
				return
			}
			if len(products) != len(req.ProductIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown product id"})
				return
			}
		}

		promotion := models.Promotion{
			Name:         req.Name,
			Description:  req.Description,
			DiscountRate: req.DiscountRate,
			StartDate:    start,
			EndDate:      end,
			Products:     products,
		}
		if err := db.Create(&promotion).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create promotion"})
			return
		}
		c.JSON(http.StatusCreated, promotion)
	}
}

func GetAllPromotions(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var promotions []models.Promotion
		if err := db.Preload("Products").Find(&promotions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotions"})
			return
		}
		c.JSON(http.StatusOK, promotions)
	}
}

func DeletePromotion(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var promotion models.Promotion
		if err := db.First(&promotion, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Promotion not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch promotion"})
			return
		}
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&promotion).Association("Products").Clear(); err != nil {
				return err
			}
			return tx.Delete(&promotion).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete promotion"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Promotion deleted successfully"})
	}
}

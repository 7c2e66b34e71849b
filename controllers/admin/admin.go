package adminController

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/auth"
	"github.com/stylehub/backoffice-api/middleware"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

type AddAdminRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	RoleIDs  []uint `json:"role_ids"`
}

type UpdateRolesRequest struct {
	RoleIDs []uint `json:"role_ids" binding:"required"`
}

func AddAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddAdminRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Name, email, and password are required"})
			return
		}

		var roles []models.Role
		if len(req.RoleIDs) > 0 {
			if err := db.Where("id IN ?", req.RoleIDs).Find(&roles).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
				return
			}
			if len(roles) != len(req.RoleIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role id"})
				return
			}
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			log.Printf("password hashing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
			return
		}

		admin := models.Administrator{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Roles:        roles,
		}
		if err := db.Create(&admin).Error; err != nil {
			// The unique index on email decides duplicates; a pre-check
			// would race with concurrent registrations.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				c.JSON(http.StatusConflict, gin.H{"error": "Admin with this email already exists"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create admin"})
			return
		}
		c.JSON(http.StatusCreated, admin)
	}
}

func GetAllAdmins(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admins []models.Administrator
		if err := db.Preload("Roles").Find(&admins).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admins"})
			return
		}
		c.JSON(http.StatusOK, admins)
	}
}

// UpdateAdminRoles replaces an administrator's role set.
func UpdateAdminRoles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateRolesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "role_ids is required"})
			return
		}

		var admin models.Administrator
		if err := db.First(&admin, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin"})
			return
		}

		var roles []models.Role
		if len(req.RoleIDs) > 0 {
			if err := db.Where("id IN ?", req.RoleIDs).Find(&roles).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
				return
			}
			if len(roles) != len(req.RoleIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role id"})
				return
			}
		}
		if err := db.Model(&admin).Association("Roles").Replace(roles); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update roles"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Roles updated successfully"})
	}
}

func DeleteAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var admin models.Administrator
		if err := db.First(&admin, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Admin not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch admin"})
			return
		}

		if callerID, ok := middleware.AdminID(c); ok && callerID == admin.ID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&admin).Association("Roles").Clear(); err != nil {
				return err
			}
			return tx.Delete(&admin).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete admin"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Admin deleted successfully"})
	}
}

func GetAllRoles(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var roles []models.Role
		if err := db.Find(&roles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch roles"})
			return
		}
		c.JSON(http.StatusOK, roles)
	}
}

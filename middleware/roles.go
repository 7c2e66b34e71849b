package middleware

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stylehub/backoffice-api/policy"
	"gorm.io/gorm"
)

// RequireRoles aborts with 403 unless the authenticated administrator
// passes the policy check for the given roles. Must run after
// ValidateToken.
func RequireRoles(db *gorm.DB, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, ok := AdminID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		if err := policy.Evaluate(db, adminID, roles...); err != nil {
			if errors.Is(err, policy.ErrForbidden) || errors.Is(err, policy.ErrUnknownAdmin) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			} else {
				log.Printf("policy evaluation failed for admin %d: %v", adminID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin admits super admins only.
func RequireSuperAdmin(db *gorm.DB) gin.HandlerFunc {
	return RequireRoles(db)
}

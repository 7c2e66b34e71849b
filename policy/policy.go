package policy

import (
	"errors"

	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
)

var (
	ErrUnknownAdmin = errors.New("administrator not found")
	ErrForbidden    = errors.New("insufficient role")
)

// Evaluate decides whether an administrator may perform an action
// guarded by the given role set. Super admins bypass the role check;
// everyone else is granted access iff their assigned roles intersect
// the required set. Roles are resolved from the database rather than
// token claims so revocations take effect immediately. An empty
// required set admits super admins only.
func Evaluate(db *gorm.DB, adminID uint, required ...string) error {
	var admin models.Administrator
	if err := db.Preload("Roles").First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownAdmin
		}
		return err
	}
	if admin.IsSuperAdmin {
		return nil
	}
	for _, role := range admin.Roles {
		for _, want := range required {
			if role.Name == want {
				return nil
			}
		}
	}
	return ErrForbidden
}

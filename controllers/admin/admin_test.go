package adminController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Administrator{}, &models.Role{}))
	return db
}

// adminRouter fakes an authenticated caller by injecting the admin id
// the way the token middleware would.
func adminRouter(db *gorm.DB, callerID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("admin_id", callerID)
		c.Next()
	})
	r.POST("/admin/add-admin", AddAdmin(db))
	r.GET("/admin/all", GetAllAdmins(db))
	r.PUT("/admin/:id/roles", UpdateAdminRoles(db))
	r.DELETE("/admin/:id", DeleteAdmin(db))
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedRole(t *testing.T, db *gorm.DB, name string) models.Role {
	t.Helper()
	role := models.Role{Name: name}
	require.NoError(t, db.Where("name = ?", name).FirstOrCreate(&role).Error)
	return role
}

func TestAddAdminAssignsRolesAndHidesPassword(t *testing.T) {
	db := openTestDB(t)
	role := seedRole(t, db, models.RoleOrderManager)
	r := adminRouter(db, 1)

	w := doJSON(r, http.MethodPost, "/admin/add-admin", gin.H{
		"name":     "New Admin",
		"email":    "new@example.com",
		"password": "longenough",
		"role_ids": []uint{role.ID},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "longenough")
	assert.NotContains(t, w.Body.String(), "password_hash")

	var admin models.Administrator
	require.NoError(t, db.Preload("Roles").First(&admin, "email = ?", "new@example.com").Error)
	require.Len(t, admin.Roles, 1)
	assert.Equal(t, models.RoleOrderManager, admin.Roles[0].Name)
	assert.NotEqual(t, "longenough", admin.PasswordHash)

	// Duplicate email is a conflict.
	w = doJSON(r, http.MethodPost, "/admin/add-admin", gin.H{
		"name":     "Dup",
		"email":    "new@example.com",
		"password": "longenough",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Unknown role id is a client error.
	w = doJSON(r, http.MethodPost, "/admin/add-admin", gin.H{
		"name":     "Other",
		"email":    "other@example.com",
		"password": "longenough",
		"role_ids": []uint{999},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateAdminRolesReplacesSet(t *testing.T) {
	db := openTestDB(t)
	orderRole := seedRole(t, db, models.RoleOrderManager)
	invRole := seedRole(t, db, models.RoleInventoryManager)

	admin := models.Administrator{
		Name: "A", Email: "a@example.com", PasswordHash: "x",
		Roles: []models.Role{orderRole},
	}
	require.NoError(t, db.Create(&admin).Error)

	r := adminRouter(db, 1)
	w := doJSON(r, http.MethodPut, fmt.Sprintf("/admin/%d/roles", admin.ID), gin.H{
		"role_ids": []uint{invRole.ID},
	})
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Administrator
	require.NoError(t, db.Preload("Roles").First(&reloaded, admin.ID).Error)
	require.Len(t, reloaded.Roles, 1)
	assert.Equal(t, models.RoleInventoryManager, reloaded.Roles[0].Name)
}

func TestDeleteAdminRefusesSelf(t *testing.T) {
	db := openTestDB(t)
	admin := models.Administrator{Name: "A", Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&admin).Error)
	other := models.Administrator{Name: "B", Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&other).Error)

	r := adminRouter(db, admin.ID)

	w := doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/%d", admin.ID), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodDelete, fmt.Sprintf("/admin/%d", other.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Administrator{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

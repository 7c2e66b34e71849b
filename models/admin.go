package models

import "time"

// Role names seeded at startup. Route guards reference these.
const (
	RoleSuperAdmin       = "Super Admin"
	RoleOrderManager     = "Order Manager"
	RoleInventoryManager = "Inventory Manager"
	RoleProductManager   = "Product Manager"
)

type Administrator struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	Roles        []Role    `gorm:"many2many:admin_roles" json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
}

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null" json:"name"`
}

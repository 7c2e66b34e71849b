package models

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	BaseCost    float64 `json:"base_cost"`
	Size        string  `json:"size"`
	Color       string  `json:"color"`
	Material    string  `json:"material"`
	// StockQuantity is the aggregate of record. Warehouse rows, when
	// present, must sum to it; only inventory.Deduct/Restock mutate both.
	StockQuantity int            `json:"stock_quantity"`
	Featured      bool           `json:"featured"`
	CategoryID    *uint          `json:"category_id"`
	Category      *Category      `json:"category,omitempty"`
	SubCategoryID *uint          `json:"subcategory_id"`
	SubCategory   *SubCategory   `json:"subcategory,omitempty"`
	Images        []ProductImage `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

type ProductImage struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"index" json:"product_id"`
	ImageURL  string    `gorm:"not null" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

package models

import "time"

type Promotion struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Description  string    `json:"description"`
	DiscountRate float64   `json:"discount_rate"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	Products     []Product `gorm:"many2many:product_promotions" json:"products,omitempty"`
}

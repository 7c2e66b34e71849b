package models

import "time"

type Invoice struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNumber string    `gorm:"unique;not null" json:"invoice_number"`
	OrderID       uint      `gorm:"index;not null" json:"order_id"`
	InvoiceDate   time.Time `json:"invoice_date"`
	TotalAmount   float64   `json:"total_amount"`
	FilePath      string    `json:"-"`
}

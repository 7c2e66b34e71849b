package models

import "time"

type OrderStatus string
type PaymentStatus string
type ReturnStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusRefunded   OrderStatus = "Refunded" // reachable only through the refund path

	PaymentStatusPending  PaymentStatus = "Pending"
	PaymentStatusPaid     PaymentStatus = "Paid"
	PaymentStatusUnpaid   PaymentStatus = "Unpaid"
	PaymentStatusRefunded PaymentStatus = "Refunded"

	ReturnStatusPending   ReturnStatus = "Pending"
	ReturnStatusApproved  ReturnStatus = "Approved"
	ReturnStatusRejected  ReturnStatus = "Rejected"
	ReturnStatusProcessed ReturnStatus = "Processed"
)

type Order struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID        uint          `gorm:"not null;index" json:"user_id"`
	OrderDate     time.Time     `json:"order_date"`
	Status        OrderStatus   `gorm:"type:VARCHAR(20);default:'Pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'Pending'" json:"payment_status"`
	TotalAmount   float64       `json:"total_amount"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem lines are written once at order time and never mutated.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `gorm:"index" json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"` // price snapshot at order time
}

type Return struct {
	ID                 uint         `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID            uint         `gorm:"not null;index" json:"order_id"`
	Reason             string       `json:"reason"`
	Status             ReturnStatus `gorm:"type:VARCHAR(20);default:'Pending'" json:"status"`
	ReturnDate         time.Time    `json:"return_date"`
	ReplacementOffered bool         `json:"replacement_offered"`
	RefundIssued       bool         `json:"refund_issued"`
}

type Payment struct {
	ID            uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       uint          `gorm:"uniqueIndex;not null" json:"order_id"`
	PaymentStatus PaymentStatus `gorm:"type:VARCHAR(20);default:'Pending'" json:"payment_status"`
	RefundAmount  float64       `json:"refund_amount"`
	RefundDate    *time.Time    `json:"refund_date"`
}

package models

import "time"

// Stock ledger change types.
const (
	ChangeOrderCreated     = "Order Created"
	ChangeReturn           = "Return"
	ChangeReplacementOrder = "Replacement Order"
	ChangeLowStockAlert    = "Low Stock Alert"
	ChangeManualAdjustment = "Manual Adjustment"
	ChangeInitialStock     = "Initial Stock"
)

// InventoryLog is an append-only audit trail of stock changes. Rows are
// never updated or deleted; only the turnover aggregation reads them.
type InventoryLog struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    uint      `gorm:"index;not null" json:"product_id"`
	WarehouseID  *uint     `json:"warehouse_id"`
	ChangeAmount int       `json:"change_amount"`
	ChangeType   string    `gorm:"not null" json:"change_type"`
	Timestamp    time.Time `json:"timestamp"`
}

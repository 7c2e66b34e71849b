package models

type Warehouse struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	Location string `json:"location"`
}

// WarehouseStock is the per-warehouse breakdown of a product's stock.
type WarehouseStock struct {
	ID          uint `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   uint `gorm:"index;uniqueIndex:idx_product_warehouse" json:"product_id"`
	WarehouseID uint `gorm:"uniqueIndex:idx_product_warehouse" json:"warehouse_id"`
	Quantity    int  `json:"quantity"`
}

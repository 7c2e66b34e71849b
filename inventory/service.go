package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/stylehub/backoffice-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInvalidQuantity   = errors.New("quantity must be a positive integer")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Config struct {
	LowStockThreshold int
}

// Service is the single choke point for stock mutations. Every
// deduction and restock goes through it inside the caller's
// transaction, so the aggregate quantity on Product and the
// per-warehouse rows can never drift apart.
type Service struct {
	cfg Config
	hub *Hub
}

func New(cfg Config) *Service {
	return &Service{cfg: cfg, hub: newHub()}
}

func (s *Service) Threshold() int { return s.cfg.LowStockThreshold }

// Alert records a warehouse that fell below the configured threshold.
// Alerts are audit entries, not notifications; the websocket feed is a
// best-effort side channel.
type Alert struct {
	ProductID     uint   `json:"product_id"`
	ProductName   string `json:"product_name"`
	WarehouseID   uint   `json:"warehouse_id"`
	StockQuantity int    `json:"stock_quantity"`
}

// lockForUpdate serializes concurrent read-then-write stock checks on
// postgres. SQLite has a single writer and rejects FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// Deduct removes qty units of a product, draining warehouse rows
// largest-first, appends ledger entries and runs the low-stock scan.
// Must be called inside a transaction.
func (s *Service) Deduct(tx *gorm.DB, productID uint, qty int, changeType string) (*models.Product, []Alert, error) {
	if qty <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	var product models.Product
	if err := lockForUpdate(tx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, nil, err
	}
	if product.StockQuantity < qty {
		return nil, nil, fmt.Errorf("%w for product %d", ErrInsufficientStock, productID)
	}

	var stocks []models.WarehouseStock
	if err := lockForUpdate(tx).
		Where("product_id = ?", productID).
		Order("quantity DESC").
		Find(&stocks).Error; err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	remaining := qty
	for i := range stocks {
		if remaining == 0 {
			break
		}
		take := stocks[i].Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		stocks[i].Quantity -= take
		if err := tx.Save(&stocks[i]).Error; err != nil {
			return nil, nil, err
		}
		wid := stocks[i].WarehouseID
		if err := tx.Create(&models.InventoryLog{
			ProductID:    productID,
			WarehouseID:  &wid,
			ChangeAmount: -take,
			ChangeType:   changeType,
			Timestamp:    now,
		}).Error; err != nil {
			return nil, nil, err
		}
		remaining -= take
	}

	if len(stocks) == 0 {
		// No warehouse breakdown tracked for this product; log the
		// aggregate change unassigned.
		if err := tx.Create(&models.InventoryLog{
			ProductID:    productID,
			ChangeAmount: -qty,
			ChangeType:   changeType,
			Timestamp:    now,
		}).Error; err != nil {
			return nil, nil, err
		}
	} else if remaining > 0 {
		return nil, nil, fmt.Errorf("warehouse stock for product %d does not cover aggregate", productID)
	}

	product.StockQuantity -= qty
	if err := tx.Save(&product).Error; err != nil {
		return nil, nil, err
	}
	if err := verifyAggregate(tx, &product); err != nil {
		return nil, nil, err
	}

	alerts, err := s.scanLowStock(tx, &product)
	if err != nil {
		return nil, nil, err
	}
	return &product, alerts, nil
}

// Restock adds qty units back, topping up the largest warehouse row.
// Must be called inside a transaction.
func (s *Service) Restock(tx *gorm.DB, productID uint, qty int, changeType string) (*models.Product, error) {
	if qty <= 0 {
		return nil, ErrInvalidQuantity
	}

	var product models.Product
	if err := lockForUpdate(tx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, err
	}

	now := time.Now().UTC()
	entry := models.InventoryLog{
		ProductID:    productID,
		ChangeAmount: qty,
		ChangeType:   changeType,
		Timestamp:    now,
	}

	var stock models.WarehouseStock
	err := lockForUpdate(tx).
		Where("product_id = ?", productID).
		Order("quantity DESC").
		First(&stock).Error
	switch {
	case err == nil:
		stock.Quantity += qty
		if err := tx.Save(&stock).Error; err != nil {
			return nil, err
		}
		entry.WarehouseID = &stock.WarehouseID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// aggregate-only product, nothing to top up
	default:
		return nil, err
	}

	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	product.StockQuantity += qty
	if err := tx.Save(&product).Error; err != nil {
		return nil, err
	}
	if err := verifyAggregate(tx, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AdjustTo brings a product's stock to the target level, deducting or
// restocking the difference. The delta is computed from the locked row,
// not from whatever the caller read earlier, so two concurrent
// adjustments to the same target cannot double-apply.
// Must be called inside a transaction.
func (s *Service) AdjustTo(tx *gorm.DB, productID uint, target int, changeType string) (*models.Product, []Alert, error) {
	if target < 0 {
		return nil, nil, ErrInvalidQuantity
	}

	var product models.Product
	if err := lockForUpdate(tx).First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
		}
		return nil, nil, err
	}

	delta := target - product.StockQuantity
	switch {
	case delta > 0:
		updated, err := s.Restock(tx, productID, delta, changeType)
		return updated, nil, err
	case delta < 0:
		return s.Deduct(tx, productID, -delta, changeType)
	default:
		return &product, nil, nil
	}
}

// verifyAggregate enforces the single-source-of-truth invariant: when a
// product has warehouse rows, their sum must equal the aggregate. A
// mismatch fails the enclosing transaction.
func verifyAggregate(tx *gorm.DB, product *models.Product) error {
	var n int64
	if err := tx.Model(&models.WarehouseStock{}).
		Where("product_id = ?", product.ID).
		Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	var sum int
	if err := tx.Model(&models.WarehouseStock{}).
		Where("product_id = ?", product.ID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		return err
	}
	if sum != product.StockQuantity {
		return fmt.Errorf("stock invariant violated for product %d: warehouses sum to %d, aggregate is %d",
			product.ID, sum, product.StockQuantity)
	}
	return nil
}

// scanLowStock appends a ledger alert for every warehouse of the
// product below the threshold and returns the alert records.
func (s *Service) scanLowStock(tx *gorm.DB, product *models.Product) ([]Alert, error) {
	var stocks []models.WarehouseStock
	if err := tx.Where("product_id = ?", product.ID).Find(&stocks).Error; err != nil {
		return nil, err
	}

	var alerts []Alert
	now := time.Now().UTC()
	for _, stock := range stocks {
		if stock.Quantity >= s.cfg.LowStockThreshold {
			continue
		}
		wid := stock.WarehouseID
		if err := tx.Create(&models.InventoryLog{
			ProductID:    product.ID,
			WarehouseID:  &wid,
			ChangeAmount: stock.Quantity,
			ChangeType:   models.ChangeLowStockAlert,
			Timestamp:    now,
		}).Error; err != nil {
			return nil, err
		}
		alerts = append(alerts, Alert{
			ProductID:     product.ID,
			ProductName:   product.Name,
			WarehouseID:   stock.WarehouseID,
			StockQuantity: stock.Quantity,
		})
	}
	return alerts, nil
}

package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stylehub/backoffice-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.Warehouse{},
		&models.WarehouseStock{},
		&models.InventoryLog{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, total int, warehouseQty ...int) *models.Product {
	t.Helper()
	product := models.Product{Name: "Denim Jacket", Price: 49.99, StockQuantity: total}
	require.NoError(t, db.Create(&product).Error)
	for _, qty := range warehouseQty {
		wh := models.Warehouse{Name: "WH", Location: "somewhere"}
		require.NoError(t, db.Create(&wh).Error)
		require.NoError(t, db.Create(&models.WarehouseStock{
			ProductID:   product.ID,
			WarehouseID: wh.ID,
			Quantity:    qty,
		}).Error)
	}
	return &product
}

func TestDeductDrainsLargestWarehouseFirst(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 5})
	product := seedProduct(t, db, 30, 20, 10)

	var updated *models.Product
	var alerts []Alert
	err := db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		updated, alerts, txErr = svc.Deduct(tx, product.ID, 25, models.ChangeOrderCreated)
		return txErr
	})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.StockQuantity)

	var stocks []models.WarehouseStock
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("quantity DESC").Find(&stocks).Error)
	require.Len(t, stocks, 2)
	assert.Equal(t, 5, stocks[0].Quantity)
	assert.Equal(t, 0, stocks[1].Quantity)

	var logs []models.InventoryLog
	require.NoError(t, db.Where("change_type = ?", models.ChangeOrderCreated).Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, -20, logs[0].ChangeAmount)
	assert.Equal(t, -5, logs[1].ChangeAmount)

	// The drained warehouse dropped to zero, below the threshold of 5.
	require.Len(t, alerts, 1)
	assert.Equal(t, 0, alerts[0].StockQuantity)
}

func TestDeductInsufficientStock(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 5})
	product := seedProduct(t, db, 3, 3)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.Deduct(tx, product.ID, 4, models.ChangeOrderCreated)
		return txErr
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 3, reloaded.StockQuantity)

	var logCount int64
	require.NoError(t, db.Model(&models.InventoryLog{}).Count(&logCount).Error)
	assert.Zero(t, logCount)
}

func TestDeductUnknownProduct(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 5})

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.Deduct(tx, 999, 1, models.ChangeOrderCreated)
		return txErr
	})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeductRejectsNonPositiveQuantity(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 5})
	product := seedProduct(t, db, 10, 10)

	for _, qty := range []int{0, -3} {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, _, txErr := svc.Deduct(tx, product.ID, qty, models.ChangeOrderCreated)
			return txErr
		})
		require.ErrorIs(t, err, ErrInvalidQuantity)
	}
}

func TestDeductAggregateOnlyProduct(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 5})
	product := seedProduct(t, db, 10) // no warehouse rows

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.Deduct(tx, product.ID, 4, models.ChangeOrderCreated)
		return txErr
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 6, reloaded.StockQuantity)

	var entry models.InventoryLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, -4, entry.ChangeAmount)
	assert.Nil(t, entry.WarehouseID)
}

func TestRestockTopsUpLargestWarehouse(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 5})
	product := seedProduct(t, db, 15, 10, 5)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, txErr := svc.Restock(tx, product.ID, 7, models.ChangeReturn)
		return txErr
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 22, reloaded.StockQuantity)

	var stocks []models.WarehouseStock
	require.NoError(t, db.Where("product_id = ?", product.ID).Order("quantity DESC").Find(&stocks).Error)
	require.Len(t, stocks, 2)
	assert.Equal(t, 17, stocks[0].Quantity)
	assert.Equal(t, 5, stocks[1].Quantity)
}

func TestAdjustToUsesCurrentRowForDelta(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 2})
	product := seedProduct(t, db, 10, 10)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.AdjustTo(tx, product.ID, 4, models.ChangeManualAdjustment)
		return txErr
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 4, reloaded.StockQuantity)

	var logs []models.InventoryLog
	require.NoError(t, db.Where("change_type = ?", models.ChangeManualAdjustment).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, -6, logs[0].ChangeAmount)

	// Replaying the same target is a no-op: the delta comes from the
	// row as it stands, not from a stale read.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.AdjustTo(tx, product.ID, 4, models.ChangeManualAdjustment)
		return txErr
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 4, reloaded.StockQuantity)
	require.NoError(t, db.Where("change_type = ?", models.ChangeManualAdjustment).Find(&logs).Error)
	assert.Len(t, logs, 1)

	// Raising the level restocks the difference.
	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.AdjustTo(tx, product.ID, 9, models.ChangeManualAdjustment)
		return txErr
	})
	require.NoError(t, err)

	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 9, reloaded.StockQuantity)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.AdjustTo(tx, product.ID, -1, models.ChangeManualAdjustment)
		return txErr
	})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	err = db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.AdjustTo(tx, 999, 5, models.ChangeManualAdjustment)
		return txErr
	})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestAggregateInvariantFailsTransactionOnDrift(t *testing.T) {
	db := openTestDB(t)
	svc := New(Config{LowStockThreshold: 5})
	product := seedProduct(t, db, 10, 10)

	// Simulate drift written past the service.
	require.NoError(t, db.Model(&models.WarehouseStock{}).
		Where("product_id = ?", product.ID).
		Update("quantity", 8).Error)

	err := db.Transaction(func(tx *gorm.DB) error {
		_, _, txErr := svc.Deduct(tx, product.ID, 2, models.ChangeOrderCreated)
		return txErr
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invariant")

	// Rolled back: aggregate untouched.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.StockQuantity)
}

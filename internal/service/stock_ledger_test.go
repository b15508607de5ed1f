package service

import (
	"testing"

	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestLedger(t *testing.T) (*StockLedger, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	ledger := NewStockLedger(
		repository.NewProductRepository(db),
		repository.NewInventoryLogRepository(db),
	)
	return ledger, db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, stock int) *model.Product {
	t.Helper()
	product := &model.Product{Name: name, Description: "test product", Price: 10, StockQuantity: stock}
	require.NoError(t, db.Create(product).Error)
	return product
}

func countLogs(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&model.InventoryLog{}).Count(&count).Error)
	return count
}

func TestSetStockAddition(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 10)

	change, err := ledger.SetStock(product.ID, 15)
	require.NoError(t, err)

	assert.Equal(t, model.ChangeTypeAddition, change.ChangeType)
	assert.Equal(t, 5, change.QuantityChange)
	assert.Equal(t, 15, change.Product.StockQuantity)

	var entry model.InventoryLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, product.ID, entry.ProductID)
	assert.Equal(t, model.ChangeTypeAddition, entry.ChangeType)
	assert.Equal(t, 5, entry.QuantityChange)
	assert.Equal(t, "Manual addition of stock", entry.Reason)
}

func TestSetStockDeduction(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 10)

	change, err := ledger.SetStock(product.ID, 6)
	require.NoError(t, err)

	assert.Equal(t, model.ChangeTypeDeduction, change.ChangeType)
	assert.Equal(t, -4, change.QuantityChange)

	var entry model.InventoryLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, -4, entry.QuantityChange)
	assert.Equal(t, "Manual deduction of stock", entry.Reason)
}

func TestSetStockNoChangeWritesNoLog(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 10)

	change, err := ledger.SetStock(product.ID, 10)
	require.NoError(t, err)

	assert.Equal(t, model.ChangeTypeNoChange, change.ChangeType)
	assert.Equal(t, 0, change.QuantityChange)
	assert.EqualValues(t, 0, countLogs(t, db))
}

func TestSetStockUnknownProduct(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.SetStock(999, 5)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeductForConfirmation(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 10)

	err := ledger.DeductForConfirmation([]model.OrderItem{
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)

	var updated model.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.Equal(t, 7, updated.StockQuantity)

	var entries []model.InventoryLog
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, model.ChangeTypeDeduction, entries[0].ChangeType)
	assert.Equal(t, -3, entries[0].QuantityChange)
	assert.Equal(t, ReasonOrderConfirmed, entries[0].Reason)
}

func TestDeductForConfirmationClampsAtZero(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 2)

	err := ledger.DeductForConfirmation([]model.OrderItem{
		{ProductID: product.ID, Quantity: 5},
	})
	require.NoError(t, err)

	var updated model.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.Equal(t, 0, updated.StockQuantity)

	var entry model.InventoryLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, -2, entry.QuantityChange, "logs the actual change, not the requested one")
}

func TestDeductForConfirmationSkipsMissingProduct(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 10)

	err := ledger.DeductForConfirmation([]model.OrderItem{
		{ProductID: 999, Quantity: 2},
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)

	var updated model.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.Equal(t, 7, updated.StockQuantity)
	assert.EqualValues(t, 1, countLogs(t, db))
}

func TestRestoreForCancellation(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 7)

	err := ledger.RestoreForCancellation([]model.OrderItem{
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)

	var updated model.Product
	require.NoError(t, db.First(&updated, product.ID).Error)
	assert.Equal(t, 10, updated.StockQuantity)

	var entry model.InventoryLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, model.ChangeTypeRestore, entry.ChangeType)
	assert.Equal(t, 3, entry.QuantityChange)
	assert.Equal(t, ReasonOrderCancelled, entry.Reason)
}

func TestRecordInitialStock(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 12)

	require.NoError(t, ledger.RecordInitialStock(product))

	var entry model.InventoryLog
	require.NoError(t, db.First(&entry).Error)
	assert.Equal(t, model.ChangeTypeAddition, entry.ChangeType)
	assert.Equal(t, 12, entry.QuantityChange)
	assert.Equal(t, ReasonInitialStock, entry.Reason)
}

func TestRecordInitialStockZeroWritesNoLog(t *testing.T) {
	ledger, db := newTestLedger(t)
	product := seedProduct(t, db, "Widget", 0)

	require.NoError(t, ledger.RecordInitialStock(product))
	assert.EqualValues(t, 0, countLogs(t, db))
}

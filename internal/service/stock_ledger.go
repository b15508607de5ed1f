package service

import (
	"errors"
	"fmt"

	"github.com/patriciaayrah/order-management-system/internal/model"
	"github.com/patriciaayrah/order-management-system/internal/repository"
	"github.com/patriciaayrah/order-management-system/pkg/logger"
	"github.com/patriciaayrah/order-management-system/prometheus"
	"go.uber.org/zap"
)

// Ledger reason strings. The order reasons are fixed wire values consumed by
// the dashboard, don't reword them.
const (
	ReasonOrderConfirmed = "Order confirmed: stock deducted."
	ReasonOrderCancelled = "Order cancelled: stock restored."
	ReasonInitialStock   = "Product initial stock"
)

// StockChange reports the outcome of a single ledger mutation.
type StockChange struct {
	Product        *model.Product `json:"product"`
	ChangeType     string         `json:"change_type"`
	QuantityChange int            `json:"quantity_change"`
}

// StockLedger owns every mutation of product stock and its audit trail. One
// log entry is appended per actual change; zero-delta edits write nothing.
type StockLedger struct {
	products repository.ProductRepository
	logs     repository.InventoryLogRepository

	// SkipMissingProducts keeps batch order mutations going when an item
	// references a product that no longer exists. A missing product must
	// not abort the rest of the order.
	SkipMissingProducts bool
}

// NewStockLedger returns a ledger over the given stores.
func NewStockLedger(products repository.ProductRepository, logs repository.InventoryLogRepository) *StockLedger {
	return &StockLedger{
		products:            products,
		logs:                logs,
		SkipMissingProducts: true,
	}
}

// SetStock sets a product's stock to an absolute quantity. The caller is
// authoritative here: no clamping, an explicit value is taken as-is.
func (l *StockLedger) SetStock(productID uint, newQuantity int) (*StockChange, error) {
	log := logger.GetLogger()

	product, err := l.products.Find(productID)
	if err != nil {
		return nil, err
	}

	oldStock := product.StockQuantity
	product.StockQuantity = newQuantity
	if err := l.products.Update(product); err != nil {
		return nil, operationFailed("stock update", err)
	}

	difference := newQuantity - oldStock
	changeType := changeTypeFor(difference)

	// Only log if stock actually changed
	if difference != 0 {
		entry := &model.InventoryLog{
			ProductID:      product.ID,
			ChangeType:     changeType,
			QuantityChange: difference,
			Reason:         fmt.Sprintf("Manual %s of stock", changeType),
		}
		if err := l.logs.Create(entry); err != nil {
			return nil, operationFailed("inventory log insert", err)
		}
		prometheus.RecordInventoryChange(changeType)
	}
	prometheus.UpdateProductStock(product.ID, product.Name, product.StockQuantity)

	log.Info("Stock set",
		zap.Uint("product_id", product.ID),
		zap.Int("old_stock", oldStock),
		zap.Int("new_stock", newQuantity),
		zap.String("change_type", changeType))

	return &StockChange{
		Product:        product,
		ChangeType:     changeType,
		QuantityChange: difference,
	}, nil
}

// DeductForConfirmation deducts each item's quantity from its product's
// stock, floored at zero, and logs one deduction per actual change.
func (l *StockLedger) DeductForConfirmation(items []model.OrderItem) error {
	for _, item := range items {
		product, err := l.resolve(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			continue
		}

		newStock := product.StockQuantity - item.Quantity
		if newStock < 0 {
			// prevent negative stock on oversold orders
			newStock = 0
		}
		difference := newStock - product.StockQuantity
		if difference == 0 {
			continue
		}

		product.StockQuantity = newStock
		if err := l.products.Update(product); err != nil {
			return operationFailed("stock deduction", err)
		}
		if err := l.appendEntry(product, model.ChangeTypeDeduction, difference, ReasonOrderConfirmed); err != nil {
			return err
		}
	}
	return nil
}

// RestoreForCancellation adds each item's quantity back to its product's
// stock and logs one restore per item.
func (l *StockLedger) RestoreForCancellation(items []model.OrderItem) error {
	for _, item := range items {
		product, err := l.resolve(item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			continue
		}

		product.StockQuantity += item.Quantity
		if err := l.products.Update(product); err != nil {
			return operationFailed("stock restore", err)
		}
		if err := l.appendEntry(product, model.ChangeTypeRestore, item.Quantity, ReasonOrderCancelled); err != nil {
			return err
		}
	}
	return nil
}

// RecordInitialStock logs the opening quantity of a freshly created product.
// Products created with zero stock get no entry.
func (l *StockLedger) RecordInitialStock(product *model.Product) error {
	if product.StockQuantity == 0 {
		return nil
	}
	return l.appendEntry(product, model.ChangeTypeAddition, product.StockQuantity, ReasonInitialStock)
}

// resolve looks up a product for a batch mutation. A nil product with a nil
// error means the item should be skipped.
func (l *StockLedger) resolve(productID uint) (*model.Product, error) {
	product, err := l.products.Find(productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) && l.SkipMissingProducts {
			logger.GetLogger().Warn("Skipping missing product in stock batch",
				zap.Uint("product_id", productID))
			return nil, nil
		}
		return nil, err
	}
	return product, nil
}

func (l *StockLedger) appendEntry(product *model.Product, changeType string, quantityChange int, reason string) error {
	entry := &model.InventoryLog{
		ProductID:      product.ID,
		ChangeType:     changeType,
		QuantityChange: quantityChange,
		Reason:         reason,
	}
	if err := l.logs.Create(entry); err != nil {
		return operationFailed("inventory log insert", err)
	}
	prometheus.RecordInventoryChange(changeType)
	prometheus.UpdateProductStock(product.ID, product.Name, product.StockQuantity)
	return nil
}

// changeTypeFor derives the change type from the sign of the actual stock
// difference.
func changeTypeFor(difference int) string {
	switch {
	case difference > 0:
		return model.ChangeTypeAddition
	case difference < 0:
		return model.ChangeTypeDeduction
	default:
		return model.ChangeTypeNoChange
	}
}

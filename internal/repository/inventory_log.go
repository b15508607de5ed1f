package repository

import (
	"github.com/patriciaayrah/order-management-system/internal/model"
	"gorm.io/gorm"
)

// InventoryLogRepository appends and reads audit entries. Entries are never
// updated or deleted.
type InventoryLogRepository interface {
	Create(entry *model.InventoryLog) error
	List() ([]model.InventoryLog, error)
	ListByProduct(productID uint) ([]model.InventoryLog, error)
}

type inventoryLogRepository struct {
	db *gorm.DB
}

// NewInventoryLogRepository returns a gorm-backed InventoryLogRepository.
func NewInventoryLogRepository(db *gorm.DB) InventoryLogRepository {
	return &inventoryLogRepository{db: db}
}

func (r *inventoryLogRepository) Create(entry *model.InventoryLog) error {
	return r.db.Create(entry).Error
}

func (r *inventoryLogRepository) List() ([]model.InventoryLog, error) {
	var entries []model.InventoryLog
	if err := r.db.Preload("Product").Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByProduct returns the product's entries newest first.
func (r *inventoryLogRepository) ListByProduct(productID uint) ([]model.InventoryLog, error) {
	var entries []model.InventoryLog
	if err := r.db.Preload("Product").
		Where("product_id = ?", productID).Order("created_at DESC, id DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

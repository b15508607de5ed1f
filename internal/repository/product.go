package repository

import (
	"errors"

	"github.com/patriciaayrah/order-management-system/internal/model"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced row does not exist.
var ErrNotFound = errors.New("record not found")

// ProductRepository is the narrow store surface the services depend on.
type ProductRepository interface {
	Find(id uint) (*model.Product, error)
	Create(product *model.Product) error
	Update(product *model.Product) error
	Delete(id uint) error
	List() ([]model.Product, error)
	Count() (int64, error)
	CountByName(name string, excludeID uint) (int64, error)
	ListStockBelow(threshold int) ([]model.Product, error)
	ListOutOfStock() ([]model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository returns a gorm-backed ProductRepository.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Find(id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepository) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepository) List() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByName counts products carrying the given name, excluding the row
// with excludeID (zero means exclude nothing). Used for uniqueness checks.
func (r *productRepository) CountByName(name string, excludeID uint) (int64, error) {
	var count int64
	query := r.db.Model(&model.Product{}).Where("name = ?", name)
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *productRepository) ListStockBelow(threshold int) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("stock_quantity < ?", threshold).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) ListOutOfStock() ([]model.Product, error) {
	var products []model.Product
	if err := r.db.Where("stock_quantity = ?", 0).Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

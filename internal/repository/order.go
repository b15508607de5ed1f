package repository

import (
	"github.com/patriciaayrah/order-management-system/internal/model"
	"gorm.io/gorm"
)

// OrderRepository stores order status rows. Every status transition is a new
// row, so there is no update operation here.
type OrderRepository interface {
	Create(order *model.Order) error
	List() ([]model.Order, error)
	FindByOrderNumber(orderNumber string) ([]model.Order, error)
	LatestID() (uint, error)
	CountByStatus(status string) (int64, error)
	Count() (int64, error)
}

// OrderItemRepository stores line items for order rows.
type OrderItemRepository interface {
	BulkInsert(items []model.OrderItem) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository returns a gorm-backed OrderRepository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(order *model.Order) error {
	return r.db.Create(order).Error
}

func (r *orderRepository) List() ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Preload("Items").Preload("Items.Product").Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindByOrderNumber(orderNumber string) ([]model.Order, error) {
	var orders []model.Order
	if err := r.db.Preload("Items").Preload("Items.Product").
		Where("order_number = ?", orderNumber).Order("id").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// LatestID returns the id of the most recently created order row, or zero
// when no orders exist. Feeds order number generation.
func (r *orderRepository) LatestID() (uint, error) {
	var order model.Order
	err := r.db.Order("id DESC").Select("id").First(&order).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return order.ID, nil
}

func (r *orderRepository) CountByStatus(status string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *orderRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&model.Order{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository returns a gorm-backed OrderItemRepository.
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

// BulkInsert writes all rows in one statement.
func (r *orderItemRepository) BulkInsert(items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

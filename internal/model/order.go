package model

import (
	"time"
)

// Order statuses. All are terminal: a transition is represented by inserting
// a new row with the same order number, never by mutating an existing row.
const (
	OrderStatusCreated   = "created"
	OrderStatusConfirmed = "confirmed"
	OrderStatusCancelled = "cancelled"
)

// Order is one stored status row of a logical order. Rows sharing an
// OrderNumber form the status history of that order, so the column is
// indexed but deliberately not unique.
type Order struct {
	ID          uint        `json:"id" gorm:"primarykey"`
	OrderNumber string      `json:"order_number" gorm:"type:varchar(100);index;not null"`
	Status      string      `json:"status" gorm:"type:varchar(20);not null"`
	TotalAmount float64     `json:"total_amount" gorm:"type:decimal(10,2);default:0"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderItem `json:"order_item,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is a line item of an order row. UnitPrice is snapshotted at
// order time and does not track later product price changes.
type OrderItem struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	OrderID   uint      `json:"order_id" gorm:"index;not null"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	Quantity  int       `json:"quantity" gorm:"default:1"`
	UnitPrice float64   `json:"unit_price" gorm:"type:decimal(10,2);not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Product   *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

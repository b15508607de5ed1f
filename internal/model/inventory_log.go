package model

import (
	"time"
)

// Inventory change types. Derived from the sign of the actual stock
// difference; restore is used in place of addition when stock comes back
// from a cancelled order.
const (
	ChangeTypeAddition  = "addition"
	ChangeTypeDeduction = "deduction"
	ChangeTypeRestore   = "restore"
	ChangeTypeNoChange  = "no_change"
)

// InventoryLog is one append-only audit entry for an actual stock change.
// QuantityChange is signed: positive for additions and restores, negative
// for deductions. Zero-delta edits write no entry.
type InventoryLog struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	ProductID      uint      `json:"product_id" gorm:"index;not null"`
	ChangeType     string    `json:"change_type" gorm:"type:varchar(20);not null"`
	QuantityChange int       `json:"quantity_change" gorm:"not null"`
	Reason         string    `json:"reason" gorm:"type:varchar(255)"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Product        *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

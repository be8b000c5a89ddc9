package models

import (
	"time"
)

type Order struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	OrderNumber  string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"order_number"`
	TableID      uint        `gorm:"not null;index" json:"table_id"`
	Table        Table       `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	CustomerName *string     `gorm:"type:varchar(100)" json:"customer_name,omitempty"`
	Status       OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	TotalAmount  float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	CreatedAt    time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updated_at"`
	OrderItems   []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
}

// TransitionTo moves the order to target if the status machine allows it,
// otherwise returns *InvalidTransitionError and leaves the order untouched.
func (o *Order) TransitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return &InvalidTransitionError{Current: o.Status, Requested: target}
	}
	o.Status = target
	return nil
}

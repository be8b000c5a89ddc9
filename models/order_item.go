package models

import (
	"time"
)

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order Order `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MenuID uint `gorm:"not null" json:"menu_id"`
	Menu   Menu `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	// Quantity is always >= 1; zero-quantity lines are rejected at creation.
	Quantity int `gorm:"not null" json:"quantity"`
	// Price is the menu price captured at order time. Historical orders stay
	// reprice-stable even if the menu price changes later.
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	Notes        string    `gorm:"type:text" json:"notes"`
	CustomerName string    `gorm:"type:varchar(100)" json:"customer_name"`
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// Subtotal is quantity times the captured unit price.
func (oi *OrderItem) Subtotal() float64 {
	return float64(oi.Quantity) * oi.Price
}

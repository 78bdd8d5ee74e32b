package models

// OrderDetail is one line item of an order.
type OrderDetail struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	OrderID    uint     `gorm:"not null;index" json:"order_id"`
	SandwichID uint     `gorm:"not null;index" json:"sandwich_id"`
	Sandwich   Sandwich `gorm:"foreignKey:SandwichID;references:ID" json:"-"`
	Amount     int      `gorm:"not null" json:"amount"`
}

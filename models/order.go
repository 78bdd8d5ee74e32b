package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	TrackingNumber  string          `gorm:"type:varchar(32);not null;uniqueIndex:uq_orders_tracking" json:"tracking_number"`
	CustomerName    string          `gorm:"type:varchar(100)" json:"customer_name"`
	CustomerEmail   string          `gorm:"type:varchar(120)" json:"customer_email,omitempty"`
	CustomerPhone   string          `gorm:"type:varchar(30)" json:"customer_phone,omitempty"`
	DeliveryAddress string          `gorm:"type:varchar(255)" json:"delivery_address,omitempty"`
	OrderType       OrderType       `gorm:"type:varchar(20);not null;default:'takeout'" json:"order_type"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;default:'placed'" json:"status"`
	OrderDate       time.Time       `gorm:"not null;index" json:"order_date"`
	Subtotal        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"subtotal"`
	Discount        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"discount"`
	Tax             decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"tax"`
	Total           decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PromoID         *uint           `gorm:"index" json:"promo_id"`
	OrderDetails    []OrderDetail   `gorm:"foreignKey:OrderID" json:"order_details,omitempty"`
}

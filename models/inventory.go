package models

import "github.com/shopspring/decimal"

// Resource is an ingredient with its quantity on hand.
type Resource struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	Item   string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"item"`
	Amount decimal.Decimal `gorm:"type:decimal(12,3);not null;default:0" json:"amount"`
}

// Recipe is the amount of one resource consumed per unit of a sandwich.
type Recipe struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	SandwichID uint            `gorm:"not null;index" json:"sandwich_id"`
	ResourceID uint            `gorm:"not null;index" json:"resource_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,3);not null" json:"amount"`
}

package models

import "github.com/shopspring/decimal"

type Sandwich struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	SandwichName string          `gorm:"type:varchar(100);uniqueIndex" json:"sandwich_name"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Tags         []Tag           `gorm:"-" json:"tags"`
}

// SandwichTag links a sandwich to a tag. The link set is reconciled
// explicitly by the services layer.
type SandwichTag struct {
	SandwichID uint `gorm:"primaryKey;autoIncrement:false"`
	TagID      uint `gorm:"primaryKey;autoIncrement:false;index"`
}

type Tag struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	DisplayName string `gorm:"type:varchar(100)" json:"display_name,omitempty"`
}

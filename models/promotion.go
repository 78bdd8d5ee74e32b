package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Promotion struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Code          string          `gorm:"type:varchar(40);not null;uniqueIndex:uq_promotions_code" json:"code"`
	Description   string          `gorm:"type:varchar(200)" json:"description,omitempty"`
	DiscountType  DiscountType    `gorm:"type:varchar(10);not null" json:"discount_type"`
	DiscountValue decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"discount_value"`
	ExpiresAt     *time.Time      `json:"expires_at"`
	IsActive      bool            `gorm:"not null" json:"is_active"`
}

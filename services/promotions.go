package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
)

var hundred = decimal.NewFromInt(100)

// Discount is the effect of a valid promotion.
type Discount struct {
	Type  models.DiscountType
	Value decimal.Decimal
}

// Apply returns the reduction for subtotal, rounded to cents and never more
// than subtotal. The zero Discount applies nothing.
func (d Discount) Apply(subtotal decimal.Decimal) decimal.Decimal {
	if !subtotal.IsPositive() {
		return decimal.Zero
	}

	var off decimal.Decimal
	switch d.Type {
	case models.DiscountPercent:
		off = subtotal.Mul(d.Value).Div(hundred)
	case models.DiscountAmount:
		off = d.Value
	default:
		return decimal.Zero
	}

	off = off.Round(2)
	if off.GreaterThan(subtotal) {
		return subtotal
	}
	return off
}

type PromotionEvaluator struct{}

func NewPromotionEvaluator() *PromotionEvaluator {
	return &PromotionEvaluator{}
}

// Evaluate loads the promotion and checks it against at.
func (e *PromotionEvaluator) Evaluate(ctx context.Context, tx *gorm.DB, promotionID uint, at time.Time) (Discount, error) {
	var promo models.Promotion
	if err := tx.WithContext(ctx).First(&promo, promotionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Discount{}, ErrPromotionInvalid
		}
		return Discount{}, err
	}
	if err := ValidatePromotion(promo, at); err != nil {
		return Discount{}, err
	}
	return Discount{Type: promo.DiscountType, Value: promo.DiscountValue}, nil
}

// ValidatePromotion reports ErrPromotionInvalid for inactive, expired or
// malformed promotions.
func ValidatePromotion(p models.Promotion, at time.Time) error {
	if !p.IsActive {
		return ErrPromotionInvalid
	}
	if p.ExpiresAt != nil && p.ExpiresAt.Before(at) {
		return ErrPromotionInvalid
	}
	if p.DiscountValue.IsNegative() {
		return ErrPromotionInvalid
	}
	switch p.DiscountType {
	case models.DiscountPercent:
		if p.DiscountValue.GreaterThan(hundred) {
			return ErrPromotionInvalid
		}
	case models.DiscountAmount:
	default:
		return ErrPromotionInvalid
	}
	return nil
}

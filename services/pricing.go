package services

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/utils"
)

// Totals are the derived money columns of an order.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// ComputeTotals applies the discount first and taxes what remains.
func ComputeTotals(subtotal decimal.Decimal, discount Discount, taxRate decimal.Decimal) Totals {
	off := discount.Apply(subtotal)

	taxable := subtotal.Sub(off)
	tax := decimal.Zero
	if taxable.IsPositive() {
		tax = taxable.Mul(taxRate).Round(2)
	}

	return Totals{
		Subtotal: subtotal,
		Discount: off,
		Tax:      tax,
		Total:    subtotal.Sub(off).Add(tax),
	}
}

type PricingEngine struct {
	TaxRate    decimal.Decimal
	Promotions *PromotionEvaluator
	Now        func() time.Time
}

func NewPricingEngine(taxRate decimal.Decimal, now func() time.Time) *PricingEngine {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &PricingEngine{
		TaxRate:    taxRate,
		Promotions: NewPromotionEvaluator(),
		Now:        now,
	}
}

// Recompute recalculates and stores the order's totals from its current line
// items and promotion. A missing order is a no-op and returns (nil, nil).
// Callers hold the order's OrderLocks entry.
func (p *PricingEngine) Recompute(ctx context.Context, tx *gorm.DB, orderID uint) (*models.Order, error) {
	db := tx.WithContext(ctx)

	var order models.Order
	if err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var lines []models.OrderDetail
	if err := db.Preload("Sandwich").Where("order_id = ?", orderID).Order("id ASC").Find(&lines).Error; err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Sandwich.Price.Mul(decimal.NewFromInt(int64(line.Amount))))
	}

	var discount Discount
	if order.PromoID != nil {
		d, err := p.Promotions.Evaluate(ctx, tx, *order.PromoID, p.Now())
		switch {
		case err == nil:
			discount = d
		case errors.Is(err, ErrPromotionInvalid):
			utils.InfoLogger.WithFields(logrus.Fields{
				"order_id": orderID,
				"promo_id": *order.PromoID,
			}).Debug("Promotion no longer valid, pricing without discount")
		default:
			return nil, err
		}
	}

	totals := ComputeTotals(subtotal, discount, p.TaxRate)

	if err := db.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
		"subtotal": totals.Subtotal,
		"discount": totals.Discount,
		"tax":      totals.Tax,
		"total":    totals.Total,
	}).Error; err != nil {
		return nil, err
	}

	order.Subtotal = totals.Subtotal
	order.Discount = totals.Discount
	order.Tax = totals.Tax
	order.Total = totals.Total
	return &order, nil
}

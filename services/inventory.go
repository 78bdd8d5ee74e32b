package services

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandwichshop/ordering-api/models"
)

// InventoryLedger reads and mutates ingredient stock. Every method works on
// the handle it is given so callers decide the transaction boundary.
type InventoryLedger struct{}

func NewInventoryLedger() *InventoryLedger {
	return &InventoryLedger{}
}

// Sufficient reports whether the resource holds at least required.
func (l *InventoryLedger) Sufficient(ctx context.Context, tx *gorm.DB, resourceID uint, required decimal.Decimal) (bool, error) {
	var res models.Resource
	if err := tx.WithContext(ctx).First(&res, resourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrResourceNotFound
		}
		return false, err
	}
	return res.Amount.GreaterThanOrEqual(required), nil
}

// Decrement removes amount from the resource with a single guarded UPDATE,
// so stock never goes below zero even when the caller's read is stale.
func (l *InventoryLedger) Decrement(ctx context.Context, tx *gorm.DB, resourceID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidQuantity
	}

	result := tx.WithContext(ctx).Model(&models.Resource{}).
		Where("id = ? AND amount >= ?", resourceID, amount).
		Update("amount", gorm.Expr("amount - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := tx.WithContext(ctx).Model(&models.Resource{}).Where("id = ?", resourceID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrResourceNotFound
	}
	return ErrInsufficientStock
}

// Restock adds amount back to the resource.
func (l *InventoryLedger) Restock(ctx context.Context, tx *gorm.DB, resourceID uint, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidQuantity
	}

	result := tx.WithContext(ctx).Model(&models.Resource{}).
		Where("id = ?", resourceID).
		Update("amount", gorm.Expr("amount + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// Lock loads the given resources FOR UPDATE in ascending id order. Missing
// ids are simply absent from the result.
func (l *InventoryLedger) Lock(ctx context.Context, tx *gorm.DB, resourceIDs []uint) ([]models.Resource, error) {
	ids := uniqueSorted(resourceIDs)
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []models.Resource
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// LowStock returns resources at or below threshold, lowest first.
func (l *InventoryLedger) LowStock(ctx context.Context, db *gorm.DB, threshold decimal.Decimal) ([]models.Resource, error) {
	var rows []models.Resource
	err := db.WithContext(ctx).
		Where("amount <= ?", threshold).
		Order("amount ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func uniqueSorted(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

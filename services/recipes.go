package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/models"
)

// Requirement is the amount of one resource consumed per sandwich.
type Requirement struct {
	ResourceID    uint
	AmountPerUnit decimal.Decimal
}

type RecipeCatalog struct{}

func NewRecipeCatalog() *RecipeCatalog {
	return &RecipeCatalog{}
}

// RequirementsFor returns the sandwich's recipe ordered by recipe id.
// A sandwich without recipe rows yields ErrNoRecipeDefined.
func (c *RecipeCatalog) RequirementsFor(ctx context.Context, tx *gorm.DB, sandwichID uint) ([]Requirement, error) {
	var recipes []models.Recipe
	if err := tx.WithContext(ctx).
		Where("sandwich_id = ?", sandwichID).
		Order("id ASC").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	if len(recipes) == 0 {
		return nil, ErrNoRecipeDefined
	}

	reqs := make([]Requirement, len(recipes))
	for i, r := range recipes {
		reqs[i] = Requirement{ResourceID: r.ResourceID, AmountPerUnit: r.Amount}
	}
	return reqs, nil
}

// need is the total amount of one resource a request consumes.
type need struct {
	ResourceID uint
	Amount     decimal.Decimal
}

// scale multiplies requirements by quantity, merging repeated resources and
// keeping first-seen order.
func scale(reqs []Requirement, quantity int) []need {
	q := decimal.NewFromInt(int64(quantity))
	index := make(map[uint]int, len(reqs))
	var needs []need
	for _, r := range reqs {
		amount := r.AmountPerUnit.Mul(q)
		if i, ok := index[r.ResourceID]; ok {
			needs[i].Amount = needs[i].Amount.Add(amount)
			continue
		}
		index[r.ResourceID] = len(needs)
		needs = append(needs, need{ResourceID: r.ResourceID, Amount: amount})
	}
	return needs
}

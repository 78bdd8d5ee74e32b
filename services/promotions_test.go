package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandwichshop/ordering-api/models"
)

func TestValidatePromotion(t *testing.T) {
	past := testNow.Add(-time.Hour)
	future := testNow.Add(time.Hour)

	tests := []struct {
		name  string
		promo models.Promotion
		valid bool
	}{
		{"active percent", models.Promotion{IsActive: true, DiscountType: models.DiscountPercent, DiscountValue: dec("10"), ExpiresAt: &future}, true},
		{"no expiry", models.Promotion{IsActive: true, DiscountType: models.DiscountAmount, DiscountValue: dec("5")}, true},
		{"inactive", models.Promotion{IsActive: false, DiscountType: models.DiscountPercent, DiscountValue: dec("10")}, false},
		{"expired", models.Promotion{IsActive: true, DiscountType: models.DiscountPercent, DiscountValue: dec("10"), ExpiresAt: &past}, false},
		{"percent over 100", models.Promotion{IsActive: true, DiscountType: models.DiscountPercent, DiscountValue: dec("150")}, false},
		{"negative amount", models.Promotion{IsActive: true, DiscountType: models.DiscountAmount, DiscountValue: dec("-1")}, false},
		{"unknown type", models.Promotion{IsActive: true, DiscountType: "bogo", DiscountValue: dec("1")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePromotion(tt.promo, testNow)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrPromotionInvalid)
			}
		})
	}
}

func TestDiscountApply(t *testing.T) {
	assertDecimal(t, "2", Discount{Type: models.DiscountPercent, Value: dec("10")}.Apply(dec("20.00")))
	assertDecimal(t, "0.67", Discount{Type: models.DiscountPercent, Value: dec("10")}.Apply(dec("6.65")))
	assertDecimal(t, "5", Discount{Type: models.DiscountAmount, Value: dec("5")}.Apply(dec("20.00")))
	assertDecimal(t, "3.50", Discount{Type: models.DiscountAmount, Value: dec("5")}.Apply(dec("3.50")))
	assertDecimal(t, "0", Discount{}.Apply(dec("20.00")))
	assertDecimal(t, "0", Discount{Type: models.DiscountAmount, Value: dec("5")}.Apply(dec("0")))
}

func TestEvaluate(t *testing.T) {
	db := setupTestDB(t)
	expired := testNow.Add(-24 * time.Hour)
	promos := []models.Promotion{
		{Code: "WELCOME10", DiscountType: models.DiscountPercent, DiscountValue: dec("10"), IsActive: true},
		{Code: "OLD", DiscountType: models.DiscountPercent, DiscountValue: dec("10"), IsActive: true, ExpiresAt: &expired},
	}
	require.NoError(t, db.Create(&promos).Error)

	e := NewPromotionEvaluator()
	d, err := e.Evaluate(context.Background(), db, promos[0].ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.DiscountPercent, d.Type)
	assertDecimal(t, "10", d.Value)

	_, err = e.Evaluate(context.Background(), db, promos[1].ID, testNow)
	assert.ErrorIs(t, err, ErrPromotionInvalid)

	_, err = e.Evaluate(context.Background(), db, 9999, testNow)
	assert.ErrorIs(t, err, ErrPromotionInvalid)
}

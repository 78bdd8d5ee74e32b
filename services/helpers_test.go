package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/database"
	"github.com/sandwichshop/ordering-api/models"
)

var testNow = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

// shop is a small catalog: a Club sandwich (2 bread, 1 lettuce, 1 chicken)
// priced 10.00 and a Veggie sandwich with no recipe.
type shop struct {
	Bread, Lettuce, Chicken models.Resource
	Club, Veggie            models.Sandwich
	Order                   models.Order
}

func seedShop(t *testing.T, db *gorm.DB, bread, lettuce, chicken string) *shop {
	t.Helper()
	s := &shop{
		Bread:   models.Resource{Item: "Bread", Amount: dec(bread)},
		Lettuce: models.Resource{Item: "Lettuce", Amount: dec(lettuce)},
		Chicken: models.Resource{Item: "Chicken", Amount: dec(chicken)},
		Club:    models.Sandwich{SandwichName: "Club Sandwich", Price: dec("10.00")},
		Veggie:  models.Sandwich{SandwichName: "Veggie", Price: dec("7.00")},
	}
	require.NoError(t, db.Create(&s.Bread).Error)
	require.NoError(t, db.Create(&s.Lettuce).Error)
	require.NoError(t, db.Create(&s.Chicken).Error)
	require.NoError(t, db.Create(&s.Club).Error)
	require.NoError(t, db.Create(&s.Veggie).Error)

	require.NoError(t, db.Create(&[]models.Recipe{
		{SandwichID: s.Club.ID, ResourceID: s.Bread.ID, Amount: dec("2")},
		{SandwichID: s.Club.ID, ResourceID: s.Lettuce.ID, Amount: dec("1")},
		{SandwichID: s.Club.ID, ResourceID: s.Chicken.ID, Amount: dec("1")},
	}).Error)

	s.Order = models.Order{
		TrackingNumber: "SW-TEST0000000001",
		CustomerName:   "Alice",
		OrderType:      models.OrderTypeTakeout,
		Status:         models.OrderStatusPlaced,
		PaymentStatus:  models.PaymentStatusPending,
		OrderDate:      testNow,
	}
	require.NoError(t, db.Omit("OrderDetails").Create(&s.Order).Error)
	return s
}

func stockOf(t *testing.T, db *gorm.DB, id uint) decimal.Decimal {
	t.Helper()
	var r models.Resource
	require.NoError(t, db.First(&r, id).Error)
	return r.Amount
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, db.First(&o, id).Error)
	return o
}

func newWorkflow(db *gorm.DB) *OrderLineWorkflow {
	return NewOrderLineWorkflow(db, NewPricingEngine(dec("0.075"), fixedClock), NewOrderLocks(), nil)
}

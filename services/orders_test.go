package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandwichshop/ordering-api/models"
)

func newOrderService(t *testing.T) (*OrderService, *OrderLineWorkflow, *shop) {
	t.Helper()
	db := setupTestDB(t)
	s := seedShop(t, db, "100", "100", "100")
	pricing := NewPricingEngine(dec("0.075"), fixedClock)
	locks := NewOrderLocks()
	return NewOrderService(db, pricing, locks, nil), NewOrderLineWorkflow(db, pricing, locks, nil), s
}

func TestOrderCreateDefaults(t *testing.T) {
	svc, _, _ := newOrderService(t)

	order, err := svc.Create(context.Background(), OrderInput{CustomerName: "Bob"})
	require.NoError(t, err)
	assert.Regexp(t, `^SW-[0-9A-F]{16}$`, order.TrackingNumber)
	assert.Equal(t, models.OrderStatusPlaced, order.Status)
	assert.Equal(t, models.OrderTypeTakeout, order.OrderType)
	assert.Equal(t, models.PaymentStatusPending, order.PaymentStatus)
	assert.True(t, order.OrderDate.Equal(testNow))
	assertDecimal(t, "0", order.Total)

	tracked, err := svc.Track(context.Background(), order.TrackingNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, tracked.ID)

	_, err = svc.Track(context.Background(), "SW-NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderCreateValidatesPromotion(t *testing.T) {
	svc, _, _ := newOrderService(t)
	ctx := context.Background()
	past := testNow.Add(-time.Hour)
	promos := []models.Promotion{
		{Code: "LIVE", DiscountType: models.DiscountPercent, DiscountValue: dec("10"), IsActive: true},
		{Code: "GONE", DiscountType: models.DiscountPercent, DiscountValue: dec("10"), IsActive: true, ExpiresAt: &past},
		{Code: "OFF", DiscountType: models.DiscountAmount, DiscountValue: dec("5"), IsActive: false},
	}
	require.NoError(t, svc.DB.Create(&promos).Error)

	_, err := svc.Create(ctx, OrderInput{PromoID: &promos[0].ID})
	assert.NoError(t, err)

	for _, id := range []uint{promos[1].ID, promos[2].ID, 9999} {
		id := id
		_, err = svc.Create(ctx, OrderInput{PromoID: &id})
		assert.ErrorIs(t, err, ErrPromotionInvalid)
	}
}

func TestOrderUpdateRepricesOnPromotionChange(t *testing.T) {
	svc, w, s := newOrderService(t)
	ctx := context.Background()
	promo := models.Promotion{Code: "WELCOME10", DiscountType: models.DiscountPercent, DiscountValue: dec("10"), IsActive: true}
	require.NoError(t, svc.DB.Create(&promo).Error)

	_, err := w.AddLineItem(ctx, s.Order.ID, s.Club.ID, 2)
	require.NoError(t, err)

	status := models.OrderStatusPreparing
	order, err := svc.Update(ctx, s.Order.ID, OrderPatch{Status: &status, PromoID: &promo.ID})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assertDecimal(t, "2.00", order.Discount)
	assertDecimal(t, "19.35", order.Total)

	order, err = svc.Update(ctx, s.Order.ID, OrderPatch{ClearPromo: true})
	require.NoError(t, err)
	assert.Nil(t, order.PromoID)
	assertDecimal(t, "21.50", order.Total)

	_, err = svc.Update(ctx, 4242, OrderPatch{Status: &status})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOrderListByDate(t *testing.T) {
	svc, _, s := newOrderService(t)
	ctx := context.Background()
	early := testNow.Add(-72 * time.Hour)
	_, err := svc.Create(ctx, OrderInput{CustomerName: "Early", OrderDate: &early})
	require.NoError(t, err)

	all, err := svc.List(ctx, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	start := testNow.Add(-time.Hour)
	recent, err := svc.List(ctx, &start, nil)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, s.Order.ID, recent[0].ID)

	end := testNow.Add(-48 * time.Hour)
	old, err := svc.List(ctx, nil, &end)
	require.NoError(t, err)
	require.Len(t, old, 1)
	assert.Equal(t, "Early", old[0].CustomerName)
}

func TestOrderDeleteAndRecompute(t *testing.T) {
	svc, w, s := newOrderService(t)
	ctx := context.Background()

	_, err := w.AddLineItem(ctx, s.Order.ID, s.Club.ID, 1)
	require.NoError(t, err)

	order, err := svc.Recompute(ctx, s.Order.ID)
	require.NoError(t, err)
	assertDecimal(t, "10.75", order.Total)

	require.NoError(t, svc.Delete(ctx, s.Order.ID))
	var lines int64
	svc.DB.Model(&models.OrderDetail{}).Count(&lines)
	assert.Zero(t, lines)
	assertDecimal(t, "98", stockOf(t, svc.DB, s.Bread.ID))

	assert.ErrorIs(t, svc.Delete(ctx, s.Order.ID), ErrNotFound)
	_, err = svc.Recompute(ctx, s.Order.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

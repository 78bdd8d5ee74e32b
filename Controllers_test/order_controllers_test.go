package Controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sandwichshop/ordering-api/models"
)

func TestCreateGetAndTrackOrder(t *testing.T) {
	api := newTestAPI(t, "")

	w, env := api.do(http.MethodPost, "/orders", map[string]interface{}{
		"customer_name":    "Evan",
		"customer_phone":   "555-0100",
		"order_type":       "delivery",
		"delivery_address": "1 Main St",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created models.Order
	decode(t, env, &created)
	assert.Regexp(t, `^SW-[0-9A-F]{16}$`, created.TrackingNumber)
	assert.Equal(t, models.OrderTypeDelivery, created.OrderType)
	assert.Equal(t, models.OrderStatusPlaced, created.Status)
	assert.Equal(t, models.PaymentStatusPending, created.PaymentStatus)
	assertDecimal(t, "0", created.Total)
	assert.True(t, created.OrderDate.Equal(testNow))

	w, env = api.do(http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched models.Order
	decode(t, env, &fetched)
	assert.Equal(t, created.TrackingNumber, fetched.TrackingNumber)

	w, env = api.do(http.MethodGet, "/customer/orders/track/"+created.TrackingNumber, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tracked models.Order
	decode(t, env, &tracked)
	assert.Equal(t, created.ID, tracked.ID)

	w, _ = api.do(http.MethodGet, "/customer/orders/track/SW-NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = api.do(http.MethodGet, "/orders/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateOrderValidation(t *testing.T) {
	api := newTestAPI(t, "")

	w, _ := api.do(http.MethodPost, "/orders", map[string]interface{}{"order_type": "drive_thru"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = api.do(http.MethodPost, "/orders", map[string]interface{}{"promo_id": 42})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderWithPromotionIsDiscounted(t *testing.T) {
	api := newTestAPI(t, "")
	c := seedCatalog(t, api.DB, "20")

	w, env := api.do(http.MethodPost, "/promotions", map[string]interface{}{
		"code": "welcome10", "discount_type": "percent", "discount_value": "10", "is_active": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var promo models.Promotion
	decode(t, env, &promo)
	assert.Equal(t, "WELCOME10", promo.Code)

	w, env = api.do(http.MethodPost, "/orders", map[string]interface{}{"customer_name": "Fay", "promo_id": promo.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order models.Order
	decode(t, env, &order)

	w, _ = api.do(http.MethodPost, "/order-details", map[string]interface{}{
		"order_id": order.ID, "sandwich_id": c.Club.ID, "amount": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, env = api.do(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, env, &order)
	assertDecimal(t, "20.00", order.Subtotal)
	assertDecimal(t, "2.00", order.Discount)
	assertDecimal(t, "1.35", order.Tax)
	assertDecimal(t, "19.35", order.Total)

	w, env = api.do(http.MethodPut, fmt.Sprintf("/orders/%d", order.ID), map[string]interface{}{"clear_promo": true, "status": "preparing"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, env, &order)
	assert.Nil(t, order.PromoID)
	assert.Equal(t, models.OrderStatusPreparing, order.Status)
	assertDecimal(t, "0", order.Discount)
	assertDecimal(t, "21.50", order.Total)
}

func TestListOrdersByDate(t *testing.T) {
	api := newTestAPI(t, "")
	seedCatalog(t, api.DB, "10")

	w, env := api.do(http.MethodGet, "/orders?start_date=2026-03-14&end_date=2026-03-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var orders []models.Order
	decode(t, env, &orders)
	assert.Len(t, orders, 1)

	w, env = api.do(http.MethodGet, "/orders?start_date=2026-03-15", nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders = nil
	decode(t, env, &orders)
	assert.Empty(t, orders)

	w, _ = api.do(http.MethodGet, "/orders?start_date=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteAndRecomputeOrder(t *testing.T) {
	api := newTestAPI(t, "")
	c := seedCatalog(t, api.DB, "10")

	w, _ := api.do(http.MethodPost, "/order-details", map[string]interface{}{
		"order_id": c.Order.ID, "sandwich_id": c.Club.ID, "amount": 1,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, api.DB.Model(&models.Order{}).Where("id = ?", c.Order.ID).Update("total", dec("0")).Error)
	w, env := api.do(http.MethodPost, fmt.Sprintf("/orders/%d/recompute", c.Order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var order models.Order
	decode(t, env, &order)
	assertDecimal(t, "10.75", order.Total)

	w, _ = api.do(http.MethodDelete, fmt.Sprintf("/orders/%d", c.Order.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var details int64
	api.DB.Model(&models.OrderDetail{}).Where("order_id = ?", c.Order.ID).Count(&details)
	assert.Zero(t, details)
	// Deleting an order does not return stock.
	assertDecimal(t, "8", stockOf(t, api.DB, c.Bread.ID))

	w, _ = api.do(http.MethodDelete, fmt.Sprintf("/orders/%d", c.Order.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = api.do(http.MethodPost, fmt.Sprintf("/orders/%d/recompute", c.Order.ID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

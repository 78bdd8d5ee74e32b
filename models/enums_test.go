package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseOrderStatus(t *testing.T) {
	for _, s := range []string{"placed", "preparing", "ready", "out_for_delivery", "completed", "canceled"} {
		st, err := ParseOrderStatus(s)
		assert.NoError(t, err)
		assert.Equal(t, OrderStatus(s), st)
	}

	_, err := ParseOrderStatus("shipped")
	assert.Error(t, err)
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCanceled.Terminal())
	assert.False(t, OrderStatusReady.Terminal())
}

func TestParseEnums(t *testing.T) {
	_, err := ParseOrderType("delivery")
	assert.NoError(t, err)
	_, err = ParseOrderType("dine_in")
	assert.Error(t, err)

	_, err = ParsePaymentStatus("paid")
	assert.NoError(t, err)
	_, err = ParsePaymentStatus("refunded")
	assert.Error(t, err)

	_, err = ParseDiscountType("percent")
	assert.NoError(t, err)
	_, err = ParseDiscountType("bogo")
	assert.Error(t, err)
}

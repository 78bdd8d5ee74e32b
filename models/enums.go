package models

import "fmt"

type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusReady          OrderStatus = "ready"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCanceled       OrderStatus = "canceled"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch st := OrderStatus(s); st {
	case OrderStatusPlaced, OrderStatusPreparing, OrderStatusReady,
		OrderStatusOutForDelivery, OrderStatusCompleted, OrderStatusCanceled:
		return st, nil
	default:
		return "", fmt.Errorf("invalid order status %q", s)
	}
}

// Terminal reports whether no further transitions are expected.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCanceled:
		return true
	case OrderStatusPlaced, OrderStatusPreparing, OrderStatusReady, OrderStatusOutForDelivery:
		return false
	default:
		return false
	}
}

type OrderType string

const (
	OrderTypeTakeout  OrderType = "takeout"
	OrderTypeDelivery OrderType = "delivery"
)

func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(s); t {
	case OrderTypeTakeout, OrderTypeDelivery:
		return t, nil
	default:
		return "", fmt.Errorf("invalid order type %q", s)
	}
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch p := PaymentStatus(s); p {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return p, nil
	default:
		return "", fmt.Errorf("invalid payment status %q", s)
	}
}

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountAmount  DiscountType = "amount"
)

func ParseDiscountType(s string) (DiscountType, error) {
	switch d := DiscountType(s); d {
	case DiscountPercent, DiscountAmount:
		return d, nil
	default:
		return "", fmt.Errorf("invalid discount type %q", s)
	}
}

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	DeliveryAddress *string `json:"delivery_address"`
	OrderType       *string `json:"order_type"`
	Status          *string `json:"status"`
	PaymentStatus   *string `json:"payment_status"`
	PromoID         *uint   `json:"promo_id"`
	ClearPromo      bool    `json:"clear_promo"`
}

func (r orderRequest) enums() (*models.OrderType, *models.OrderStatus, *models.PaymentStatus, error) {
	var ot *models.OrderType
	var st *models.OrderStatus
	var ps *models.PaymentStatus
	if r.OrderType != nil {
		v, err := models.ParseOrderType(*r.OrderType)
		if err != nil {
			return nil, nil, nil, err
		}
		ot = &v
	}
	if r.Status != nil {
		v, err := models.ParseOrderStatus(*r.Status)
		if err != nil {
			return nil, nil, nil, err
		}
		st = &v
	}
	if r.PaymentStatus != nil {
		v, err := models.ParsePaymentStatus(*r.PaymentStatus)
		if err != nil {
			return nil, nil, nil, err
		}
		ps = &v
	}
	return ot, st, ps, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// CreateOrder opens an empty order. Totals start at zero and follow the
// line items added later.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ot, st, ps, err := req.enums()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	in := services.OrderInput{
		CustomerName:    deref(req.CustomerName),
		CustomerEmail:   deref(req.CustomerEmail),
		CustomerPhone:   deref(req.CustomerPhone),
		DeliveryAddress: deref(req.DeliveryAddress),
		PromoID:         req.PromoID,
	}
	if ot != nil {
		in.OrderType = *ot
	}
	if st != nil {
		in.Status = *st
	}
	if ps != nil {
		in.PaymentStatus = *ps
	}

	order, err := oc.Orders.Create(c.Request.Context(), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetAllOrders lists orders, optionally limited by start_date and end_date
// (YYYY-MM-DD, both inclusive, or RFC 3339 timestamps).
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	start, err := parseDateParam(c.Query("start_date"), false)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	end, err := parseDateParam(c.Query("end_date"), true)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	orders, err := oc.Orders.List(c.Request.Context(), start, end)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// TrackOrder is the customer-facing lookup by tracking number.
func (oc *OrderController) TrackOrder(c *gin.Context) {
	order, err := oc.Orders.Track(c.Request.Context(), c.Param("tracking_number"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order status", order)
}

func (oc *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	ot, st, ps, err := req.enums()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.Update(c.Request.Context(), id, services.OrderPatch{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		DeliveryAddress: req.DeliveryAddress,
		OrderType:       ot,
		Status:          st,
		PaymentStatus:   ps,
		PromoID:         req.PromoID,
		ClearPromo:      req.ClearPromo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

func (oc *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := oc.Orders.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

func (oc *OrderController) RecomputeOrder(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	order, err := oc.Orders.Recompute(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order totals recomputed", order)
}

// parseDateParam accepts YYYY-MM-DD or RFC 3339. A date-only upper bound
// covers the whole day.
func parseDateParam(raw string, endOfDay bool) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		t = t.UTC()
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/cache"
	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

const idempotencyScope = "order-details"

type OrderDetailController struct {
	DB          *gorm.DB
	Workflow    *services.OrderLineWorkflow
	Idempotency cache.IdempotencyStore
}

func NewOrderDetailController(db *gorm.DB, workflow *services.OrderLineWorkflow, store cache.IdempotencyStore) *OrderDetailController {
	return &OrderDetailController{DB: db, Workflow: workflow, Idempotency: store}
}

type orderDetailRequest struct {
	OrderID    uint `json:"order_id" binding:"required"`
	SandwichID uint `json:"sandwich_id" binding:"required"`
	Amount     int  `json:"amount" binding:"required"`
}

// CreateOrderDetail adds a line item. With an Idempotency-Key header a
// repeated request returns the line item created by the first one.
func (oc *OrderDetailController) CreateOrderDetail(c *gin.Context) {
	var req orderDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	key := c.GetHeader("Idempotency-Key")
	if key != "" && oc.Idempotency != nil {
		if oc.replay(c, key) {
			return
		}
		ok, err := oc.Idempotency.TryLock(c.Request.Context(), idempotencyScope, key)
		if err != nil {
			utils.ErrorLogger.WithError(err).Error("Idempotency store unavailable")
			utils.RespondError(c, http.StatusServiceUnavailable, errors.New("idempotency store unavailable"))
			return
		}
		if !ok {
			utils.RespondError(c, http.StatusConflict, errors.New("a request with this Idempotency-Key is already in progress"))
			return
		}
	}

	detail, err := oc.Workflow.AddLineItem(c.Request.Context(), req.OrderID, req.SandwichID, req.Amount)
	if err != nil {
		if key != "" && oc.Idempotency != nil {
			if rerr := oc.Idempotency.Release(c.Request.Context(), idempotencyScope, key); rerr != nil {
				utils.ErrorLogger.WithError(rerr).Error("Failed to release idempotency key")
			}
		}
		respondServiceError(c, err)
		return
	}

	if key != "" && oc.Idempotency != nil {
		if err := oc.Idempotency.Remember(c.Request.Context(), idempotencyScope, key, strconv.FormatUint(uint64(detail.ID), 10)); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{"detail_id": detail.ID}).WithError(err).Error("Failed to remember idempotency key")
		}
	}

	utils.RespondJSON(c, http.StatusCreated, "Order detail created", detail)
}

// replay answers from a remembered result and reports whether it did.
func (oc *OrderDetailController) replay(c *gin.Context, key string) bool {
	val, found, err := oc.Idempotency.Recall(c.Request.Context(), idempotencyScope, key)
	if err != nil || !found {
		return false
	}
	id, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return false
	}

	var detail models.OrderDetail
	if err := oc.DB.WithContext(c.Request.Context()).First(&detail, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "order detail", uint(id)))
		return true
	}
	c.Header("Idempotent-Replayed", "true")
	utils.RespondJSON(c, http.StatusOK, "Order detail already created", detail)
	return true
}

// GetAllOrderDetails lists line items, optionally for one order_id.
func (oc *OrderDetailController) GetAllOrderDetails(c *gin.Context) {
	q := oc.DB.WithContext(c.Request.Context()).Order("id ASC")
	if raw := c.Query("order_id"); raw != "" {
		orderID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, ErrInvalidID)
			return
		}
		q = q.Where("order_id = ?", orderID)
	}

	var details []models.OrderDetail
	if err := q.Find(&details).Error; err != nil {
		respondServiceError(c, storage("list order details", err))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of order details", details)
}

func (oc *OrderDetailController) GetOrderDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var detail models.OrderDetail
	if err := oc.DB.WithContext(c.Request.Context()).First(&detail, id).Error; err != nil {
		respondServiceError(c, notFoundOr(err, "order detail", id))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", detail)
}

func (oc *OrderDetailController) UpdateOrderDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	detail, err := oc.Workflow.UpdateLineItem(c.Request.Context(), id, req.Amount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail updated", detail)
}

func (oc *OrderDetailController) DeleteOrderDetail(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := oc.Workflow.RemoveLineItem(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail deleted", gin.H{"id": id})
}

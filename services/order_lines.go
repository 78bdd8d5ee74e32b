package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sandwichshop/ordering-api/kds"
	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/utils"
)

// OrderLineWorkflow adds, changes and removes order line items while keeping
// inventory and order totals consistent with them.
type OrderLineWorkflow struct {
	DB        *gorm.DB
	Recipes   *RecipeCatalog
	Inventory *InventoryLedger
	Pricing   *PricingEngine
	Locks     *OrderLocks
	Hub       *kds.Hub
}

func NewOrderLineWorkflow(db *gorm.DB, pricing *PricingEngine, locks *OrderLocks, hub *kds.Hub) *OrderLineWorkflow {
	return &OrderLineWorkflow{
		DB:        db,
		Recipes:   NewRecipeCatalog(),
		Inventory: NewInventoryLedger(),
		Pricing:   pricing,
		Locks:     locks,
		Hub:       hub,
	}
}

// AddLineItem consumes the sandwich's ingredients for quantity units, stores
// the line item and reprices the order, all in one transaction. Nothing is
// written when any ingredient falls short.
func (w *OrderLineWorkflow) AddLineItem(ctx context.Context, orderID, sandwichID uint, quantity int) (*models.OrderDetail, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unlock := w.Locks.Lock(orderID)
	defer unlock()

	var detail models.OrderDetail
	var order *models.Order
	err := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, orderID); err != nil {
			return err
		}

		var sandwich models.Sandwich
		if err := tx.First(&sandwich, sandwichID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("sandwich", sandwichID)
			}
			return err
		}

		reqs, err := w.Recipes.RequirementsFor(ctx, tx, sandwichID)
		if err != nil {
			return err
		}
		if err := w.consume(ctx, tx, scale(reqs, quantity)); err != nil {
			return err
		}

		detail = models.OrderDetail{OrderID: orderID, SandwichID: sandwichID, Amount: quantity}
		if err := tx.Omit("Sandwich").Create(&detail).Error; err != nil {
			return err
		}

		order = w.recompute(ctx, tx, orderID)
		return nil
	})
	if err != nil {
		w.logFailure("add line item", orderID, err)
		return nil, storageErr("add line item", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":    orderID,
		"sandwich_id": sandwichID,
		"quantity":    quantity,
		"detail_id":   detail.ID,
	}).Info("Line item added")

	w.Hub.BroadcastLineItemAdded(detail)
	if order != nil {
		w.Hub.BroadcastOrderUpdate(*order)
	}
	return &detail, nil
}

// UpdateLineItem changes the quantity of a line item. Growing consumes the
// extra ingredients with the same all-or-nothing check; shrinking restocks
// the difference.
func (w *OrderLineWorkflow) UpdateLineItem(ctx context.Context, detailID uint, quantity int) (*models.OrderDetail, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	current, err := w.findDetail(ctx, detailID)
	if err != nil {
		return nil, err
	}

	unlock := w.Locks.Lock(current.OrderID)
	defer unlock()

	var detail models.OrderDetail
	var order *models.Order
	err = w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, current.OrderID); err != nil {
			return err
		}
		if err := tx.First(&detail, detailID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order detail", detailID)
			}
			return err
		}

		delta := quantity - detail.Amount
		switch {
		case delta > 0:
			reqs, err := w.Recipes.RequirementsFor(ctx, tx, detail.SandwichID)
			if err != nil {
				return err
			}
			if err := w.consume(ctx, tx, scale(reqs, delta)); err != nil {
				return err
			}
		case delta < 0:
			if err := w.restock(ctx, tx, detail.SandwichID, -delta); err != nil {
				return err
			}
		default:
			return nil
		}

		if err := tx.Model(&models.OrderDetail{}).Where("id = ?", detailID).Update("amount", quantity).Error; err != nil {
			return err
		}
		detail.Amount = quantity

		order = w.recompute(ctx, tx, detail.OrderID)
		return nil
	})
	if err != nil {
		w.logFailure("update line item", current.OrderID, err)
		return nil, storageErr("update line item", err)
	}

	if order != nil {
		w.Hub.BroadcastOrderUpdate(*order)
	}
	return &detail, nil
}

// RemoveLineItem deletes a line item, returns its ingredients to stock and
// reprices the order.
func (w *OrderLineWorkflow) RemoveLineItem(ctx context.Context, detailID uint) error {
	current, err := w.findDetail(ctx, detailID)
	if err != nil {
		return err
	}

	unlock := w.Locks.Lock(current.OrderID)
	defer unlock()

	var order *models.Order
	err = w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockOrder(tx, current.OrderID); err != nil {
			return err
		}

		var detail models.OrderDetail
		if err := tx.First(&detail, detailID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order detail", detailID)
			}
			return err
		}
		if err := w.restock(ctx, tx, detail.SandwichID, detail.Amount); err != nil {
			return err
		}
		if err := tx.Delete(&models.OrderDetail{}, detailID).Error; err != nil {
			return err
		}

		order = w.recompute(ctx, tx, detail.OrderID)
		return nil
	})
	if err != nil {
		w.logFailure("remove line item", current.OrderID, err)
		return storageErr("remove line item", err)
	}

	if order != nil {
		w.Hub.BroadcastOrderUpdate(*order)
	}
	return nil
}

// consume checks every need against locked stock and only then decrements.
func (w *OrderLineWorkflow) consume(ctx context.Context, tx *gorm.DB, needs []need) error {
	ids := make([]uint, len(needs))
	for i, n := range needs {
		ids[i] = n.ResourceID
	}
	rows, err := w.Inventory.Lock(ctx, tx, ids)
	if err != nil {
		return err
	}
	stock := make(map[uint]models.Resource, len(rows))
	for _, r := range rows {
		stock[r.ID] = r
	}

	var shortfalls []Shortfall
	for _, n := range needs {
		res, ok := stock[n.ResourceID]
		if !ok {
			shortfalls = append(shortfalls, MissingResource(n.ResourceID))
			continue
		}
		if res.Amount.LessThan(n.Amount) {
			shortfalls = append(shortfalls, InsufficientStock(res.ID, res.Item, n.Amount, res.Amount))
		}
	}
	if len(shortfalls) > 0 {
		return &InsufficientIngredientsError{Shortfalls: shortfalls}
	}

	for _, id := range uniqueSorted(ids) {
		n := findNeed(needs, id)
		if err := w.Inventory.Decrement(ctx, tx, id, n.Amount); err != nil {
			if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrResourceNotFound) {
				return w.lateShortfall(ctx, tx, n, stock[id].Item)
			}
			return err
		}
	}
	return nil
}

// lateShortfall reports stock that vanished between the check and the
// guarded decrement.
func (w *OrderLineWorkflow) lateShortfall(ctx context.Context, tx *gorm.DB, n need, name string) error {
	var res models.Resource
	if err := tx.WithContext(ctx).First(&res, n.ResourceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &InsufficientIngredientsError{Shortfalls: []Shortfall{MissingResource(n.ResourceID)}}
		}
		return err
	}
	return &InsufficientIngredientsError{Shortfalls: []Shortfall{InsufficientStock(res.ID, name, n.Amount, res.Amount)}}
}

// restock returns quantity units worth of the sandwich's current recipe.
// Resources deleted since are skipped.
func (w *OrderLineWorkflow) restock(ctx context.Context, tx *gorm.DB, sandwichID uint, quantity int) error {
	reqs, err := w.Recipes.RequirementsFor(ctx, tx, sandwichID)
	if errors.Is(err, ErrNoRecipeDefined) {
		return nil
	}
	if err != nil {
		return err
	}

	needs := scale(reqs, quantity)
	ids := make([]uint, len(needs))
	for i, n := range needs {
		ids[i] = n.ResourceID
	}
	if _, err := w.Inventory.Lock(ctx, tx, ids); err != nil {
		return err
	}

	for _, id := range uniqueSorted(ids) {
		n := findNeed(needs, id)
		if err := w.Inventory.Restock(ctx, tx, id, n.Amount); err != nil {
			if errors.Is(err, ErrResourceNotFound) {
				utils.InfoLogger.WithFields(logrus.Fields{"resource_id": id}).Warn("Skipping restock of missing resource")
				continue
			}
			return err
		}
	}
	return nil
}

// recompute reprices the order inside a savepoint. A failure only rolls back
// the savepoint and is logged.
func (w *OrderLineWorkflow) recompute(ctx context.Context, tx *gorm.DB, orderID uint) *models.Order {
	var order *models.Order
	err := tx.Transaction(func(sp *gorm.DB) error {
		o, err := w.Pricing.Recompute(ctx, sp, orderID)
		order = o
		return err
	})
	if err != nil {
		utils.ErrorLogger.WithFields(logrus.Fields{"order_id": orderID}).WithError(err).Error("Order recompute failed")
		return nil
	}
	return order
}

func (w *OrderLineWorkflow) findDetail(ctx context.Context, detailID uint) (*models.OrderDetail, error) {
	var detail models.OrderDetail
	if err := w.DB.WithContext(ctx).First(&detail, detailID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order detail", detailID)
		}
		return nil, storageErr("load order detail", err)
	}
	return &detail, nil
}

func (w *OrderLineWorkflow) logFailure(op string, orderID uint, err error) {
	entry := utils.InfoLogger.WithFields(logrus.Fields{"op": op, "order_id": orderID})
	var ie *InsufficientIngredientsError
	switch {
	case errors.As(err, &ie):
		entry.WithField("shortfalls", len(ie.Shortfalls)).Warn("Line item rejected")
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoRecipeDefined), errors.Is(err, ErrInvalidQuantity):
		entry.WithError(err).Warn("Line item rejected")
	default:
		utils.ErrorLogger.WithFields(logrus.Fields{"op": op, "order_id": orderID}).WithError(err).Error("Line item transaction rolled back")
	}
}

func lockOrder(tx *gorm.DB, orderID uint) error {
	var order models.Order
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Select("id").First(&order, orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound("order", orderID)
	}
	return err
}

func findNeed(needs []need, resourceID uint) need {
	for _, n := range needs {
		if n.ResourceID == resourceID {
			return n
		}
	}
	return need{ResourceID: resourceID}
}

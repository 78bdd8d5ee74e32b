package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/kds"
	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/utils"
)

// OrderInput carries the client-supplied fields of a new order. Totals are
// never accepted from clients.
type OrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	OrderType       models.OrderType
	Status          models.OrderStatus
	PaymentStatus   models.PaymentStatus
	PromoID         *uint
	OrderDate       *time.Time
}

// OrderPatch lists the fields to change; nil means keep.
type OrderPatch struct {
	CustomerName    *string
	CustomerEmail   *string
	CustomerPhone   *string
	DeliveryAddress *string
	OrderType       *models.OrderType
	Status          *models.OrderStatus
	PaymentStatus   *models.PaymentStatus
	PromoID         *uint
	ClearPromo      bool
}

type OrderService struct {
	DB      *gorm.DB
	Pricing *PricingEngine
	Locks   *OrderLocks
	Hub     *kds.Hub
}

func NewOrderService(db *gorm.DB, pricing *PricingEngine, locks *OrderLocks, hub *kds.Hub) *OrderService {
	return &OrderService{DB: db, Pricing: pricing, Locks: locks, Hub: hub}
}

func (s *OrderService) Create(ctx context.Context, in OrderInput) (*models.Order, error) {
	db := s.DB.WithContext(ctx)
	now := s.Pricing.Now()

	if in.PromoID != nil {
		if err := s.checkPromotion(db, *in.PromoID, now); err != nil {
			return nil, err
		}
	}

	order := models.Order{
		TrackingNumber:  utils.NewTrackingNumber(),
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		DeliveryAddress: in.DeliveryAddress,
		OrderType:       in.OrderType,
		Status:          in.Status,
		PaymentStatus:   in.PaymentStatus,
		PromoID:         in.PromoID,
		OrderDate:       now,
	}
	if order.OrderType == "" {
		order.OrderType = models.OrderTypeTakeout
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPlaced
	}
	if order.PaymentStatus == "" {
		order.PaymentStatus = models.PaymentStatusPending
	}
	if in.OrderDate != nil {
		order.OrderDate = in.OrderDate.UTC()
	}

	if err := db.Omit("OrderDetails").Create(&order).Error; err != nil {
		return nil, storageErr("create order", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"order_id":        order.ID,
		"tracking_number": order.TrackingNumber,
	}).Info("Order created")
	s.Hub.BroadcastOrderUpdate(order)
	return &order, nil
}

func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	if err := s.DB.WithContext(ctx).Preload("OrderDetails").First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order", id)
		}
		return nil, storageErr("load order", err)
	}
	return &order, nil
}

func (s *OrderService) Track(ctx context.Context, trackingNumber string) (*models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Preload("OrderDetails").
		Where("tracking_number = ?", trackingNumber).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("order with tracking number", trackingNumber)
		}
		return nil, storageErr("track order", err)
	}
	return &order, nil
}

// List returns orders whose order_date falls in [start, end]; either bound
// may be nil.
func (s *OrderService) List(ctx context.Context, start, end *time.Time) ([]models.Order, error) {
	q := s.DB.WithContext(ctx).Model(&models.Order{})
	if start != nil {
		q = q.Where("order_date >= ?", start.UTC())
	}
	if end != nil {
		q = q.Where("order_date <= ?", end.UTC())
	}

	var orders []models.Order
	if err := q.Order("order_date DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, storageErr("list orders", err)
	}
	return orders, nil
}

// Update applies patch and reprices the order when its promotion changed.
func (s *OrderService) Update(ctx context.Context, id uint, patch OrderPatch) (*models.Order, error) {
	unlock := s.Locks.Lock(id)
	defer unlock()

	var order models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("order", id)
			}
			return err
		}

		promoChanged := false
		if patch.ClearPromo && order.PromoID != nil {
			order.PromoID = nil
			promoChanged = true
		} else if patch.PromoID != nil && (order.PromoID == nil || *order.PromoID != *patch.PromoID) {
			if err := s.checkPromotion(tx, *patch.PromoID, s.Pricing.Now()); err != nil {
				return err
			}
			order.PromoID = patch.PromoID
			promoChanged = true
		}

		if patch.CustomerName != nil {
			order.CustomerName = *patch.CustomerName
		}
		if patch.CustomerEmail != nil {
			order.CustomerEmail = *patch.CustomerEmail
		}
		if patch.CustomerPhone != nil {
			order.CustomerPhone = *patch.CustomerPhone
		}
		if patch.DeliveryAddress != nil {
			order.DeliveryAddress = *patch.DeliveryAddress
		}
		if patch.OrderType != nil {
			order.OrderType = *patch.OrderType
		}
		if patch.Status != nil {
			order.Status = *patch.Status
		}
		if patch.PaymentStatus != nil {
			order.PaymentStatus = *patch.PaymentStatus
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
			"customer_name":    order.CustomerName,
			"customer_email":   order.CustomerEmail,
			"customer_phone":   order.CustomerPhone,
			"delivery_address": order.DeliveryAddress,
			"order_type":       order.OrderType,
			"status":           order.Status,
			"payment_status":   order.PaymentStatus,
			"promo_id":         order.PromoID,
		}).Error; err != nil {
			return err
		}

		if promoChanged {
			updated, err := s.Pricing.Recompute(ctx, tx, id)
			if err != nil {
				return err
			}
			if updated != nil {
				order = *updated
			}
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("update order", err)
	}

	s.Hub.BroadcastOrderUpdate(order)
	return &order, nil
}

// Delete removes the order and its line items. Consumed stock is not
// returned.
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	unlock := s.Locks.Lock(id)
	defer unlock()

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderDetail{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return notFound("order", id)
		}
		return nil
	})
	if err != nil {
		return storageErr("delete order", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{"order_id": id}).Info("Order deleted")
	return nil
}

// Recompute reprices one order on demand.
func (s *OrderService) Recompute(ctx context.Context, id uint) (*models.Order, error) {
	unlock := s.Locks.Lock(id)
	defer unlock()

	var order *models.Order
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o, err := s.Pricing.Recompute(ctx, tx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return notFound("order", id)
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, storageErr("recompute order", err)
	}

	s.Hub.BroadcastOrderUpdate(*order)
	return order, nil
}

func (s *OrderService) checkPromotion(tx *gorm.DB, promoID uint, at time.Time) error {
	var promo models.Promotion
	if err := tx.First(&promo, promoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPromotionInvalid
		}
		return err
	}
	return ValidatePromotion(promo, at)
}

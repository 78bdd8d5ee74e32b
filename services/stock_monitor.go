package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/kds"
	"github.com/sandwichshop/ordering-api/models"
	"github.com/sandwichshop/ordering-api/utils"
)

// StockMonitor polls inventory and pushes low-stock resources to the kitchen
// feed. A resource is reported again only after its amount changes.
type StockMonitor struct {
	DB        *gorm.DB
	Hub       *kds.Hub
	Ledger    *InventoryLedger
	Threshold decimal.Decimal
	Interval  time.Duration
	StopChan  chan struct{}

	reported map[uint]decimal.Decimal
}

func NewStockMonitor(db *gorm.DB, hub *kds.Hub, threshold decimal.Decimal, interval time.Duration) *StockMonitor {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StockMonitor{
		DB:        db,
		Hub:       hub,
		Ledger:    NewInventoryLedger(),
		Threshold: threshold,
		Interval:  interval,
		StopChan:  make(chan struct{}),
		reported:  make(map[uint]decimal.Decimal),
	}
}

func (sm *StockMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.Check(context.Background())
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *StockMonitor) Stop() {
	close(sm.StopChan)
}

// Check runs one poll and returns the resources it broadcast.
func (sm *StockMonitor) Check(ctx context.Context) []models.Resource {
	low, err := sm.Ledger.LowStock(ctx, sm.DB, sm.Threshold)
	if err != nil {
		utils.ErrorLogger.WithError(err).Error("Error fetching low stock resources")
		return nil
	}

	current := make(map[uint]decimal.Decimal, len(low))
	var fresh []models.Resource
	for _, r := range low {
		current[r.ID] = r.Amount
		if prev, ok := sm.reported[r.ID]; ok && prev.Equal(r.Amount) {
			continue
		}
		fresh = append(fresh, r)
	}
	sm.reported = current

	if len(fresh) > 0 {
		utils.InfoLogger.WithFields(logrus.Fields{
			"count":     len(fresh),
			"threshold": sm.Threshold.String(),
		}).Warn("Low stock detected")
		sm.Hub.BroadcastInventoryLow(fresh)
	}
	return fresh
}

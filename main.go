package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/sandwichshop/ordering-api/cache"
	"github.com/sandwichshop/ordering-api/config"
	"github.com/sandwichshop/ordering-api/database"
	"github.com/sandwichshop/ordering-api/kds"
	"github.com/sandwichshop/ordering-api/router"
	"github.com/sandwichshop/ordering-api/services"
	"github.com/sandwichshop/ordering-api/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to migrate: %v", err)
	}
	utils.InfoLogger.WithField("driver", cfg.DBDriver).Info("Database ready")

	pricing := services.NewPricingEngine(cfg.TaxRate, database.Now)

	if cfg.SeedData {
		err := database.Seed(db, func(tx *gorm.DB, orderID uint) error {
			_, err := pricing.Recompute(context.Background(), tx, orderID)
			return err
		})
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed: %v", err)
		}
	}

	hub := kds.NewHub()

	monitor := services.NewStockMonitor(db, hub, cfg.LowStockThreshold, cfg.StockMonitorInterval)
	monitor.Start()
	defer monitor.Stop()

	var store cache.IdempotencyStore
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		defer rdb.Close()
		store = cache.NewRedisIdempotencyStore(rdb, cfg.IdempotencyTTL)
		utils.InfoLogger.WithField("addr", cfg.RedisAddr).Info("Using redis idempotency store")
	} else {
		store = cache.NewMemoryIdempotencyStore(cfg.IdempotencyTTL)
		utils.InfoLogger.Info("REDIS_ADDR not set, using in-memory idempotency store")
	}

	if cfg.JWTSecret == "" {
		utils.InfoLogger.Warn("JWT_SECRET not set, staff endpoints are unauthenticated")
	}

	r := router.SetupRouter(router.Deps{
		DB:             db,
		Hub:            hub,
		Pricing:        pricing,
		Idempotency:    store,
		JWTSecret:      []byte(cfg.JWTSecret),
		CORSOrigin:     cfg.CORSOrigin,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	utils.InfoLogger.WithFields(logrus.Fields{"port": cfg.Port, "tax_rate": cfg.TaxRate.String()}).Info("Server running")
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

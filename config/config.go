package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandwichshop/ordering-api/database"
)

// DefaultTaxRate is used when TAX_RATE is not set.
var DefaultTaxRate = decimal.RequireFromString("0.075")

type Config struct {
	Port       string
	GinMode    string
	CORSOrigin string

	DBDriver   string
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	TaxRate decimal.Decimal

	JWTSecret string

	RedisAddr      string
	RedisPassword  string
	IdempotencyTTL time.Duration

	RateLimitRPS   float64
	RateLimitBurst int

	LowStockThreshold    decimal.Decimal
	StockMonitorInterval time.Duration

	SeedData bool

	LogLevel  string
	LogFormat string
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		GinMode:       os.Getenv("GIN_MODE"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
		DBDriver:      getEnv("DB_DRIVER", "mysql"),
		DBDSN:         os.Getenv("DB_DSN"),
		DBHost:        getEnv("DB_HOST", "127.0.0.1"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        getEnv("DB_NAME", "sandwich_maker_api"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}

	var err error
	if cfg.TaxRate, err = getDecimal("TAX_RATE", DefaultTaxRate); err != nil {
		return nil, err
	}
	if cfg.TaxRate.IsNegative() {
		return nil, fmt.Errorf("TAX_RATE must not be negative, got %s", cfg.TaxRate)
	}
	if cfg.LowStockThreshold, err = getDecimal("LOW_STOCK_THRESHOLD", decimal.NewFromInt(10)); err != nil {
		return nil, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.StockMonitorInterval, err = getDuration("STOCK_MONITOR_INTERVAL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}
	if cfg.SeedData, err = getBool("SEED_DATA", false); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MySQLDSN returns DB_DSN when set, otherwise builds one from the DB_* parts.
func (c *Config) MySQLDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// InitDB opens the configured database.
func InitDB(cfg *Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		return gorm.Open(mysql.Open(cfg.MySQLDSN()), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Warn),
			NowFunc:        database.Now,
			TranslateError: true,
		})
	case "sqlite":
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "sandwiches.db"
		}
		return database.OpenSQLite(dsn)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDecimal(key string, fallback decimal.Decimal) (decimal.Decimal, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

package database

import (
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sandwichshop/ordering-api/models"
)

// Now is the clock used for gorm timestamps; everything is stored in UTC.
func Now() time.Time {
	return time.Now().UTC()
}

// OpenSQLite opens a SQLite database. In-memory databases are pinned to a
// single connection so every query sees the same schema.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        Now,
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return db, nil
}

// Models lists every table in FK-friendly order.
func Models() []interface{} {
	return []interface{}{
		&models.Resource{},
		&models.Sandwich{},
		&models.Tag{},
		&models.SandwichTag{},
		&models.Recipe{},
		&models.Promotion{},
		&models.Order{},
		&models.OrderDetail{},
		&models.Rating{},
	}
}

// Migrate creates or updates the schema and applies storage constraints.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return ApplyConstraints(db)
}

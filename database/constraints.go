package database

import (
	"github.com/sandwichshop/ordering-api/utils"
	"gorm.io/gorm"
)

// constraint is a named CHECK that backs an invariant at the storage layer.
type constraint struct {
	table string
	name  string
	stmt  string
}

var constraints = []constraint{
	{"resources", "chk_resources_amount", "ALTER TABLE resources ADD CONSTRAINT chk_resources_amount CHECK (amount >= 0)"},
	{"recipes", "chk_recipes_amount", "ALTER TABLE recipes ADD CONSTRAINT chk_recipes_amount CHECK (amount > 0)"},
	{"order_details", "chk_order_details_amount", "ALTER TABLE order_details ADD CONSTRAINT chk_order_details_amount CHECK (amount > 0)"},
	{"sandwiches", "chk_sandwiches_price", "ALTER TABLE sandwiches ADD CONSTRAINT chk_sandwiches_price CHECK (price >= 0)"},
	{"ratings", "chk_ratings_stars", "ALTER TABLE ratings ADD CONSTRAINT chk_ratings_stars CHECK (stars BETWEEN 1 AND 5)"},
}

// ApplyConstraints adds CHECK constraints on MySQL. SQLite cannot add
// constraints to existing tables, so it relies on the application checks.
// A failing statement is logged and skipped.
func ApplyConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "mysql" {
		return nil
	}

	for _, c := range constraints {
		if db.Migrator().HasConstraint(c.table, c.name) {
			continue
		}
		if err := db.Exec(c.stmt).Error; err != nil {
			utils.ErrorLogger.WithError(err).Errorf("Error applying constraint %s", c.name)
			continue
		}
		utils.InfoLogger.Infof("Applied constraint %s on %s", c.name, c.table)
	}
	return nil
}

package infra

import (
	"fmt"

	"aquadesk/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate
// for all tables, then applies idempotent SQL patches GORM cannot express
// (partial indexes, CHECK constraints).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := db.AutoMigrate(
		&model.User{},
		&model.Customer{},
		&model.Rider{},
		&model.Order{},
		&model.DailyClosing{},
		&model.ClosingRiderCollection{},
		&model.ClosingMethodTotal{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not cover.
// Each statement uses IF NOT EXISTS semantics so re-running is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the closing precondition query: only orders
		// still in a non-terminal status are scanned when checking canClose.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_orders_open_by_day') THEN
		    CREATE INDEX idx_orders_open_by_day
		        ON orders (created_at)
		        WHERE status IN ('created', 'assigned', 'in_progress');
		  END IF;
		END $$`,
		// totalAmount is immutable and must always equal
		// current_order_amount + balance_at_creation.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_total_amount') THEN
		    ALTER TABLE orders
		      ADD CONSTRAINT chk_orders_total_amount
		      CHECK (total_amount = current_order_amount + balance_at_creation);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

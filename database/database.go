// Package database opens the GORM connection backing the user store and
// bridges GORM's logging into the service logger.
package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/nazonexus/identity/config"
	"github.com/nazonexus/identity/logger"
)

// Open connects using the given dialector and applies the pool settings from
// cfg. The caller owns the returned handle and closes it via Close.
func Open(ctx context.Context, dialector gorm.Dialector, cfg config.DatabaseConfig, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newGormLogger(log),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: underlying sql.DB: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	log.WithComponent("database").Info("Database connection established")
	return db, nil
}

// Close closes the connection pool behind db. Safe on a nil handle.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

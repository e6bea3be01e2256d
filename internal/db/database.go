package db

import (
	"fmt"

	"github.com/ikkim/customer-records-backend/config"
	appLogger "github.com/ikkim/customer-records-backend/pkg/logger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the store configured by cfg. The handle is returned to the
// caller and passed explicitly to repositories.
func Initialize(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	fields := map[string]interface{}{"driver": cfg.Driver}
	if cfg.Driver == "sqlite" {
		fields["path"] = cfg.SQLitePath
	} else {
		fields["host"] = cfg.Host
		fields["port"] = cfg.Port
		fields["database"] = cfg.DBName
		fields["user"] = cfg.User
	}
	appLogger.Info("Connecting to database", fields)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent), // our own logger covers store calls
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	maxIdle, maxOpen := 10, 100
	if cfg.Driver == "sqlite" {
		// one writer at a time, otherwise SQLite answers "database is locked"
		maxIdle, maxOpen = 1, 1
	}
	sqlDB.SetMaxIdleConns(maxIdle)
	sqlDB.SetMaxOpenConns(maxOpen)

	appLogger.Info("Database connection established successfully", map[string]interface{}{
		"max_idle_conns": maxIdle,
		"max_open_conns": maxOpen,
	})
	return gdb, nil
}

// Close closes the underlying connection pool
func Close(gdb *gorm.DB) error {
	sqlDB, err := gdb.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

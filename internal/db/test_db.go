package db

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a private in-memory SQLite database with the schema applied
func SetupTestDB() (*gorm.DB, error) {
	gdb, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get test database instance: %w", err)
	}
	// every new connection would see its own empty :memory: database
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := Migrate(gdb); err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	return gdb, nil
}

// CleanupTestDB closes the test database
func CleanupTestDB(gdb *gorm.DB) {
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all rows, children first
func TruncateAllTables(gdb *gorm.DB) error {
	for _, table := range []string{"addresses", "customers"} {
		if err := gdb.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}

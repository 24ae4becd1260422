package db

import (
	"fmt"  // Error wrapping
	"time" // UTC timestamps

	"wallet_ledger/internal/config" // Store configuration

	"gorm.io/driver/mysql"  // MySQL driver for GORM
	"gorm.io/driver/sqlite" // SQLite driver for GORM
	"gorm.io/gorm"          // GORM ORM library
	"gorm.io/gorm/logger"   // GORM logger
)

// Open connects to the store selected by cfg.DBDriver and tunes the connection pool
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.MySQLDSN()) // Production store
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DBPath) // Local development store
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	gormLogger := logger.Default.LogMode(logger.Warn) // Only slow queries and errors
	if cfg.IsProd {
		gormLogger = logger.Default.LogMode(logger.Silent)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger,
		NowFunc:        nowUTC, // Timestamps compare as text on SQLite, keep one offset
		TranslateError: true,   // Map driver duplicate-key errors to gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	maxOpen := cfg.DBMaxOpenConns
	if cfg.DBDriver == config.DriverSQLite {
		maxOpen = 1 // SQLite has a single writer
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.DBConnMaxLifetime)

	return db, nil
}

// OpenMemory opens a private in-memory SQLite store. Used by tests and demos.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := "file:" + name + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		NowFunc:        nowUTC,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open memory database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1) // Units of work serialize through the single connection
	sqlDB.SetMaxIdleConns(1) // The database lives as long as its last connection
	return db, nil
}

// nowUTC stamps created_at and updated_at columns
func nowUTC() time.Time {
	return time.Now().UTC()
}

package testutil

import (
	"io"
	"log"

	"tracker-api/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := database.Open(":memory:", logger.Silent)
	if err != nil {
		return nil, err
	}
	// Every new connection to :memory: is a fresh, empty database.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// DiscardLogger returns a logger that drops everything, for quiet cache engines in tests.
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

package database

import (
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormDBFromConfig creates a new GORM database connection for the favourites backend
func NewGormDBFromConfig(backend, databaseURL, sqlitePath string) (*gorm.DB, error) {
	switch backend {
	case "postgres":
		return NewGormDB(databaseURL)
	case "sqlite":
		return NewSQLiteDB(sqlitePath)
	default:
		return nil, fmt.Errorf("database: unsupported backend %q", backend)
	}
}

// NewGormDB creates a new GORM database connection using the provided DSN
func NewGormDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// NewSQLiteDB opens a SQLite database at path; ":memory:" and file: URIs are accepted
func NewSQLiteDB(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is not set")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers; a single connection keeps in-memory databases shared
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

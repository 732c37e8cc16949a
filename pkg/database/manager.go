package database

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// DatabaseManager owns the GORM handle shared by the repositories
type DatabaseManager struct {
	db *gorm.DB
}

// NewDatabaseManager creates a new database manager with GORM
func NewDatabaseManager(gormDB *gorm.DB) *DatabaseManager {
	return &DatabaseManager{
		db: gormDB,
	}
}

// DB returns the underlying GORM handle
func (dm *DatabaseManager) DB() *gorm.DB {
	return dm.db
}

// Dialect returns the dialector name ("postgres" or "sqlite")
func (dm *DatabaseManager) Dialect() string {
	return dm.db.Dialector.Name()
}

// Ping checks that the database answers within ctx
func (dm *DatabaseManager) Ping(ctx context.Context) error {
	sqlDB, err := dm.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (dm *DatabaseManager) Close() error {
	sqlDB, err := dm.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

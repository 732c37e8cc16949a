package database

import (
	"context"
	"fmt"
	"time"

	"github.com/latoulicious/umaroster/pkg/database/models"
	"gorm.io/gorm"
)

// ExpectedTables are the tables created by the migration package
var ExpectedTables = []string{"favourites", "app_logs"}

// CheckReport summarizes a connectivity check
type CheckReport struct {
	Dialect         string
	Version         string
	PingLatency     time.Duration
	QueryLatency    time.Duration
	OpenConnections int
	InUse           int
	Idle            int
	MissingTables   []string
	FavouriteCount  int64
	LogCount        int64
	Transactional   bool
}

// SlowQueryThreshold flags a suspicious round trip
const SlowQueryThreshold = 5 * time.Second

// Slow reports whether the simple query exceeded SlowQueryThreshold
func (r *CheckReport) Slow() bool {
	return r.QueryLatency > SlowQueryThreshold
}

// Check runs the connectivity checks against db and stops at the first hard failure
func Check(ctx context.Context, db *gorm.DB) (*CheckReport, error) {
	report := &CheckReport{Dialect: db.Dialector.Name()}
	db = db.WithContext(ctx)

	sqlDB, err := db.DB()
	if err != nil {
		return report, fmt.Errorf("failed to get underlying database connection: %w", err)
	}

	start := time.Now()
	if err := sqlDB.PingContext(ctx); err != nil {
		return report, fmt.Errorf("database ping failed: %w", err)
	}
	report.PingLatency = time.Since(start)

	versionQuery := "SELECT version()"
	if report.Dialect == "sqlite" {
		versionQuery = "SELECT sqlite_version()"
	}
	if err := db.Raw(versionQuery).Scan(&report.Version).Error; err != nil {
		return report, fmt.Errorf("failed to get database version: %w", err)
	}

	stats := sqlDB.Stats()
	report.OpenConnections = stats.OpenConnections
	report.InUse = stats.InUse
	report.Idle = stats.Idle

	start = time.Now()
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		return report, fmt.Errorf("performance test failed: %w", err)
	}
	report.QueryLatency = time.Since(start)

	if err := checkExistingTables(db, report); err != nil {
		return report, err
	}

	if err := testTransactionCapability(db); err != nil {
		return report, fmt.Errorf("transaction test failed: %w", err)
	}
	report.Transactional = true

	return report, nil
}

// checkExistingTables records missing tables and row counts for the present ones
func checkExistingTables(db *gorm.DB, report *CheckReport) error {
	migrator := db.Migrator()
	for _, table := range ExpectedTables {
		if !migrator.HasTable(table) {
			report.MissingTables = append(report.MissingTables, table)
		}
	}

	if migrator.HasTable(&models.Favourite{}) {
		if err := db.Model(&models.Favourite{}).Count(&report.FavouriteCount).Error; err != nil {
			return fmt.Errorf("failed to count favourites: %w", err)
		}
	}
	if migrator.HasTable(&models.AppLog{}) {
		if err := db.Model(&models.AppLog{}).Count(&report.LogCount).Error; err != nil {
			return fmt.Errorf("failed to count app_logs: %w", err)
		}
	}

	return nil
}

// testTransactionCapability tests if the database supports transactions properly
func testTransactionCapability(db *gorm.DB) error {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	if err := tx.Exec("CREATE TEMPORARY TABLE test_transaction (id INTEGER PRIMARY KEY, test_data TEXT)").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to create temporary table: %w", err)
	}

	if err := tx.Exec("INSERT INTO test_transaction (id, test_data) VALUES (1, 'test')").Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to insert test data: %w", err)
	}

	var count int64
	if err := tx.Raw("SELECT COUNT(*) FROM test_transaction").Scan(&count).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to count test data: %w", err)
	}

	if count != 1 {
		tx.Rollback()
		return fmt.Errorf("unexpected count in transaction: expected 1, got %d", count)
	}

	// Rollback the transaction (cleanup)
	if err := tx.Rollback().Error; err != nil {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	return nil
}

package migration

import (
	"log"

	"gorm.io/gorm"
)

// AddLogContextIndexes adds the composite indexes used when browsing app_logs by component or roster id
func AddLogContextIndexes(db *gorm.DB) error {
	log.Println("Running migration: Add context indexes to app_logs table...")

	if !db.Migrator().HasColumn(&AppLogMigration{}, "umamusume_id") {
		log.Println("Adding umamusume_id column to app_logs table...")
		if err := db.Exec("ALTER TABLE app_logs ADD COLUMN umamusume_id INTEGER DEFAULT 0").Error; err != nil {
			return err
		}
	}

	log.Println("Creating indexes for context columns...")

	// Composite index for component timelines
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_app_logs_component_timestamp ON app_logs(component, timestamp)").Error; err != nil {
		return err
	}

	// Partial index: most rows carry no roster context
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_app_logs_umamusume_level ON app_logs(umamusume_id, level) WHERE umamusume_id <> 0").Error; err != nil {
		return err
	}

	log.Println("Log context indexes migration completed successfully!")
	return nil
}

// AppLogMigration is a temporary struct for migration column checks
type AppLogMigration struct {
	UmamusumeID int `gorm:"column:umamusume_id"`
}

// TableName returns the table name for migration checks
func (AppLogMigration) TableName() string {
	return "app_logs"
}

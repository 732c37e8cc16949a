package migration

import (
	"log"

	"gorm.io/gorm"
)

// RollbackLogContextIndexes drops the indexes created by AddLogContextIndexes
func RollbackLogContextIndexes(db *gorm.DB) error {
	log.Println("Running rollback: Remove context indexes from app_logs table...")

	if err := db.Exec("DROP INDEX IF EXISTS idx_app_logs_component_timestamp").Error; err != nil {
		log.Printf("Warning: Failed to drop idx_app_logs_component_timestamp: %v", err)
	}

	if err := db.Exec("DROP INDEX IF EXISTS idx_app_logs_umamusume_level").Error; err != nil {
		log.Printf("Warning: Failed to drop idx_app_logs_umamusume_level: %v", err)
	}

	log.Println("Log context indexes rollback completed successfully!")
	return nil
}

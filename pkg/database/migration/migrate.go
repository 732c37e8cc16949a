package migration

import (
	"fmt"
	"log"

	"github.com/latoulicious/umaroster/pkg/database/models"
	"gorm.io/gorm"
)

// RunMigration creates or updates every table the roster needs
func RunMigration(db *gorm.DB) error {
	log.Println("Starting migrations...")

	if db.Dialector.Name() == "postgres" {
		// Create postgres extension for uuid
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
			return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
		}
	}

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&models.Favourite{},
		&models.AppLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := AddLogContextIndexes(db); err != nil {
		return fmt.Errorf("failed to add log context indexes: %w", err)
	}

	log.Println("Migrations completed successfully!")
	return nil
}

// ResetDatabase drops every table owned by the roster
func ResetDatabase(db *gorm.DB) error {
	log.Println("Resetting database...")

	if err := RollbackLogContextIndexes(db); err != nil {
		return err
	}
	if err := db.Migrator().DropTable(&models.Favourite{}, &models.AppLog{}); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	log.Println("Database reset successfully")
	return nil
}

package main

import (
	"flag"
	"log"

	"github.com/latoulicious/umaroster/internal/config"
	"github.com/latoulicious/umaroster/pkg/database"
	"github.com/latoulicious/umaroster/pkg/database/migration"
)

func main() {
	// Parse the command line arguments
	migrateFlag := flag.Bool("migrate", false, "Run the migrations")
	resetFlag := flag.Bool("reset", false, "Drop the favourites and log tables first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if !cfg.UsesSQL() {
		log.Fatalf("Favourites backend %q has no schema to migrate", cfg.Favourites.Backend)
	}

	db, err := database.NewGormDBFromConfig(cfg.Favourites.Backend, cfg.Favourites.DatabaseURL, cfg.Favourites.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	manager := database.NewDatabaseManager(db)
	defer manager.Close()
	log.Printf("Connected to %s database", manager.Dialect())

	// Reset Flag
	if *resetFlag {
		log.Println("Resetting database...")

		if err := migration.ResetDatabase(db); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}

		log.Println("Database reset successfully")
	}

	// Schema Flag
	if *migrateFlag || *resetFlag {
		log.Println("Running migrations...")

		if err := migration.RunMigration(db); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}

		log.Println("Migrations completed successfully")
		return
	}

	log.Println("Nothing to do; pass -migrate or -reset")
}

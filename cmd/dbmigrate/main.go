package main

import (
	"flag"
	"fmt"
	"log"

	"gorm.io/gorm"

	"tg-warn/internal/config"
	"tg-warn/internal/models"
	"tg-warn/internal/storage"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	action := flag.String("action", "migrate", "Action to perform (migrate, reset, status)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if !cfg.Database.Enabled {
		log.Fatalf("Database is not enabled in configuration")
	}

	if err := storage.Initialize(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	db := storage.GetDB()
	if db == nil {
		log.Fatalf("Failed to get database connection")
	}

	switch *action {
	case "migrate":
		fmt.Println("Migrating database...")
		if err := storage.Migrate(db); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("Migration completed successfully")
	case "reset":
		if err := resetDatabase(db); err != nil {
			log.Fatalf("Reset failed: %v", err)
		}
		log.Println("Database reset completed successfully")
	case "status":
		checkStatus(db)
	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// tables lists the models owned by the bot
var tables = []struct {
	name  string
	model interface{}
}{
	{"ModerationRecord", &models.ModerationRecord{}},
	{"PendingMessage", &models.PendingMessage{}},
}

// resetDatabase drops the tables and recreates them
func resetDatabase(db *gorm.DB) error {
	fmt.Println("Resetting database...")

	fmt.Print("WARNING: This will delete all data! Are you sure? (y/N): ")
	var confirmation string
	fmt.Scanln(&confirmation)

	if confirmation != "y" && confirmation != "Y" {
		return fmt.Errorf("operation cancelled by user")
	}

	for _, table := range tables {
		if err := db.Migrator().DropTable(table.model); err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table.name, err)
		}
	}

	return storage.Migrate(db)
}

func checkStatus(db *gorm.DB) {
	fmt.Println("Checking database status...")

	for _, table := range tables {
		if !db.Migrator().HasTable(table.model) {
			fmt.Printf("❌ %s table does not exist\n", table.name)
			continue
		}

		var count int64
		db.Model(table.model).Count(&count)
		fmt.Printf("✅ %s table exists\n", table.name)
		fmt.Printf("   - Contains %d records\n", count)
	}
}

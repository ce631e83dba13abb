package main

import (
	"log"

	"requirements-assistant-be/internal/config"
	"requirements-assistant-be/internal/model"
	"requirements-assistant-be/pkg/database"
)

func main() {
	// 1. Load Configuration (.env + process env)
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.Open(cfg.Database.Driver, cfg.Database.Connection)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	if cfg.Database.Driver == "" || cfg.Database.Driver == "postgres" {
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
			log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
		}
	}

	models := model.All()
	log.Printf("Running AutoMigrate for %d tables...", len(models))
	if err := database.Migrate(db, models...); err != nil {
		log.Fatalf("Error: %v", err)
	}

	// Snapshot lookups always filter by project and sort by recency
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_conversation_states_project_updated ON conversation_states (project_id, last_updated DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_project_timestamp ON chat_messages (project_id, timestamp);`,
		`CREATE INDEX IF NOT EXISTS idx_requirements_project_number ON requirements (project_id, number);`,
	}
	for _, sql := range indexes {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to create index: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}

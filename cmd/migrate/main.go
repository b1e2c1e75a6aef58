package main

import (
	"log"

	"github.com/Arrties/backend/internal/config"
	"github.com/Arrties/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	allModels := []interface{}{
		&models.Member{},
		&models.Auction{},
		&models.ArtWork{},
		&models.ArtWorkImage{},
		&models.Bidding{},
		&models.Notification{},
	}

	for _, model := range allModels {
		log.Printf("Migrating %T", model)
		if err := db.AutoMigrate(model); err != nil {
			log.Fatalf("Failed to migrate %T: %v", model, err)
		}
	}

	// At most one auction may hold PROCESSING at a time.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_auctions_single_processing ON auctions (status) WHERE status = 'PROCESSING'`).Error; err != nil {
		log.Fatalf("Failed to create single-processing index: %v", err)
	}

	log.Println("Migration completed successfully")
}

package database

import (
	"fmt"
	"log"

	"github.com/Arrties/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect establishes a connection to the PostgreSQL database
func Connect(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Error),
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
	})

	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Println("Database connection established successfully")
	return nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate() error {
	allModels := []interface{}{
		&models.Member{},
		&models.Auction{},
		&models.ArtWork{},
		&models.ArtWorkImage{},
		&models.Bidding{},
		&models.Notification{},
	}

	for _, model := range allModels {
		if err := DB.AutoMigrate(model); err != nil {
			log.Printf("Warning: migration issue for %T: %v", model, err)
		}
	}

	// At most one auction may hold PROCESSING; the index makes the second
	// committer fail instead of leaving two running auctions.
	if err := DB.Exec(singleProcessingIndex).Error; err != nil {
		return fmt.Errorf("failed to create single-processing index: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

const singleProcessingIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_auctions_single_processing ON auctions (status) WHERE status = 'PROCESSING'`

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

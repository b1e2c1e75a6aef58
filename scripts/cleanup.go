package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// One-off maintenance tool: purges notifications older than 90 days and
// biddings belonging to terminated auctions older than a year.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		dbHost, dbPort, dbUser, dbPassword, dbName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("Connected to database successfully")

	result, err := db.Exec(`
		DELETE FROM notifications
		WHERE created_at < NOW() - INTERVAL '90 days'
	`)
	if err != nil {
		log.Fatalf("Failed to delete old notifications: %v", err)
	}
	rows, _ := result.RowsAffected()
	log.Printf("Deleted %d old notifications", rows)

	result, err = db.Exec(`
		DELETE FROM biddings
		WHERE art_work_id IN (
			SELECT aw.id FROM art_works aw
			JOIN auctions a ON a.id = aw.auction_id
			WHERE a.status = 'TERMINATED'
			AND a.end_date < NOW() - INTERVAL '1 year'
		)
		AND id NOT IN (
			SELECT winning_bid_id FROM art_works WHERE winning_bid_id IS NOT NULL
		)
	`)
	if err != nil {
		log.Fatalf("Failed to delete old biddings: %v", err)
	}
	rows, _ = result.RowsAffected()
	log.Printf("Deleted %d old biddings", rows)

	log.Println("Cleanup completed")
}

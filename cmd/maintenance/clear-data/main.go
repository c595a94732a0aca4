package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/joho/godotenv"
)

// Operational tables, children first. Hotels and users are kept unless -all is set.
var operationalTables = []string{
	"service_orders",
	"invoice_items",
	"invoices",
	"reservations",
	"guests",
	"audit_logs",
	"refresh_tokens",
}

var setupTables = []string{
	"hotel_services",
	"staff",
	"rooms",
	"users",
	"hotels",
}

func main() {
	var dbURLFlag string
	var all bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&all, "all", false, "also clear rooms, staff, services, users and hotels")
	flag.Parse()

	// Try loading .env from current working directory (optional)
	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	// Build minimal database config without loading full app config
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     5,
		MaxIdleConnections: 2,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	tables := operationalTables
	if all {
		tables = append(append([]string{}, operationalTables...), setupTables...)
	}

	fmt.Println("Connected to database. Truncating tables...")

	truncateSQL := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	if _, err := db.Exec(truncateSQL); err != nil {
		log.Fatalf("failed to truncate tables: %v", err)
	}

	fmt.Println("Data cleared successfully.")

	fmt.Println("Post-clear row counts:")
	for _, t := range tables {
		var count int
		if err := db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", t)).Scan(&count); err != nil {
			fmt.Printf("  %s: error: %v\n", t, err)
			continue
		}
		fmt.Printf("  %s: %d\n", t, count)
	}
}

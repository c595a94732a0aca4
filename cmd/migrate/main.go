package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/migrations"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	var dbURLFlag string
	var list bool
	flag.StringVar(&dbURLFlag, "database-url", "", "PostgreSQL connection string (overrides DATABASE_URL)")
	flag.BoolVar(&list, "list", false, "print embedded migrations and exit")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if list {
		names, err := migrations.Names()
		if err != nil {
			logger.Fatalf("Failed to read migrations: %v", err)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	_ = godotenv.Load()

	dbURL := dbURLFlag
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set and -database-url was not provided")
	}

	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                dbURL,
		MaxConnections:     2,
		MaxIdleConnections: 1,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	applied, err := migrations.Apply(ctx, db.DB, logger)
	if err != nil {
		logger.Fatalf("Migration failed after %d file(s): %v", applied, err)
	}
	logger.WithField("applied", applied).Info("Database schema is up to date")
}

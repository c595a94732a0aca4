package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/models"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/hotelsuite/pms-backend/internal/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	var fixturePath, password string
	var force bool
	flag.StringVar(&fixturePath, "fixture", "", "YAML fixture to load instead of the built-in one")
	flag.StringVar(&password, "password", os.Getenv("SEED_PASSWORD"), "password for every seeded user (generated when empty)")
	flag.BoolVar(&force, "force", false, "seed even when users already exist")
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	data := defaultFixture
	if fixturePath != "" {
		if data, err = os.ReadFile(fixturePath); err != nil {
			logger.Fatalf("Failed to read fixture: %v", err)
		}
	}
	fx, err := parseFixture(data)
	if err != nil {
		logger.Fatal(err)
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users := database.NewUserRepository(db.DB)
	existing, err := users.Count(ctx)
	if err != nil {
		logger.Fatalf("Failed to count users: %v", err)
	}
	if existing > 0 && !force {
		logger.WithField("users", existing).Info("Database already seeded, pass -force to seed anyway")
		return
	}

	if password == "" {
		if password, err = utils.GenerateSecret(8); err != nil {
			logger.Fatal(err)
		}
		logger.WithField("password", password).Warn("Generated password for seeded users, change it after first login")
	}
	hash, err := services.HashPassword(password, cfg.Security.BcryptCost)
	if err != nil {
		logger.Fatalf("Failed to hash password: %v", err)
	}

	hotels := database.NewHotelRepository(db.DB)
	rooms := database.NewRoomRepository(db.DB)
	staff := database.NewStaffRepository(db.DB)
	catalog := database.NewServiceRepository(db.DB)

	err = database.NewTransactor(db.DB).WithTx(ctx, func(ctx context.Context) error {
		hotel := fx.hotel()
		if err := hotels.Create(ctx, hotel); err != nil {
			return err
		}
		for _, u := range fx.Users {
			if err := users.Create(ctx, &models.User{
				HotelID:      &hotel.ID,
				Email:        u.Email,
				PasswordHash: hash,
				FullName:     u.FullName,
				Role:         u.Role,
				IsActive:     true,
			}); err != nil {
				return err
			}
		}
		for _, room := range fx.rooms(hotel.ID) {
			room := room
			if err := rooms.Create(ctx, &room); err != nil {
				return err
			}
		}
		for _, member := range fx.staff(hotel.ID, time.Now().Truncate(24*time.Hour)) {
			member := member
			if err := staff.Create(ctx, &member); err != nil {
				return err
			}
		}
		for _, svc := range fx.services(hotel.ID) {
			svc := svc
			if err := catalog.CreateService(ctx, &svc); err != nil {
				return err
			}
		}
		logger.WithField("hotel_id", hotel.ID).Info("Hotel created")
		return nil
	})
	if err != nil {
		logger.Fatalf("Seeding failed: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"users":    len(fx.Users),
		"rooms":    len(fx.Rooms),
		"staff":    len(fx.Staff),
		"services": len(fx.Services),
	}).Info("Seed data loaded")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hotelsuite/pms-backend/internal/cache"
	"github.com/hotelsuite/pms-backend/internal/clock"
	"github.com/hotelsuite/pms-backend/internal/config"
	"github.com/hotelsuite/pms-backend/internal/database"
	"github.com/hotelsuite/pms-backend/internal/handlers"
	"github.com/hotelsuite/pms-backend/internal/services"
	"github.com/hotelsuite/pms-backend/migrations"
	"github.com/hotelsuite/pms-backend/pkg/jwt"
	"github.com/hotelsuite/pms-backend/pkg/sms"
	"github.com/hotelsuite/pms-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting hotel property management backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	if err := validator.RegisterGinBindings(); err != nil {
		logger.Fatalf("Failed to register request validators: %v", err)
	}

	// Initialize database connection
	logger.WithField("url", database.MaskPassword(cfg.Database.URL)).Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Server.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		applied, err := migrations.Apply(ctx, db.DB, logger)
		cancel()
		if err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
		logger.WithField("applied", applied).Info("Migrations up to date")
	}

	// Dashboard cache
	var dashboardCache cache.Cache = cache.Noop{}
	if cfg.Cache.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisCache, err := cache.NewRedis(ctx, cfg.Cache)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, dashboard caching disabled")
		} else {
			dashboardCache = redisCache
			logger.Info("Redis dashboard cache enabled")
		}
	}
	defer dashboardCache.Close()

	// SMS gateway
	var smsGateway sms.Gateway
	if cfg.SMS.Mode == "production" {
		smsGateway = sms.NewURLGateway(cfg.SMS.GatewayURL, cfg.SMS.APIKey, cfg.SMS.Sender, logger)
		logger.Info("SMS gateway initialized in production mode")
	} else {
		smsGateway = sms.NewLogGateway(logger)
		logger.Info("SMS gateway in development mode (messages are logged, not sent)")
	}

	mailer := services.NewMailer(cfg.Mail)
	if mailer == nil {
		logger.Info("SMTP not configured, confirmation emails disabled")
	}

	// Repositories
	sqlxDB := db.DB
	roomRepository := database.NewRoomRepository(sqlxDB)
	reservationRepository := database.NewReservationRepository(sqlxDB)
	guestRepository := database.NewGuestRepository(sqlxDB)
	invoiceRepository := database.NewInvoiceRepository(sqlxDB)
	serviceRepository := database.NewServiceRepository(sqlxDB)
	staffRepository := database.NewStaffRepository(sqlxDB)
	userRepository := database.NewUserRepository(sqlxDB)
	refreshTokenRepository := database.NewRefreshTokenRepository(sqlxDB)
	hotelRepository := database.NewHotelRepository(sqlxDB)
	auditRepository := database.NewAuditRepository(sqlxDB)
	analyticsRepository := database.NewAnalyticsRepository(sqlxDB)
	loginAttemptRepository := database.NewLoginAttemptRepository(sqlxDB)

	// Services
	logger.Info("Initializing services...")
	hotelClock := clock.NewSystem(cfg.Booking.Location())
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	auditService := services.NewAuditService(auditRepository, cfg.Security.EnableAuditLog, hotelClock, logger)
	notificationService := services.NewNotificationService(smsGateway, mailer, cfg.Mail.From, cfg.Booking.HotelName, logger)
	invoiceService := services.NewInvoiceService(
		invoiceRepository, reservationRepository, serviceRepository, auditService, hotelClock, cfg.Booking, logger,
	)
	reservationService := services.NewReservationService(
		roomRepository,
		reservationRepository,
		guestRepository,
		invoiceService,
		notificationService,
		auditService,
		hotelClock,
		cfg.Booking,
		logger,
	)
	loginThrottle := services.NewLoginThrottle(
		loginAttemptRepository, services.RateLimitConfigFrom(cfg.Security), hotelClock, logger,
	)
	authService := services.NewAuthService(userRepository, refreshTokenRepository, jwtService, auditService, hotelClock, logger).
		WithThrottle(loginThrottle)
	roomService := services.NewRoomService(roomRepository, auditService, logger)
	guestService := services.NewGuestService(guestRepository, reservationRepository)
	catalogService := services.NewCatalogService(serviceRepository, reservationRepository, hotelClock, logger)
	staffService := services.NewStaffService(staffRepository, auditService)
	hotelService := services.NewHotelProfileService(hotelRepository)
	analyticsService := services.NewAnalyticsService(
		analyticsRepository, reservationRepository, dashboardCache, cfg.Cache.AnalyticsCacheTTL, hotelClock, logger,
	)

	// Scheduled jobs
	var cronService *services.CronService
	if cfg.Cron.Enabled {
		cronService = services.NewCronService(
			invoiceService,
			roomRepository,
			auditService,
			authService,
			cfg.Cron.AuditRetentionDays,
			cfg.Booking.Location(),
			hotelClock,
			logger,
		)
		if err := cronService.Start(); err != nil {
			logger.Fatalf("Failed to start cron service: %v", err)
		}
	} else {
		logger.Info("Cron service disabled")
	}
	logger.Info("Services initialized")

	router := setupRouter(cfg, logger, db, jwtService, routeHandlers{
		auth:         handlers.NewAuthHandler(authService, logger),
		rooms:        handlers.NewRoomHandler(roomService, reservationService, analyticsService, logger),
		reservations: handlers.NewReservationHandler(reservationService, analyticsService, logger),
		guests:       handlers.NewGuestHandler(guestService, logger),
		invoices:     handlers.NewInvoiceHandler(invoiceService, analyticsService, logger),
		services:     handlers.NewServiceHandler(catalogService, logger),
		staff:        handlers.NewStaffHandler(staffService, logger),
		hotel:        handlers.NewHotelHandler(hotelService, analyticsService, logger),
		admin:        handlers.NewAdminHandler(cronService, logger),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	if cronService != nil {
		cronService.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

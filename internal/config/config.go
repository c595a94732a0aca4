package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Security SecurityConfig
	Booking  BookingConfig
	Cache    CacheConfig
	SMS      SMSConfig
	Mail     MailConfig
	Cron     CronConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
	AutoMigrate bool
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	URL                string
	MaxConnections     int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret             string
	RefreshSecret      string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	BcryptCost     int
	EnableAuditLog bool

	// Failed logins allowed per email within LoginWindow, and per IP within LoginIPWindow
	LoginMaxAttempts   int
	LoginWindow        time.Duration
	LoginMaxIPAttempts int
	LoginIPWindow      time.Duration
}

// BookingConfig holds reservation and billing policy
type BookingConfig struct {
	HotelName               string
	Timezone                string
	AllowCancelAfterCheckIn bool
	TaxRatePercent          float64
	InvoiceDueDays          int
	ConflictRetries         int
}

// Location resolves the hotel's timezone, falling back to UTC
func (b BookingConfig) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CacheConfig holds the optional Redis cache configuration
type CacheConfig struct {
	RedisURL          string
	RedisPassword     string
	RedisDB           int
	AnalyticsCacheTTL time.Duration
}

// Enabled reports whether a Redis URL was configured
func (c CacheConfig) Enabled() bool {
	return c.RedisURL != ""
}

// SMSConfig holds SMS gateway configuration
type SMSConfig struct {
	Mode       string // "dev" logs messages, "production" sends them
	GatewayURL string
	APIKey     string
	Sender     string
}

// MailConfig holds SMTP configuration for guest emails
type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether SMTP is configured
func (m MailConfig) Enabled() bool {
	return m.Host != ""
}

// CronConfig toggles the scheduled jobs
type CronConfig struct {
	Enabled            bool
	AuditRetentionDays int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			AutoMigrate: getEnvAsBool("AUTO_MIGRATE", false),
		},
		Database: DatabaseConfig{
			URL:                getEnv("DATABASE_URL", ""),
			MaxConnections:     getEnvAsInt("DATABASE_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("DATABASE_MAX_IDLE_CONNECTIONS", 5),
			ConnMaxLifetime:    time.Duration(getEnvAsInt("DATABASE_CONN_MAX_LIFETIME", 300)) * time.Second,
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", ""),
			RefreshSecret:      getEnv("JWT_REFRESH_SECRET", ""),
			AccessTokenExpiry:  time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 3600)) * time.Second,
			RefreshTokenExpiry: time.Duration(getEnvAsInt("JWT_REFRESH_TOKEN_EXPIRY", 604800)) * time.Second,
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
		Security: SecurityConfig{
			BcryptCost:     getEnvAsInt("BCRYPT_COST", 12),
			EnableAuditLog: getEnvAsBool("ENABLE_AUDIT_LOGGING", true),

			LoginMaxAttempts:   getEnvAsInt("LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:        time.Duration(getEnvAsInt("LOGIN_ATTEMPT_WINDOW", 900)) * time.Second,
			LoginMaxIPAttempts: getEnvAsInt("LOGIN_MAX_IP_ATTEMPTS", 20),
			LoginIPWindow:      time.Duration(getEnvAsInt("LOGIN_IP_WINDOW", 3600)) * time.Second,
		},
		Booking: BookingConfig{
			HotelName:               getEnv("HOTEL_NAME", "Our Hotel"),
			Timezone:                getEnv("HOTEL_TIMEZONE", "Asia/Kolkata"),
			AllowCancelAfterCheckIn: getEnvAsBool("ALLOW_CANCEL_AFTER_CHECKIN", false),
			TaxRatePercent:          getEnvAsFloat("TAX_RATE_PERCENT", 12),
			InvoiceDueDays:          getEnvAsInt("INVOICE_DUE_DAYS", 7),
			ConflictRetries:         getEnvAsInt("BOOKING_CONFLICT_RETRIES", 1),
		},
		Cache: CacheConfig{
			RedisURL:          getEnv("REDIS_URL", ""),
			RedisPassword:     getEnv("REDIS_PASSWORD", ""),
			RedisDB:           getEnvAsInt("REDIS_DB", 0),
			AnalyticsCacheTTL: time.Duration(getEnvAsInt("ANALYTICS_CACHE_TTL", 60)) * time.Second,
		},
		SMS: SMSConfig{
			Mode:       getEnv("SMS_MODE", "dev"),
			GatewayURL: getEnv("SMS_GATEWAY_URL", ""),
			APIKey:     getEnv("SMS_API_KEY", ""),
			Sender:     getEnv("SMS_SENDER", "HOTEL"),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", ""),
		},
		Cron: CronConfig{
			Enabled:            getEnvAsBool("CRON_ENABLED", true),
			AuditRetentionDays: getEnvAsInt("AUDIT_RETENTION_DAYS", 180),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if c.JWT.RefreshSecret == "" {
		return fmt.Errorf("JWT_REFRESH_SECRET is required")
	}

	if _, err := time.LoadLocation(c.Booking.Timezone); err != nil {
		return fmt.Errorf("invalid HOTEL_TIMEZONE %q: %w", c.Booking.Timezone, err)
	}

	if c.Booking.TaxRatePercent < 0 || c.Booking.TaxRatePercent > 100 {
		return fmt.Errorf("TAX_RATE_PERCENT must be between 0 and 100")
	}

	if c.Booking.InvoiceDueDays < 0 {
		return fmt.Errorf("INVOICE_DUE_DAYS cannot be negative")
	}

	// SMS gateway details are only needed when messages are really sent
	if c.SMS.Mode == "production" {
		if c.SMS.GatewayURL == "" {
			return fmt.Errorf("SMS_GATEWAY_URL is required in production SMS mode")
		}
		if c.SMS.APIKey == "" {
			return fmt.Errorf("SMS_API_KEY is required in production SMS mode")
		}
	}

	if c.Mail.Enabled() && c.Mail.From == "" {
		return fmt.Errorf("SMTP_FROM is required when SMTP_HOST is set")
	}

	return nil
}

// Helper functions to get environment variables

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Invalid boolean value for %s, using default: %t", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}

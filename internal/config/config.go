package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage drivers
const (
	StorageLocal = "local"
	StorageDrive = "drive"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string
	LogLevel    string

	// Database
	DatabaseURL string

	// JWT. Admin and company-user realms sign with different secrets.
	JWTSecret          string
	UserJWTSecret      string
	JWTExpirationHours int

	// Tenants served by /api/:tenant routes
	Tenants []string

	// Storage
	StorageDriver        string
	StoragePath          string
	DriveCredentialsFile string
	DriveFolders         map[string]string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Email (Resend)
	ResendAPIKey       string
	FromEmail          string
	ReminderRecipients []string
	ReminderCron       string

	// Remote token verification (hrctl / guard clients)
	VerifyTimeout time.Duration

	// Sentry
	SentryDSN string
}

// DefaultTenants is used when TENANTS is not set
var DefaultTenants = []string{
	"elnusa",
	"umran",
	"pertamina-regional1",
	"pertamina-regional2",
	"pertamina-regional3",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		UserJWTSecret:        getEnv("USER_JWT_SECRET", ""),
		JWTExpirationHours:   getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		Tenants:              getEnvAsSlice("TENANTS", DefaultTenants),
		StorageDriver:        getEnv("STORAGE_DRIVER", StorageLocal),
		StoragePath:          getEnv("STORAGE_PATH", "./storage"),
		DriveCredentialsFile: getEnv("DRIVE_CREDENTIALS_FILE", ""),
		DriveFolders: map[string]string{
			"documents":    getEnv("DRIVE_FOLDER_DOCUMENTS", ""),
			"certificates": getEnv("DRIVE_FOLDER_CERTIFICATES", ""),
			"dashboard":    getEnv("DRIVE_FOLDER_DASHBOARD", ""),
		},
		WorkerCount:        getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:     getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		FromEmail:          getEnv("FROM_EMAIL", "noreply@vendorhr.id"),
		ReminderRecipients: getEnvAsSlice("REMINDER_RECIPIENTS", nil),
		ReminderCron:       getEnv("REMINDER_CRON", "0 7 * * *"),
		VerifyTimeout:      time.Duration(getEnvAsInt("VERIFY_TIMEOUT_SECONDS", 10)) * time.Second,
		SentryDSN:          getEnv("SENTRY_DSN", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Set default JWT secrets for development
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-admin-secret-change-in-production"
	}
	if cfg.UserJWTSecret == "" {
		cfg.UserJWTSecret = "dev-user-secret-change-in-production"
	}

	return cfg, nil
}

// Validate checks required configuration
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Environment == "production" && (c.JWTSecret == "" || c.UserJWTSecret == "") {
		return fmt.Errorf("JWT_SECRET and USER_JWT_SECRET are required in production")
	}

	if c.JWTSecret != "" && c.JWTSecret == c.UserJWTSecret {
		return fmt.Errorf("JWT_SECRET and USER_JWT_SECRET must differ")
	}

	switch c.StorageDriver {
	case StorageLocal:
	case StorageDrive:
		if c.DriveCredentialsFile == "" {
			return fmt.Errorf("DRIVE_CREDENTIALS_FILE is required when STORAGE_DRIVER=drive")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	if len(c.Tenants) == 0 {
		return fmt.Errorf("at least one tenant must be configured")
	}
	return nil
}

// HasTenant reports whether slug is a configured tenant
func (c *Config) HasTenant(slug string) bool {
	for _, t := range c.Tenants {
		if t == slug {
			return true
		}
	}
	return false
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

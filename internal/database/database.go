package database

import (
	"fmt"
	"time"

	"github.com/mitrahse/vendorhr-api/internal/models"
	pkgLogger "github.com/mitrahse/vendorhr-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the PostgreSQL database
func Connect(databaseURL, environment string) (*gorm.DB, error) {
	logLevel := logger.Warn
	if environment == "development" {
		logLevel = logger.Info
	}

	gormLogger := pkgLogger.NewGormLogger(
		logLevel,
		200*time.Millisecond,
	)

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Models lists every table the service owns, in dependency order
func Models() []any {
	return []any{
		&models.Account{},
		&models.AccountUser{},
		&models.RefreshToken{},
		&models.Employee{},
		&models.EmployeeHistory{},
		&models.Attachment{},
		&models.DashboardContent{},
		&models.AuditLog{},
	}
}

// Migrate creates or updates the schema of all models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	// employee numbers are unique per tenant among live rows
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_tenant_number
		ON employees (tenant, nomor_induk) WHERE nomor_induk IS NOT NULL AND discarded_at IS NULL`).Error; err != nil {
		return fmt.Errorf("failed to create employee number index: %w", err)
	}
	return nil
}

package repository

import (
	"context"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"gorm.io/gorm"
)

// HistoryRepository defines the interface for employee history data access
type HistoryRepository interface {
	Create(ctx context.Context, entry *models.EmployeeHistory) error
	ListByEmployee(ctx context.Context, tenant string, employeeID uint, domain string) ([]models.EmployeeHistory, error)
}

type historyRepository struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepository{db: db}
}

func (r *historyRepository) Create(ctx context.Context, entry *models.EmployeeHistory) error {
	return conn(ctx, r.db).Create(entry).Error
}

func (r *historyRepository) ListByEmployee(ctx context.Context, tenant string, employeeID uint, domain string) ([]models.EmployeeHistory, error) {
	var entries []models.EmployeeHistory
	db := r.db.WithContext(ctx).Where("tenant = ? AND employee_id = ?", tenant, employeeID)
	if domain != "" {
		db = db.Where("domain = ?", domain)
	}
	err := db.Order("created_at DESC, id DESC").Find(&entries).Error
	return entries, err
}

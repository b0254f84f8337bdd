package repository

import (
	"context"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"gorm.io/gorm"
)

// DashboardRepository defines the interface for dashboard content
type DashboardRepository interface {
	FindByID(ctx context.Context, id uint) (*models.DashboardContent, error)
	ListActive(ctx context.Context) ([]models.DashboardContent, error)
	ListAll(ctx context.Context) ([]models.DashboardContent, error)
	Create(ctx context.Context, content *models.DashboardContent) error
	Update(ctx context.Context, content *models.DashboardContent) error
	Delete(ctx context.Context, id uint) error
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) FindByID(ctx context.Context, id uint) (*models.DashboardContent, error) {
	var content models.DashboardContent
	if err := r.db.WithContext(ctx).First(&content, id).Error; err != nil {
		return nil, err
	}
	return &content, nil
}

func (r *dashboardRepository) ListActive(ctx context.Context) ([]models.DashboardContent, error) {
	var list []models.DashboardContent
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *dashboardRepository) ListAll(ctx context.Context) ([]models.DashboardContent, error) {
	var list []models.DashboardContent
	err := r.db.WithContext(ctx).Order("sort_order ASC, id ASC").Find(&list).Error
	return list, err
}

func (r *dashboardRepository) Create(ctx context.Context, content *models.DashboardContent) error {
	return r.db.WithContext(ctx).Create(content).Error
}

func (r *dashboardRepository) Update(ctx context.Context, content *models.DashboardContent) error {
	return r.db.WithContext(ctx).Save(content).Error
}

func (r *dashboardRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.DashboardContent{}, id).Error
}

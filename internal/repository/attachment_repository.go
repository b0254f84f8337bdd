package repository

import (
	"context"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"gorm.io/gorm"
)

// AttachmentRepository defines the interface for attachment metadata
type AttachmentRepository interface {
	FindByID(ctx context.Context, tenant string, employeeID, id uint) (*models.Attachment, error)
	ListByEmployee(ctx context.Context, tenant string, employeeID uint) ([]models.Attachment, error)
	Create(ctx context.Context, attachment *models.Attachment) error
	Delete(ctx context.Context, id uint) error
}

type attachmentRepository struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) FindByID(ctx context.Context, tenant string, employeeID, id uint) (*models.Attachment, error) {
	var a models.Attachment
	err := r.db.WithContext(ctx).
		Where("tenant = ? AND employee_id = ?", tenant, employeeID).
		First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *attachmentRepository) ListByEmployee(ctx context.Context, tenant string, employeeID uint) ([]models.Attachment, error) {
	var list []models.Attachment
	err := r.db.WithContext(ctx).
		Where("tenant = ? AND employee_id = ?", tenant, employeeID).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *attachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *attachmentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Attachment{}, id).Error
}

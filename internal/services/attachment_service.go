package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/storage"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
	"gorm.io/gorm"
)

// AttachmentService stores employee documents and certificates
type AttachmentService struct {
	repo      repository.AttachmentRepository
	employees *EmployeeService
	store     storage.FileStore
	audit     *AuditService
}

func NewAttachmentService(repo repository.AttachmentRepository, employees *EmployeeService, store storage.FileStore, audit *AuditService) *AttachmentService {
	return &AttachmentService{
		repo:      repo,
		employees: employees,
		store:     store,
		audit:     audit,
	}
}

// UploadInput is one uploaded employee file
type UploadInput struct {
	Category string
	FileName string
	Body     io.Reader
}

// Upload validates and stores a file for an employee
func (s *AttachmentService) Upload(ctx context.Context, tenant string, employeeID uint, in UploadInput, actor Actor) (*models.Attachment, error) {
	category := in.Category
	if category == "" {
		category = models.CategoryDocuments
	}
	if category == models.CategoryDashboard || !models.IsValidCategory(category) {
		return nil, invalid("category", "kategori harus documents atau certificates")
	}

	employee, err := s.employees.Get(ctx, tenant, employeeID)
	if err != nil {
		return nil, err
	}

	data, err := storage.ReadLimited(in.Body)
	if err != nil {
		return nil, fileError(err)
	}
	contentType, err := storage.Validate(data, storage.ValidContentTypes())
	if err != nil {
		return nil, fileError(err)
	}

	name := cleanFileName(in.FileName)
	obj, err := s.store.Upload(ctx, category, name, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	attachment := &models.Attachment{
		Tenant:      tenant,
		EmployeeID:  employee.ID,
		Category:    category,
		FileName:    name,
		StorageKey:  obj.Key,
		Driver:      s.store.Driver(),
		ContentType: contentType,
		Size:        obj.Size,
		UploadedBy:  actor.Label(),
	}
	if err := s.repo.Create(ctx, attachment); err != nil {
		// don't leave an orphan behind
		if delErr := s.store.Delete(ctx, obj.Key); delErr != nil {
			logger.FromContext(ctx).Warn("Failed to remove orphaned upload", "key", obj.Key, "error", delErr)
		}
		return nil, err
	}

	s.audit.Log(ctx, actor, AuditUpload, "Attachment", attachment.ID, map[string]any{
		"employee_id": employee.ID,
		"category":    category,
		"file_name":   name,
		"size":        attachment.Size,
	})
	return attachment, nil
}

// List returns the files of an employee
func (s *AttachmentService) List(ctx context.Context, tenant string, employeeID uint) ([]models.Attachment, error) {
	if _, err := s.employees.Get(ctx, tenant, employeeID); err != nil {
		return nil, err
	}
	return s.repo.ListByEmployee(ctx, tenant, employeeID)
}

// Open returns the file content together with its metadata
func (s *AttachmentService) Open(ctx context.Context, tenant string, employeeID, id uint) (io.ReadCloser, *models.Attachment, error) {
	attachment, err := s.find(ctx, tenant, employeeID, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Open(ctx, attachment.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rc, attachment, nil
}

// Delete removes the stored file and its metadata
func (s *AttachmentService) Delete(ctx context.Context, tenant string, employeeID, id uint, actor Actor) error {
	attachment, err := s.find(ctx, tenant, employeeID, id)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, attachment.StorageKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	if err := s.repo.Delete(ctx, attachment.ID); err != nil {
		return err
	}

	s.audit.Log(ctx, actor, AuditDelete, "Attachment", attachment.ID, map[string]any{
		"employee_id": employeeID,
		"file_name":   attachment.FileName,
	})
	return nil
}

// StoredFiles lists the objects the file store holds for a category,
// including ones no attachment row points at anymore.
func (s *AttachmentService) StoredFiles(ctx context.Context, category string) ([]storage.Object, error) {
	if !models.IsValidCategory(category) {
		return nil, invalid("category", "kategori tidak dikenal")
	}
	objects, err := s.store.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return objects, nil
}

func (s *AttachmentService) find(ctx context.Context, tenant string, employeeID, id uint) (*models.Attachment, error) {
	if err := s.employees.CheckTenant(tenant); err != nil {
		return nil, err
	}
	attachment, err := s.repo.FindByID(ctx, tenant, employeeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return attachment, nil
}

// fileError maps storage validation failures onto ErrInvalidFile
func fileError(err error) error {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidFileType),
		errors.Is(err, storage.ErrEmptyFile):
		return fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return err
}

func cleanFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == "/" {
		return "file"
	}
	return name
}

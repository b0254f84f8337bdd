package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/repository"
	"github.com/mitrahse/vendorhr-api/internal/storage"
	"github.com/mitrahse/vendorhr-api/pkg/logger"
	"gorm.io/gorm"
)

// DashboardService manages the public dashboard content
type DashboardService struct {
	repo   repository.DashboardRepository
	store  storage.FileStore
	images *ImageService
	audit  *AuditService
}

func NewDashboardService(repo repository.DashboardRepository, store storage.FileStore, images *ImageService, audit *AuditService) *DashboardService {
	return &DashboardService{
		repo:   repo,
		store:  store,
		images: images,
		audit:  audit,
	}
}

// DashboardInput is the writable part of a dashboard item
type DashboardInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Link        *string `json:"link"`
	Active      *bool   `json:"active"`
	SortOrder   *int    `json:"sort_order"`
}

// ListActive returns the published items in display order
func (s *DashboardService) ListActive(ctx context.Context) ([]models.DashboardContent, error) {
	return s.repo.ListActive(ctx)
}

// ListAll returns every item, published or not
func (s *DashboardService) ListAll(ctx context.Context) ([]models.DashboardContent, error) {
	return s.repo.ListAll(ctx)
}

func (s *DashboardService) Get(ctx context.Context, id uint) (*models.DashboardContent, error) {
	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return content, nil
}

func (s *DashboardService) Create(ctx context.Context, in DashboardInput, actor Actor) (*models.DashboardContent, error) {
	content := &models.DashboardContent{Active: true}
	if err := applyDashboard(content, in); err != nil {
		return nil, err
	}
	if content.Title == "" {
		return nil, invalid("title", "judul wajib diisi")
	}
	if err := s.repo.Create(ctx, content); err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor, AuditCreate, "DashboardContent", content.ID, in)
	return content, nil
}

func (s *DashboardService) Update(ctx context.Context, id uint, in DashboardInput, actor Actor) (*models.DashboardContent, error) {
	content, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyDashboard(content, in); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, content); err != nil {
		return nil, err
	}
	s.audit.Log(ctx, actor, AuditUpdate, "DashboardContent", content.ID, in)
	return content, nil
}

// Delete removes the item and its stored images
func (s *DashboardService) Delete(ctx context.Context, id uint, actor Actor) error {
	content, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeImages(ctx, content.ImageKey, content.ThumbnailKey)
	s.audit.Log(ctx, actor, AuditDelete, "DashboardContent", id, map[string]any{"title": content.Title})
	return nil
}

// UploadImage stores the original image and a thumbnail, replacing any
// previous pair
func (s *DashboardService) UploadImage(ctx context.Context, id uint, fileName string, body io.Reader, actor Actor) (*models.DashboardContent, error) {
	content, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := storage.ReadLimited(body)
	if err != nil {
		return nil, fileError(err)
	}
	contentType, err := storage.Validate(data, storage.ValidImageTypes())
	if err != nil {
		return nil, fileError(err)
	}

	thumb, err := s.images.Thumbnail(data, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	name := cleanFileName(fileName)
	original, err := s.store.Upload(ctx, storage.CategoryDashboard, name, contentType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	thumbnail, err := s.store.Upload(ctx, storage.CategoryDashboard, "thumb_"+name, contentType, bytes.NewReader(thumb))
	if err != nil {
		s.removeImages(ctx, &original.Key)
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	oldImage, oldThumb := content.ImageKey, content.ThumbnailKey
	content.ImageKey = &original.Key
	content.ThumbnailKey = &thumbnail.Key
	if err := s.repo.Update(ctx, content); err != nil {
		s.removeImages(ctx, &original.Key, &thumbnail.Key)
		return nil, err
	}
	s.removeImages(ctx, oldImage, oldThumb)

	s.audit.Log(ctx, actor, AuditUpload, "DashboardContent", id, map[string]any{"file_name": name, "size": len(data)})
	return content, nil
}

// OpenImage streams the original image, or the thumbnail when thumb is set
func (s *DashboardService) OpenImage(ctx context.Context, id uint, thumb bool) (io.ReadCloser, *storage.Object, error) {
	content, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	key := content.ImageKey
	if thumb && content.ThumbnailKey != nil {
		key = content.ThumbnailKey
	}
	if key == nil {
		return nil, nil, ErrNotFound
	}
	rc, obj, err := s.store.Open(ctx, *key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return rc, obj, nil
}

func (s *DashboardService) removeImages(ctx context.Context, keys ...*string) {
	for _, key := range keys {
		if key == nil {
			continue
		}
		if err := s.store.Delete(ctx, *key); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
			logger.FromContext(ctx).Warn("Failed to delete dashboard image", "key", *key, "error", err)
		}
	}
}

func applyDashboard(content *models.DashboardContent, in DashboardInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return invalid("title", "judul wajib diisi")
		}
		content.Title = title
	}
	if in.Description != nil {
		setText(&content.Description, in.Description)
	}
	if in.Link != nil {
		setText(&content.Link, in.Link)
	}
	if in.Active != nil {
		content.Active = *in.Active
	}
	if in.SortOrder != nil {
		content.SortOrder = *in.SortOrder
	}
	return nil
}

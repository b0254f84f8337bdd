// Package storage keeps uploaded files in one of the configured backends.
// Keys are backend-specific and opaque to callers.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Storage errors
var (
	ErrFileTooLarge      = errors.New("ukuran file melebihi batas 10MB")
	ErrInvalidFileType   = errors.New("tipe file tidak didukung")
	ErrUnknownCategory   = errors.New("kategori folder tidak dikenal")
	ErrObjectNotFound    = errors.New("file tidak ditemukan")
	ErrEmptyFile         = errors.New("file kosong")
	ErrFolderUnavailable = errors.New("folder penyimpanan belum dikonfigurasi")
)

// Object describes a stored file
type Object struct {
	Key         string    `json:"key"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// FileStore is implemented by every storage backend
type FileStore interface {
	Driver() string
	Upload(ctx context.Context, category, name, contentType string, r io.Reader) (*Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, *Object, error)
	Info(ctx context.Context, key string) (*Object, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, category string) ([]Object, error)
}

// Category folder names
const (
	CategoryDocuments    = "documents"
	CategoryCertificates = "certificates"
	CategoryDashboard    = "dashboard"
)

func validCategory(category string) bool {
	switch category {
	case CategoryDocuments, CategoryCertificates, CategoryDashboard:
		return true
	}
	return false
}

// MaxFileSize returns the maximum allowed file size (10MB)
func MaxFileSize() int64 {
	return 10 * 1024 * 1024
}

// ValidContentTypes returns allowed MIME types for employee uploads
func ValidContentTypes() map[string]bool {
	return map[string]bool{
		"application/pdf": true,
		"image/jpeg":      true,
		"image/png":       true,
	}
}

// ValidImageTypes returns allowed MIME types for dashboard images
func ValidImageTypes() map[string]bool {
	return map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
	}
}

func normalizeType(contentType string) string {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if ct == "image/jpg" {
		ct = "image/jpeg"
	}
	return ct
}

// Validate checks size and the sniffed content type of data against the
// allowed set and returns the detected type.
func Validate(data []byte, allowed map[string]bool) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyFile
	}
	if int64(len(data)) > MaxFileSize() {
		return "", ErrFileTooLarge
	}
	detected := normalizeType(mimetype.Detect(data).String())
	if !allowed[detected] {
		return "", fmt.Errorf("%w: %s", ErrInvalidFileType, detected)
	}
	return detected, nil
}

// ReadLimited reads r fully, failing with ErrFileTooLarge past MaxFileSize
func ReadLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize()+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxFileSize() {
		return nil, ErrFileTooLarge
	}
	return data, nil
}

// ExtensionFor returns the file extension for a stored object
func ExtensionFor(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		return ext
	}
	switch normalizeType(contentType) {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	}
	return ""
}

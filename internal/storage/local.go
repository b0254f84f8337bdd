package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DriverLocal names the filesystem backend
const DriverLocal = "local"

// LocalStorage handles file storage on the local filesystem
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates a new local storage instance
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Driver returns the backend name
func (s *LocalStorage) Driver() string {
	return DriverLocal
}

// Upload saves r under category/YYYY/MM and returns the stored object
func (s *LocalStorage) Upload(ctx context.Context, category, name, contentType string, r io.Reader) (*Object, error) {
	if !validCategory(category) {
		return nil, ErrUnknownCategory
	}

	dir := filepath.Join(s.basePath, category, time.Now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	filePath := filepath.Join(dir, uuid.NewString()+ExtensionFor(name, contentType))

	dst, err := os.Create(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, r)
	if err != nil {
		os.Remove(filePath)
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return &Object{
		Key:         filepath.ToSlash(relPath),
		Name:        name,
		ContentType: contentType,
		Size:        size,
		CreatedAt:   time.Now(),
	}, nil
}

// Open returns the file for reading
func (s *LocalStorage) Open(ctx context.Context, key string) (io.ReadCloser, *Object, error) {
	info, err := s.Info(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(s.fullPath(key))
	if err != nil {
		return nil, nil, err
	}
	return f, info, nil
}

// Info returns the metadata of a stored file
func (s *LocalStorage) Info(ctx context.Context, key string) (*Object, error) {
	fi, err := os.Stat(s.fullPath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return s.object(key, fi), nil
}

// Delete removes a file. A missing file is not an error.
func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(s.fullPath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns every file stored under category
func (s *LocalStorage) List(ctx context.Context, category string) ([]Object, error) {
	if !validCategory(category) {
		return nil, ErrUnknownCategory
	}
	root := filepath.Join(s.basePath, category)
	var objects []Object
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(s.basePath, path)
		objects = append(objects, *s.object(filepath.ToSlash(rel), fi))
		return nil
	})
	return objects, err
}

func (s *LocalStorage) fullPath(key string) string {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	return filepath.Join(s.basePath, strings.TrimPrefix(clean, string(filepath.Separator)))
}

func (s *LocalStorage) object(key string, fi fs.FileInfo) *Object {
	return &Object{
		Key:         key,
		Name:        fi.Name(),
		ContentType: mime.TypeByExtension(filepath.Ext(fi.Name())),
		Size:        fi.Size(),
		CreatedAt:   fi.ModTime(),
	}
}

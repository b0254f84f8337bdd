package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// DriverDrive names the Google Drive backend
const DriverDrive = "drive"

const driveFileFields = "id, name, mimeType, size, createdTime"

// DriveStorage stores files in three fixed Google Drive folders, one per
// category. Keys are Drive file ids.
type DriveStorage struct {
	service *drive.Service
	folders map[string]string
}

// NewDriveStorage authenticates with a service-account key file.
// folders maps each category to a Drive folder id.
func NewDriveStorage(ctx context.Context, credentialsFile string, folders map[string]string) (*DriveStorage, error) {
	key, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(key, drive.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("invalid drive credentials: %w", err)
	}
	service, err := drive.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}
	return &DriveStorage{service: service, folders: folders}, nil
}

// Driver returns the backend name
func (s *DriveStorage) Driver() string {
	return DriverDrive
}

func (s *DriveStorage) folder(category string) (string, error) {
	if !validCategory(category) {
		return "", ErrUnknownCategory
	}
	id := s.folders[category]
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrFolderUnavailable, category)
	}
	return id, nil
}

// Upload creates a file in the category folder
func (s *DriveStorage) Upload(ctx context.Context, category, name, contentType string, r io.Reader) (*Object, error) {
	folderID, err := s.folder(category)
	if err != nil {
		return nil, err
	}
	f, err := s.service.Files.Create(&drive.File{
		Name:     name,
		MimeType: contentType,
		Parents:  []string{folderID},
	}).
		Media(r, googleapi.ContentType(contentType)).
		Fields(driveFileFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("drive upload failed: %w", err)
	}
	return driveObject(f), nil
}

// Open downloads the file content
func (s *DriveStorage) Open(ctx context.Context, key string) (io.ReadCloser, *Object, error) {
	info, err := s.Info(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	resp, err := s.service.Files.Get(key).SupportsAllDrives(true).Context(ctx).Download()
	if err != nil {
		return nil, nil, mapDriveError(err)
	}
	return resp.Body, info, nil
}

// Info returns the file metadata
func (s *DriveStorage) Info(ctx context.Context, key string) (*Object, error) {
	f, err := s.service.Files.Get(key).
		Fields(driveFileFields).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, mapDriveError(err)
	}
	return driveObject(f), nil
}

// Delete removes the file. A missing file is not an error.
func (s *DriveStorage) Delete(ctx context.Context, key string) error {
	err := s.service.Files.Delete(key).SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		if errors.Is(mapDriveError(err), ErrObjectNotFound) {
			return nil
		}
		return fmt.Errorf("drive delete failed: %w", err)
	}
	return nil
}

// List returns the files in the category folder
func (s *DriveStorage) List(ctx context.Context, category string) ([]Object, error) {
	folderID, err := s.folder(category)
	if err != nil {
		return nil, err
	}

	var objects []Object
	call := s.service.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed = false", folderID)).
		Fields("nextPageToken, files(" + driveFileFields + ")").
		OrderBy("createdTime desc").
		PageSize(100).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true)

	err = call.Pages(ctx, func(page *drive.FileList) error {
		for _, f := range page.Files {
			objects = append(objects, *driveObject(f))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("drive list failed: %w", err)
	}
	return objects, nil
}

func driveObject(f *drive.File) *Object {
	created, _ := time.Parse(time.RFC3339, f.CreatedTime)
	return &Object{
		Key:         f.Id,
		Name:        f.Name,
		ContentType: f.MimeType,
		Size:        f.Size,
		CreatedAt:   created,
	}
}

func mapDriveError(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return ErrObjectNotFound
	}
	return err
}

package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/mitrahse/vendorhr-api/internal/models"
	"github.com/mitrahse/vendorhr-api/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func samplePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 120, 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestAttachmentService() (*AttachmentService, *mockAttachmentRepo, *memoryStore) {
	employees, _, _ := newTestEmployeeService(newMockEmployeeRepo(&models.Employee{Tenant: "elnusa", Name: "Budi"}))
	repo := newMockAttachmentRepo()
	store := newMemoryStore()
	return NewAttachmentService(repo, employees, store, employees.audit), repo, store
}

func TestAttachmentService_UploadOpenDelete(t *testing.T) {
	svc, repo, store := newTestAttachmentService()
	ctx := context.Background()

	a, err := svc.Upload(ctx, "elnusa", 1, UploadInput{
		Category: models.CategoryCertificates,
		FileName: `C:\Users\hr\MCU Budi.pdf`,
		Body:     bytes.NewReader(samplePDF),
	}, admin)
	require.NoError(t, err)
	assert.Equal(t, "MCU Budi.pdf", a.FileName)
	assert.Equal(t, "application/pdf", a.ContentType)
	assert.Equal(t, "memory", a.Driver)
	assert.Equal(t, int64(len(samplePDF)), a.Size)
	assert.Equal(t, "hr-admin", a.UploadedBy)

	list, err := svc.List(ctx, "elnusa", 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	rc, meta, err := svc.Open(ctx, "elnusa", 1, a.ID)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, samplePDF, body)
	assert.Equal(t, a.StorageKey, meta.StorageKey)

	// another employee's path must not reach the file
	_, _, err = svc.Open(ctx, "elnusa", 2, a.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, "elnusa", 1, a.ID, admin))
	assert.Empty(t, repo.items)
	assert.Empty(t, store.objects)
}

func TestAttachmentService_Upload_Rejects(t *testing.T) {
	svc, _, store := newTestAttachmentService()
	ctx := context.Background()

	tests := []struct {
		name string
		in   UploadInput
		err  error
	}{
		{"text file", UploadInput{FileName: "a.pdf", Body: strings.NewReader("just text, not a pdf")}, ErrInvalidFile},
		{"empty", UploadInput{FileName: "a.pdf", Body: bytes.NewReader(nil)}, ErrInvalidFile},
		{"too large", UploadInput{FileName: "a.pdf", Body: bytes.NewReader(make([]byte, storage.MaxFileSize()+1))}, ErrInvalidFile},
		{"dashboard category", UploadInput{Category: models.CategoryDashboard, FileName: "a.pdf", Body: bytes.NewReader(samplePDF)}, ErrValidation},
		{"unknown category", UploadInput{Category: "payroll", FileName: "a.pdf", Body: bytes.NewReader(samplePDF)}, ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, "elnusa", 1, tt.in, admin)
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := svc.Upload(ctx, "elnusa", 42, UploadInput{FileName: "a.pdf", Body: bytes.NewReader(samplePDF)}, admin)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, store.objects)
}

func TestAttachmentService_Upload_RemovesOrphanOnSaveFailure(t *testing.T) {
	svc, repo, store := newTestAttachmentService()
	repo.failSave = true

	_, err := svc.Upload(context.Background(), "elnusa", 1, UploadInput{FileName: "a.png", Body: bytes.NewReader(samplePNG(t, 4, 4))}, admin)
	assert.Error(t, err)
	assert.Empty(t, store.objects)
}

func TestAttachmentService_StoredFiles(t *testing.T) {
	svc, _, store := newTestAttachmentService()
	ctx := context.Background()

	_, err := svc.Upload(ctx, "elnusa", 1, UploadInput{
		Category: models.CategoryCertificates,
		FileName: "mcu.pdf",
		Body:     bytes.NewReader(samplePDF),
	}, admin)
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "elnusa", 1, UploadInput{
		Category: models.CategoryDocuments,
		FileName: "kontrak.pdf",
		Body:     bytes.NewReader(samplePDF),
	}, admin)
	require.NoError(t, err)

	objects, err := svc.StoredFiles(ctx, models.CategoryCertificates)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "mcu.pdf", objects[0].Name)

	empty, err := svc.StoredFiles(ctx, models.CategoryDashboard)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = svc.StoredFiles(ctx, "payroll")
	assert.ErrorIs(t, err, ErrValidation)

	store.listErr = errors.New("drive quota exceeded")
	_, err = svc.StoredFiles(ctx, models.CategoryDocuments)
	assert.ErrorIs(t, err, ErrStorage)
}

func TestDashboardService_ImageUpload(t *testing.T) {
	repo := &mockDashboardRepo{items: map[uint]*models.DashboardContent{}}
	store := newMemoryStore()
	svc := NewDashboardService(repo, store, NewImageService(), nil)
	ctx := context.Background()

	content, err := svc.Create(ctx, DashboardInput{Title: strPtr("Safety Week 2025")}, admin)
	require.NoError(t, err)
	assert.True(t, content.Active)

	_, err = svc.UploadImage(ctx, content.ID, "poster.pdf", bytes.NewReader(samplePDF), admin)
	assert.ErrorIs(t, err, ErrInvalidFile)

	updated, err := svc.UploadImage(ctx, content.ID, "poster.png", bytes.NewReader(samplePNG(t, 640, 480)), admin)
	require.NoError(t, err)
	require.NotNil(t, updated.ImageKey)
	require.NotNil(t, updated.ThumbnailKey)
	assert.Len(t, store.objects, 2)

	rc, _, err := svc.OpenImage(ctx, content.ID, true)
	require.NoError(t, err)
	thumb, _, err := image.Decode(rc)
	_ = rc.Close()
	require.NoError(t, err)
	assert.Equal(t, ThumbnailWidth, thumb.Bounds().Dx())
	assert.Equal(t, ThumbnailHeight, thumb.Bounds().Dy())

	// a second upload replaces the previous pair
	_, err = svc.UploadImage(ctx, content.ID, "poster2.png", bytes.NewReader(samplePNG(t, 100, 100)), admin)
	require.NoError(t, err)
	assert.Len(t, store.objects, 2)

	require.NoError(t, svc.Delete(ctx, content.ID, admin))
	assert.Empty(t, store.objects)
	_, err = svc.Get(ctx, content.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDashboardService_Validation(t *testing.T) {
	repo := &mockDashboardRepo{items: map[uint]*models.DashboardContent{}}
	svc := NewDashboardService(repo, newMemoryStore(), NewImageService(), nil)

	_, err := svc.Create(context.Background(), DashboardInput{}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	content, err := svc.Create(context.Background(), DashboardInput{Title: strPtr("A")}, admin)
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), content.ID, DashboardInput{Title: strPtr("  ")}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	off := false
	updated, err := svc.Update(context.Background(), content.ID, DashboardInput{Active: &off}, admin)
	require.NoError(t, err)
	assert.False(t, updated.Active)
}

func TestDashboardService_DraftStaysUnpublished(t *testing.T) {
	repo := &mockDashboardRepo{items: map[uint]*models.DashboardContent{}}
	svc := NewDashboardService(repo, newMemoryStore(), NewImageService(), nil)
	ctx := context.Background()

	off := false
	draft, err := svc.Create(ctx, DashboardInput{Title: strPtr("Draft"), Active: &off}, admin)
	require.NoError(t, err)
	assert.False(t, draft.Active)
	assert.False(t, repo.items[draft.ID].Active)

	published, err := svc.Create(ctx, DashboardInput{Title: strPtr("Published")}, admin)
	require.NoError(t, err)

	list, err := svc.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, published.ID, list[0].ID)
}

package services

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// Thumbnail bounds for dashboard images
const (
	ThumbnailWidth  = 320
	ThumbnailHeight = 180
)

// ImageService produces thumbnails for uploaded images
type ImageService struct {
	width  int
	height int
}

func NewImageService() *ImageService {
	return &ImageService{width: ThumbnailWidth, height: ThumbnailHeight}
}

// Thumbnail decodes a JPEG/PNG image and returns a cropped thumbnail
// encoded in the same format
func (s *ImageService) Thumbnail(data []byte, contentType string) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("gagal membaca gambar: %w", err)
	}

	thumb := imaging.Fill(img, s.width, s.height, imaging.Center, imaging.Lanczos)

	format := imaging.JPEG
	if contentType == "image/png" {
		format = imaging.PNG
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("gagal menyimpan thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

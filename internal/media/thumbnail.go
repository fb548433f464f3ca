package media

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"path/filepath"
	"sync"
	"time"

	"photo-manager/internal/logging"
	"photo-manager/internal/metrics"

	"github.com/disintegration/imaging"
)

const (
	// ThumbSize is the bounding box for generated thumbnails.
	ThumbSize = 400

	thumbQuality = 85
)

// Generator produces JPEG thumbnails for uploaded images. Thumbnails are
// written once at upload time and served as static files afterwards.
type Generator struct {
	thumbDir string
	mu       sync.Mutex
}

// NewGenerator creates a thumbnail generator writing into thumbDir.
func NewGenerator(thumbDir string) (*Generator, error) {
	if err := os.MkdirAll(thumbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbnail directory: %w", err)
	}
	logging.Debug("thumbnail generator ready, dir: %s", thumbDir)
	return &Generator{thumbDir: thumbDir}, nil
}

// Generate builds the thumbnail for an uploaded original and returns the
// thumbnail path. The token names the file so paths stay unguessable.
func (g *Generator) Generate(srcPath, token string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	thumbPath := filepath.Join(g.thumbDir, token+".jpg")

	img, backend, err := g.load(srcPath)
	if err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "error").Inc()
		return "", fmt.Errorf("thumbnail generation failed: %w", err)
	}

	thumb := imaging.Fit(img, ThumbSize, ThumbSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: thumbQuality}); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "error").Inc()
		return "", fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := os.WriteFile(thumbPath, buf.Bytes(), 0644); err != nil {
		metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "error").Inc()
		return "", fmt.Errorf("failed to write thumbnail: %w", err)
	}

	metrics.ThumbnailGenerationsTotal.WithLabelValues(backend, "success").Inc()
	metrics.ThumbnailGenerationDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())
	logging.Debug("thumbnail written: %s (%s, %v)", thumbPath, backend, time.Since(start).Round(time.Millisecond))
	return thumbPath, nil
}

// load decodes the original, preferring libvips for its decode-time
// shrinking and falling back to pure-Go decoding.
func (g *Generator) load(srcPath string) (image.Image, string, error) {
	if IsVipsAvailable() {
		img, err := loadWithVips(srcPath, ThumbSize, ThumbSize)
		if err == nil {
			return img, "vips", nil
		}
		logging.Debug("vips load failed for %s, falling back to imaging: %v", srcPath, err)
	}

	img, err := LoadImageConstrained(srcPath, MaxImageDimension, MaxImagePixels)
	if err != nil {
		return nil, "imaging", err
	}
	return img, "imaging", nil
}

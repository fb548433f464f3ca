package media

import (
	"fmt"
	"image"
	"os"

	"photo-manager/internal/logging"

	"github.com/disintegration/imaging"
)

const (
	// MaxImageDimension is the maximum width or height processed at full
	// resolution; larger originals are downscaled during load.
	MaxImageDimension = 4096

	// MaxImagePixels caps total decoded pixels. A 20MP frame uses about
	// 80MB in RGBA, which is the most we want a single decode to hold.
	MaxImagePixels = 20_000_000
)

// LoadImageConstrained loads an image, downscaling during load if it
// exceeds the size limits. This keeps huge originals from ballooning
// memory when libvips is unavailable.
func LoadImageConstrained(path string, maxDimension, maxPixels int) (image.Image, error) {
	dims, err := GetImageDimensions(path)
	if err != nil {
		logging.Debug("could not read dimensions of %s: %v, loading directly", path, err)
		return imaging.Open(path, imaging.AutoOrientation(true))
	}

	width, height := dims.Width, dims.Height
	pixels := width * height

	if width <= maxDimension && height <= maxDimension && pixels <= maxPixels {
		return imaging.Open(path, imaging.AutoOrientation(true))
	}

	targetWidth, targetHeight := width, height
	if width > maxDimension || height > maxDimension {
		if width > height {
			targetWidth = maxDimension
			targetHeight = height * maxDimension / width
		} else {
			targetHeight = maxDimension
			targetWidth = width * maxDimension / height
		}
	}
	if targetWidth*targetHeight > maxPixels {
		scale := float64(maxPixels) / float64(targetWidth*targetHeight)
		targetWidth = int(float64(targetWidth) * scale)
		targetHeight = int(float64(targetHeight) * scale)
	}

	logging.Info("constraining large image %s from %dx%d to %dx%d", path, width, height, targetWidth, targetHeight)

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return imaging.Resize(img, targetWidth, targetHeight, imaging.Lanczos), nil
}

// ImageDimensions holds image width and height.
type ImageDimensions struct {
	Width  int
	Height int
}

// GetImageDimensions returns image dimensions without decoding the pixels.
func GetImageDimensions(path string) (*ImageDimensions, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close image file %s: %v", path, err)
		}
	}()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return nil, err
	}
	return &ImageDimensions{Width: config.Width, Height: config.Height}, nil
}

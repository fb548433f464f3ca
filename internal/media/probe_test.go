package media

import (
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestImage encodes a solid-color image in the given format and
// returns its path.
func writeTestImage(t *testing.T, format string, width, height int) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}

	path := filepath.Join(t.TempDir(), "test-image")
	file, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	defer file.Close()

	switch format {
	case "jpeg":
		err = jpeg.Encode(file, img, nil)
	case "png":
		err = png.Encode(file, img)
	case "gif":
		err = gif.Encode(file, img, nil)
	default:
		t.Fatalf("unsupported test format %q", format)
	}
	if err != nil {
		t.Fatalf("failed to encode %s: %v", format, err)
	}
	return path
}

func TestProbeIdentifiesByContent(t *testing.T) {
	for _, format := range []string{"jpeg", "png", "gif"} {
		t.Run(format, func(t *testing.T) {
			// Deliberately extensionless: detection must not look at the name.
			path := writeTestImage(t, format, 64, 48)

			info, err := Probe(path)
			if err != nil {
				t.Fatalf("Probe failed: %v", err)
			}
			if info.Format != format {
				t.Errorf("Format = %q, want %q", info.Format, format)
			}
			if info.Width != 64 || info.Height != 48 {
				t.Errorf("dimensions = %dx%d, want 64x48", info.Width, info.Height)
			}
			if info.Size <= 0 {
				t.Errorf("Size = %d, want > 0", info.Size)
			}
		})
	}
}

func TestProbeRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.jpg")
	if err := os.WriteFile(path, []byte("<html>not an image</html>"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	if _, err := Probe(path); err == nil {
		t.Error("Probe accepted non-image content with .jpg name")
	}
}

func TestProbeRejectsMissingFile(t *testing.T) {
	if _, err := Probe(filepath.Join(t.TempDir(), "absent.png")); err == nil {
		t.Error("Probe accepted a missing file")
	}
}

func TestExtensionFor(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"jpeg", ".jpg"},
		{"png", ".png"},
		{"webp", ".webp"},
	}
	for _, tt := range tests {
		if got := ExtensionFor(tt.format); got != tt.want {
			t.Errorf("ExtensionFor(%q) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

package media

import (
	"fmt"
	"os"

	"photo-manager/internal/logging"

	// Decoders for every accepted upload format.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Info describes a verified uploaded file.
type Info struct {
	Format string
	Width  int
	Height int
	Size   int64
}

// acceptedFormats is the upload allow-list. Detection goes by file
// content, never by the client-supplied name.
var acceptedFormats = map[string]bool{
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
	"bmp":  true,
	"tiff": true,
}

// Probe verifies that the file is an accepted image format and returns
// its format, pixel dimensions, and byte size.
func Probe(path string) (*Info, error) {
	format, err := sniffFormat(path)
	if err != nil {
		return nil, err
	}
	if !acceptedFormats[format] {
		return nil, fmt.Errorf("unsupported image format %q", format)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	dims, err := GetImageDimensions(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image dimensions: %w", err)
	}

	return &Info{
		Format: format,
		Width:  dims.Width,
		Height: dims.Height,
		Size:   stat.Size(),
	}, nil
}

// sniffFormat identifies an image format from its magic bytes.
func sniffFormat(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logging.Warn("failed to close %s: %v", path, err)
		}
	}()

	header := make([]byte, 32)
	n, err := file.Read(header)
	if err != nil {
		return "", err
	}
	header = header[:n]

	switch {
	case len(header) >= 3 && header[0] == 0xFF && header[1] == 0xD8 && header[2] == 0xFF:
		return "jpeg", nil

	case len(header) >= 8 && header[0] == 0x89 && header[1] == 0x50 && header[2] == 0x4E && header[3] == 0x47:
		return "png", nil

	case len(header) >= 4 && header[0] == 0x47 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x38:
		return "gif", nil

	case len(header) >= 12 && header[0] == 0x52 && header[1] == 0x49 && header[2] == 0x46 && header[3] == 0x46 &&
		header[8] == 0x57 && header[9] == 0x45 && header[10] == 0x42 && header[11] == 0x50:
		return "webp", nil

	case len(header) >= 2 && header[0] == 0x42 && header[1] == 0x4D:
		return "bmp", nil

	case len(header) >= 4 && ((header[0] == 0x49 && header[1] == 0x49 && header[2] == 0x2A && header[3] == 0x00) ||
		(header[0] == 0x4D && header[1] == 0x4D && header[2] == 0x00 && header[3] == 0x2A)):
		return "tiff", nil
	}
	return "", fmt.Errorf("unrecognized file content")
}

// ExtensionFor returns the canonical file extension for a detected format.
func ExtensionFor(format string) string {
	if format == "jpeg" {
		return ".jpg"
	}
	return "." + format
}

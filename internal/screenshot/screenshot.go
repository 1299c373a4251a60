// Package screenshot provides loading of grade report screenshots.
package screenshot

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is returned for input that cannot be decoded or has no pixels.
var ErrInvalidImage = errors.New("invalid image")

// Extensions lists the file extensions recognized as screenshots.
var Extensions = []string{".png", ".jpg", ".jpeg", ".webp", ".bmp", ".tif", ".tiff"}

// Screenshot is a decoded report image.
type Screenshot struct {
	Path   string      // Original file path
	Name   string      // File name without extension
	Format string      // Decoder that read the file
	Image  image.Image // Decoded pixels
}

// Load reads and decodes the screenshot at path.
func Load(path string) (*Screenshot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open screenshot: %w", err)
	}
	defer file.Close()

	s, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	s.Name = Stem(path)
	return s, nil
}

// Decode decodes a screenshot from r.
func Decode(r io.Reader) (*Screenshot, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: no pixels", ErrInvalidImage)
	}
	return &Screenshot{Format: format, Image: img}, nil
}

// Width returns the image width in pixels.
func (s *Screenshot) Width() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dx()
}

// Height returns the image height in pixels.
func (s *Screenshot) Height() int {
	if s.Image == nil {
		return 0
	}
	return s.Image.Bounds().Dy()
}

// IsScreenshot reports whether path has a supported image extension.
func IsScreenshot(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Stem returns the file name of path without directory and extension.
// Source names such as "SoSe23" are derived this way.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

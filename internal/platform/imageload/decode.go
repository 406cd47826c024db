package imageload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"

	// Registered formats for step backgrounds.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// DefaultMaxBytes caps a single encoded image.
	DefaultMaxBytes int64 = 25 << 20
	// DefaultMaxPixels caps the decoded raster, width times height.
	DefaultMaxPixels int64 = 50_000_000
)

var (
	ErrTooLarge          = errors.New("image exceeds size limit")
	ErrUnsupportedSource = errors.New("unsupported image reference")
	ErrHostNotAllowed    = errors.New("image host not allowed")
)

// Decode reads at most maxBytes from r and decodes it with the registered
// formats. The header is checked against maxPixels before any raster is
// allocated. Non-positive limits fall back to DefaultMaxBytes and
// DefaultMaxPixels.
func Decode(r io.Reader, maxBytes, maxPixels int64) (image.Image, string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	raw, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if int64(len(raw)) > maxBytes {
		return nil, "", fmt.Errorf("%w (%d bytes)", ErrTooLarge, maxBytes)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("decode image: empty raster %dx%d", cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, "", fmt.Errorf("%w (%dx%d, max %d pixels)", ErrTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

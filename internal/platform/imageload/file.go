package imageload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FileSource opens local paths. Relative paths resolve against Root.
type FileSource struct {
	Root string
}

func (s *FileSource) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", p, err)
	}
	return f, nil
}

func (s *FileSource) resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		ref = u.Path
		if ref == "" {
			ref = u.Opaque
		}
	}
	if ref == "" {
		return "", fmt.Errorf("%w: empty file path", ErrUnsupportedSource)
	}
	if !filepath.IsAbs(ref) && s.Root != "" {
		ref = filepath.Join(s.Root, ref)
	}
	return filepath.Clean(ref), nil
}

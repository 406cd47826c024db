package imageload

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/yungbote/motoruniversal-backend/internal/platform/gcp"
)

// BucketSource reads gs://bucket/key references from the configured buckets.
type BucketSource struct {
	buckets gcp.BucketService
}

func NewBucketSource(buckets gcp.BucketService) *BucketSource {
	return &BucketSource{buckets: buckets}
}

func (s *BucketSource) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	if s == nil || s.buckets == nil {
		return nil, fmt.Errorf("%w: object storage not configured for %q", ErrUnsupportedSource, ref)
	}
	bucket, key, err := parseGSRef(ref)
	if err != nil {
		return nil, err
	}
	category, ok := s.buckets.CategoryForBucket(bucket)
	if !ok {
		return nil, fmt.Errorf("%w: unknown bucket %q", ErrUnsupportedSource, bucket)
	}
	return s.buckets.DownloadFile(ctx, category, key)
}

func parseGSRef(ref string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(strings.TrimSpace(ref), "gs://")
	bucket, key, found := strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: malformed gs reference %q", ErrUnsupportedSource, ref)
	}
	return bucket, key, nil
}

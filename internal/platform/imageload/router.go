package imageload

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/yungbote/motoruniversal-backend/internal/platform/gcp"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

// Loader resolves an image reference to a decoded image.
type Loader interface {
	Load(ctx context.Context, ref string) (image.Image, error)
}

type opener interface {
	Open(ctx context.Context, ref string) (io.ReadCloser, error)
}

type Options struct {
	HTTPClient *http.Client
	Buckets    gcp.BucketService
	// AllowFiles enables file:// and bare paths, resolved against FileRoot.
	AllowFiles bool
	FileRoot   string
	// AllowedHosts limits http(s) references. Entries are host names,
	// "*.domain" for subdomains, or "*" for any host. Empty rejects every
	// http(s) reference.
	AllowedHosts []string
	MaxBytes     int64
	MaxPixels    int64
}

// Router dispatches on the reference scheme.
type Router struct {
	log       *logger.Logger
	http      opener
	bucket    opener
	file      opener
	hosts     []string
	maxBytes  int64
	maxPixels int64
}

func NewRouter(log *logger.Logger, opts Options) *Router {
	if log == nil {
		log = logger.Nop()
	}
	r := &Router{
		log:       log.With("service", "ImageLoader"),
		hosts:     normalizeHosts(opts.AllowedHosts),
		maxBytes:  opts.MaxBytes,
		maxPixels: opts.MaxPixels,
	}
	r.http = NewHTTPSource(log, r.guardRedirects(opts.HTTPClient))
	if opts.Buckets != nil {
		r.bucket = NewBucketSource(opts.Buckets)
	}
	if opts.AllowFiles {
		r.file = &FileSource{Root: opts.FileRoot}
	}
	return r
}

func (r *Router) Load(ctx context.Context, ref string) (image.Image, error) {
	src, err := r.route(ref)
	if err != nil {
		return nil, err
	}
	rc, err := src.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	img, _, err := Decode(rc, r.maxBytes, r.maxPixels)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (r *Router) route(ref string) (opener, error) {
	lower := strings.ToLower(strings.TrimSpace(ref))
	var src opener
	switch {
	case lower == "":
		return nil, fmt.Errorf("%w: empty reference", ErrUnsupportedSource)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		u, err := url.Parse(strings.TrimSpace(ref))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
		}
		if !r.hostAllowed(u) {
			return nil, fmt.Errorf("%w: %q", ErrHostNotAllowed, u.Hostname())
		}
		src = r.http
	case strings.HasPrefix(lower, "gs://"):
		src = r.bucket
	case strings.HasPrefix(lower, "file://"), !strings.Contains(lower, "://"):
		src = r.file
	}
	if src == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedSource, ref)
	}
	return src, nil
}

// guardRedirects copies client so every redirect hop is held to the
// same host list as the original reference.
func (r *Router) guardRedirects(client *http.Client) *http.Client {
	var c http.Client
	if client != nil {
		c = *client
	}
	c.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 10 {
			return errors.New("stopped after 10 redirects")
		}
		if !r.hostAllowed(req.URL) {
			return fmt.Errorf("%w: redirect to %q", ErrHostNotAllowed, req.URL.Hostname())
		}
		return nil
	}
	return &c
}

func (r *Router) hostAllowed(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	for _, h := range r.hosts {
		switch {
		case h == "*":
			return true
		case strings.HasPrefix(h, "*."):
			if strings.HasSuffix(host, h[1:]) {
				return true
			}
		case h == host:
			return true
		}
	}
	return false
}

func normalizeHosts(in []string) []string {
	out := make([]string, 0, len(in))
	for _, h := range in {
		h = strings.ToLower(strings.TrimSpace(h))
		if h != "" {
			out = append(out, h)
		}
	}
	return out
}

package imageload

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/motoruniversal-backend/internal/platform/gcp"
	"github.com/yungbote/motoruniversal-backend/internal/platform/httpx"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func TestRouterLoadsHTTP(t *testing.T) {
	data := pngBytes(t, 7, 5)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	r := NewRouter(nil, Options{HTTPClient: srv.Client(), AllowedHosts: []string{"127.0.0.1"}})
	img, err := r.Load(context.Background(), srv.URL+"/paso.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.Bounds().Size(); got != (image.Point{7, 5}) {
		t.Fatalf("size: want=(7,5) got=%v", got)
	}
}

func TestHTTPSourceRetriesServerErrors(t *testing.T) {
	data := pngBytes(t, 2, 2)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	src := NewHTTPSource(nil, srv.Client())
	src.backoff = time.Millisecond
	rc, err := src.Open(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = rc.Close()
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls: want=2 got=%d", got)
	}
}

func TestHTTPSourceDoesNotRetryNotFound(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	src := NewHTTPSource(nil, srv.Client())
	src.backoff = time.Millisecond
	_, err := src.Open(context.Background(), srv.URL)
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.Status != http.StatusNotFound {
		t.Fatalf("want StatusError 404 got=%v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls: want=1 got=%d", got)
	}
}

func TestDecodeRejectsOversizedAndGarbage(t *testing.T) {
	data := pngBytes(t, 4, 4)
	if _, _, err := Decode(bytes.NewReader(data), int64(len(data)-1), 0); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("oversized: want ErrTooLarge got=%v", err)
	}
	if _, _, err := Decode(bytes.NewReader([]byte("not an image")), 0, 0); err == nil {
		t.Fatalf("garbage: expected decode error")
	}
	if _, format, err := Decode(bytes.NewReader(data), 0, 0); err != nil || format != "png" {
		t.Fatalf("png: format=%q err=%v", format, err)
	}
}

// pngHeader is a PNG signature plus an IHDR chunk declaring w x h, with no
// pixel data. DecodeConfig accepts it; a full decode would not.
func pngHeader(w, h uint32) []byte {
	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:], w)
	binary.BigEndian.PutUint32(ihdr[4:], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	chunk := append([]byte("IHDR"), ihdr...)
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestDecodeRejectsHugeRasterBeforeAllocating(t *testing.T) {
	if _, _, err := Decode(bytes.NewReader(pngHeader(12000, 12000)), 1<<20, 0); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("default pixel cap: want ErrTooLarge got=%v", err)
	}

	gray := image.NewGray(image.Rect(0, 0, 2000, 2000))
	var buf bytes.Buffer
	if err := png.Encode(&buf, gray); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	if buf.Len() >= 1<<20 {
		t.Fatalf("fixture: want a small encoding got=%d bytes", buf.Len())
	}
	if _, _, err := Decode(bytes.NewReader(buf.Bytes()), 1<<20, 1_000_000); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("configured pixel cap: want ErrTooLarge got=%v", err)
	}
	if img, _, err := Decode(bytes.NewReader(buf.Bytes()), 1<<20, 4_000_000); err != nil || img.Bounds().Dx() != 2000 {
		t.Fatalf("at cap: img=%v err=%v", img, err)
	}
}

func TestRouterHostAllowList(t *testing.T) {
	data := pngBytes(t, 2, 2)
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	closed := NewRouter(nil, Options{HTTPClient: srv.Client()})
	if _, err := closed.Load(context.Background(), srv.URL+"/paso.png"); !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("no hosts: want ErrHostNotAllowed got=%v", err)
	}
	other := NewRouter(nil, Options{HTTPClient: srv.Client(), AllowedHosts: []string{"cdn.example.com"}})
	if _, err := other.Load(context.Background(), srv.URL+"/paso.png"); !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("unlisted host: want ErrHostNotAllowed got=%v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Fatalf("rejected hosts must not be fetched: calls=%d", got)
	}

	openAll := NewRouter(nil, Options{HTTPClient: srv.Client(), AllowedHosts: []string{"*"}})
	if _, err := openAll.Load(context.Background(), srv.URL+"/paso.png"); err != nil {
		t.Fatalf("wildcard: %v", err)
	}

	wild := NewRouter(nil, Options{AllowedHosts: []string{" *.Example.com "}})
	for host, want := range map[string]bool{
		"img.example.com": true,
		"a.b.example.com": true,
		"example.com":     false,
		"badexample.com":  false,
		"10.0.0.5":        false,
	} {
		u, _ := url.Parse("https://" + host + "/x.png")
		if got := wild.hostAllowed(u); got != want {
			t.Fatalf("hostAllowed(%q): want=%v got=%v", host, want, got)
		}
	}
}

func TestRouterRejectsRedirectToUnlistedHost(t *testing.T) {
	var targetCalls int32
	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&targetCalls, 1)
	}))
	defer target.Close()
	// localhost is not on the list even though it is the same machine.
	redirectTo := strings.Replace(target.URL, "127.0.0.1", "localhost", 1)
	origin := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, redirectTo+"/latest/meta-data", http.StatusFound)
	}))
	defer origin.Close()

	r := NewRouter(nil, Options{HTTPClient: origin.Client(), AllowedHosts: []string{"127.0.0.1"}})
	if _, err := r.Load(context.Background(), origin.URL+"/paso.png"); !errors.Is(err, ErrHostNotAllowed) {
		t.Fatalf("redirect: want ErrHostNotAllowed got=%v", err)
	}
	if got := atomic.LoadInt32(&targetCalls); got != 0 {
		t.Fatalf("redirect target must not be fetched: calls=%d", got)
	}
}

func TestHTTPSourceKeepsUpstreamBodyOutOfErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("internal-admin-token=s3cr3t"))
	}))
	defer srv.Close()

	_, err := NewHTTPSource(nil, srv.Client()).Open(context.Background(), srv.URL)
	var se *httpx.StatusError
	if !errors.As(err, &se) || se.Status != http.StatusForbidden {
		t.Fatalf("want StatusError 403 got=%v", err)
	}
	if strings.Contains(err.Error(), "s3cr3t") {
		t.Fatalf("error leaks upstream body: %v", err)
	}
}

func TestRouterFileSource(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "paso.png"), pngBytes(t, 3, 3), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	off := NewRouter(nil, Options{})
	if _, err := off.Load(context.Background(), "paso.png"); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("files disabled: want ErrUnsupportedSource got=%v", err)
	}

	r := NewRouter(nil, Options{AllowFiles: true, FileRoot: dir})
	if _, err := r.Load(context.Background(), "paso.png"); err != nil {
		t.Fatalf("relative path: %v", err)
	}
	if _, err := r.Load(context.Background(), "file://"+filepath.Join(dir, "paso.png")); err != nil {
		t.Fatalf("file url: %v", err)
	}
	if _, err := r.Load(context.Background(), "missing.png"); err == nil {
		t.Fatalf("missing file: expected error")
	}
}

type fakeBuckets struct {
	gcp.BucketService
	objects map[string][]byte
}

func (f *fakeBuckets) CategoryForBucket(name string) (gcp.BucketCategory, bool) {
	if name == "steps" {
		return gcp.BucketCategoryStepImage, true
	}
	return "", false
}

func (f *fakeBuckets) DownloadFile(ctx context.Context, category gcp.BucketCategory, key string) (io.ReadCloser, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func TestRouterBucketSource(t *testing.T) {
	buckets := &fakeBuckets{objects: map[string][]byte{"ex/1.png": pngBytes(t, 6, 2)}}
	r := NewRouter(nil, Options{Buckets: buckets})

	img, err := r.Load(context.Background(), "gs://steps/ex/1.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.Bounds().Dx(); got != 6 {
		t.Fatalf("width: want=6 got=%d", got)
	}
	if _, err := r.Load(context.Background(), "gs://other/ex/1.png"); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("unknown bucket: want ErrUnsupportedSource got=%v", err)
	}
	if _, err := r.Load(context.Background(), "gs://steps"); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("malformed ref: want ErrUnsupportedSource got=%v", err)
	}
	if _, err := r.Load(context.Background(), "ftp://host/x.png"); !errors.Is(err, ErrUnsupportedSource) {
		t.Fatalf("ftp: want ErrUnsupportedSource got=%v", err)
	}
}

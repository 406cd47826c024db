package imageload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yungbote/motoruniversal-backend/internal/platform/httpx"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

type HTTPSource struct {
	log         *logger.Logger
	client      *http.Client
	maxAttempts int
	backoff     time.Duration
}

func NewHTTPSource(log *logger.Logger, client *http.Client) *HTTPSource {
	if log == nil {
		log = logger.Nop()
	}
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPSource{
		log:         log.With("source", "http"),
		client:      client,
		maxAttempts: 3,
		backoff:     500 * time.Millisecond,
	}
}

// Open issues a GET and retries timeouts, 408, 429 and 5xx.
func (s *HTTPSource) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	var lastErr error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		body, resp, err := s.get(ctx, ref)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if attempt == s.maxAttempts || !httpx.IsRetryableError(err) {
			break
		}
		wait := httpx.JitterSleep(httpx.RetryAfterDuration(resp, s.backoff*time.Duration(attempt), 10*time.Second))
		s.log.Warn("image fetch failed, retrying", "url", ref, "attempt", attempt, "wait", wait.String(), "error", err)
		if err := httpx.Sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (s *HTTPSource) get(ctx context.Context, ref string) (io.ReadCloser, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "image/*")
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		// Upstream bodies are logged, never returned.
		s.log.Warn("image fetch rejected", "url", ref, "status", resp.StatusCode, "body", strings.TrimSpace(string(snippet)))
		return nil, resp, &httpx.StatusError{URL: ref, Status: resp.StatusCode}
	}
	return resp.Body, resp, nil
}

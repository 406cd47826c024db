package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/motoruniversal-backend/internal/http/handlers"
	httpMW "github.com/yungbote/motoruniversal-backend/internal/http/middleware"
	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

func TestRouterHealthAndTraceHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{
		Log:           logger.Nop(),
		HealthHandler: httpH.NewHealthHandler(nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthcheck: want=200/ok got=%d/%q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(httpMW.HeaderRequestID) == "" || rec.Header().Get(httpMW.HeaderTraceID) == "" {
		t.Fatalf("trace headers missing: %v", rec.Header())
	}
}

func TestRouterSkipsUnwiredHandlers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(RouterConfig{Log: logger.Nop()})

	req := httptest.NewRequest(http.MethodPost, "/api/exercises/00000000-0000-0000-0000-000000000000/export", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unwired export route: want=404 got=%d", rec.Code)
	}
}

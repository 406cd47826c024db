package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/motoruniversal-backend/internal/http/response"
	"github.com/yungbote/motoruniversal-backend/internal/services"
)

const (
	HeaderExportImages       = "X-Export-Images"
	HeaderExportMessage      = "X-Export-Message"
	HeaderExportSkippedSteps = "X-Export-Skipped-Steps"
	HeaderExportRunID        = "X-Export-Run-Id"
	HeaderExportURL          = "X-Export-Url"
)

type ExportHandler struct {
	export services.ExerciseExportService
}

func NewExportHandler(export services.ExerciseExportService) *ExportHandler {
	return &ExportHandler{export: export}
}

// POST /api/exercises/:id/export
// Streams the archive back as a download. The summary travels in X-Export-*
// headers so the body stays the raw ZIP.
func (h *ExportHandler) Export(c *gin.Context) {
	id, ok := parseExerciseID(c)
	if !ok {
		return
	}
	out, err := h.export.Export(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	report := out.Report()
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": out.ArchiveName}))
	c.Header("Cache-Control", "no-store")
	c.Header(HeaderExportImages, strconv.Itoa(len(out.Included)))
	c.Header(HeaderExportMessage, report.Message)
	c.Header(HeaderExportRunID, out.RunID.String())
	if skipped := out.SkippedSteps(); len(skipped) > 0 {
		c.Header(HeaderExportSkippedSteps, joinInts(skipped))
	}
	if out.URL != "" {
		c.Header(HeaderExportURL, out.URL)
	}
	c.Data(http.StatusOK, "application/zip", out.Archive)
}

// GET /api/exercises/:id/exports?limit=N
func (h *ExportHandler) ListRuns(c *gin.Context) {
	id, ok := parseExerciseID(c)
	if !ok {
		return
	}
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}
	runs, err := h.export.ListRuns(c.Request.Context(), id, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"runs": runs})
}

func joinInts(in []int) string {
	parts := make([]string, len(in))
	for i, n := range in {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

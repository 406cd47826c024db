package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/motoruniversal-backend/internal/http/response"
	"github.com/yungbote/motoruniversal-backend/internal/platform/apierr"
	"github.com/yungbote/motoruniversal-backend/internal/services"
)

var statusByCode = map[string]int{
	"not_found":               http.StatusNotFound,
	"export_in_progress":      http.StatusConflict,
	"invalid_import":          http.StatusBadRequest,
	"no_exportable_content":   http.StatusUnprocessableEntity,
	"image_load_failed":       http.StatusBadGateway,
	"archive_encoding_failed": http.StatusInternalServerError,
	"canceled":                http.StatusRequestTimeout,
}

// serviceError classifies a service failure into an HTTP status and a
// stable code.
func serviceError(err error) *apierr.Error {
	code := services.ExportErrorCode(err)
	status, ok := statusByCode[code]
	if !ok {
		status, code = http.StatusInternalServerError, "internal"
	}
	return apierr.New(status, code, err)
}

func respondServiceError(c *gin.Context, err error) {
	_ = c.Error(err)
	response.RespondAPIError(c, serviceError(err))
}

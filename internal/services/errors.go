package services

import (
	"context"
	"errors"

	"github.com/yungbote/motoruniversal-backend/internal/export"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrExportInProgress = errors.New("an export for this exercise is already running")
	ErrInvalidImport    = errors.New("invalid exercise import")
)

// ExportErrorCode maps an export failure to its stable machine code.
func ExportErrorCode(err error) string {
	var (
		noContent *export.NoExportableContentError
		encoding  *export.ArchiveEncodingError
		imgLoad   *export.ImageLoadError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrExportInProgress):
		return "export_in_progress"
	case errors.Is(err, ErrInvalidImport):
		return "invalid_import"
	case errors.As(err, &noContent):
		return "no_exportable_content"
	case errors.As(err, &encoding):
		return "archive_encoding_failed"
	case errors.As(err, &imgLoad):
		return "image_load_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal"
	}
}

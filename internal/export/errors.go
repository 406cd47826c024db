package export

import (
	"fmt"
	"strings"
)

// ImageLoadError is collected per step; it never aborts a batch.
type ImageLoadError struct {
	StepNumber int
	URL        string
	Err        error
}

func (e *ImageLoadError) Error() string {
	if e == nil {
		return "image load error"
	}
	return fmt.Sprintf("step %d: load image: %v", e.StepNumber, e.Err)
}

func (e *ImageLoadError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NoExportableContentError means no step produced an image. Failures lists
// the load errors, if any step had an image reference at all.
type NoExportableContentError struct {
	Failures []*ImageLoadError
}

func (e *NoExportableContentError) Error() string {
	if e == nil || len(e.Failures) == 0 {
		return "no step has an image to export"
	}
	steps := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		steps = append(steps, fmt.Sprintf("%d", f.StepNumber))
	}
	return fmt.Sprintf("no step image could be loaded (failed steps: %s)", strings.Join(steps, ", "))
}

// ArchiveEncodingError is fatal: no partial archive is returned.
type ArchiveEncodingError struct {
	Entry string
	Err   error
}

func (e *ArchiveEncodingError) Error() string {
	if e == nil {
		return "archive encoding error"
	}
	if e.Entry == "" {
		return fmt.Sprintf("finalize archive: %v", e.Err)
	}
	return fmt.Sprintf("encode %s: %v", e.Entry, e.Err)
}

func (e *ArchiveEncodingError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

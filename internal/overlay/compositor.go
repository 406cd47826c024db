package overlay

import (
	"fmt"
	"image"

	"github.com/yungbote/motoruniversal-backend/internal/platform/logger"
)

// Compositor flattens a step's eligible actions onto its background image.
// It holds no per-composite state and is safe for concurrent use.
type Compositor struct {
	log *logger.Logger
}

func NewCompositor(log *logger.Logger) (*Compositor, error) {
	if err := loadFonts(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Compositor{log: log.With("service", "Compositor")}, nil
}

// Compose returns a new raster of bg's natural size with every eligible
// action drawn in input order. bg is not modified.
func (c *Compositor) Compose(bg image.Image, actions []Action) *image.RGBA {
	s := newSurface(bg)
	defer s.Close()

	w, h := s.Width(), s.Height()
	for i, a := range actions {
		o, ok := Classify(a)
		if !ok {
			continue
		}
		if err := safeRender(s, o, o.box().Resolve(w, h)); err != nil {
			c.log.Warn("overlay render skipped", "action_index", i, "action_type", a.ActionType, "error", err)
		}
	}
	return s.Image()
}

func safeRender(s *Surface, o Overlay, r image.Rectangle) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			s.resetClip()
			err = fmt.Errorf("render panic: %v", rec)
		}
	}()
	renderOverlay(s, o, r)
	return nil
}

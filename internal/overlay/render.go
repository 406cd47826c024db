package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

const (
	commentRadius    = 12.0
	commentPadding   = 16.0
	commentStroke    = 1.0
	commentLineSpace = 1.3

	fieldRadius = 8.0
	fieldBorder = 2.0

	chipRadius   = 4.0
	chipFontSize = 12.0
	chipPadX     = 6.0
	chipPadY     = 4.0
	chipMaxRatio = 0.9
)

// renderOverlay draws o inside r. Empty bounds are a no-op.
func renderOverlay(s *Surface, o Overlay, r image.Rectangle) {
	if r.Empty() {
		return
	}
	switch v := o.(type) {
	case CommentOverlay:
		renderComment(s, v, r)
	case FieldOverlay:
		renderField(s, v, r)
	}
}

func renderComment(s *Surface, c CommentOverlay, r image.Rectangle) {
	x, y, w, h := rectF(r)
	s.roundedBox(x, y, w, h, commentRadius, c.Background, c.Foreground, commentStroke)

	textW := w - commentPadding
	if c.Text == "" || textW <= 0 {
		return
	}
	dc := s.dc
	dc.SetFontFace(s.faces.face(false, c.FontSize))
	s.clipRect(x+commentPadding/2, y, textW, h)
	dc.SetColor(c.Foreground)
	dc.DrawStringWrapped(c.Text, x+w/2, y+h/2, 0.5, 0.5, textW, commentLineSpace, gg.AlignCenter)
	s.resetClip()
}

func renderField(s *Surface, f FieldOverlay, r image.Rectangle) {
	x, y, w, h := rectF(r)
	if f.Style.drawsShadow() {
		tint, accent := fieldColors(f.Kind)
		s.roundedBox(x, y, w, h, fieldRadius, tint, accent, fieldBorder)
	}
	if !f.Style.drawsText() || f.Text == "" {
		return
	}

	dc := s.dc
	dc.SetFontFace(s.faces.face(true, chipFontSize))
	tw, th := dc.MeasureString(f.Text)
	cw := math.Min(tw+2*chipPadX, w*chipMaxRatio)
	ch := th + 2*chipPadY
	cx := x + (w-cw)/2
	cy := y + (h-ch)/2
	s.roundedBox(cx, cy, cw, ch, chipRadius, LabelChipBackground, nil, 0)

	s.clipRect(cx, cy, cw, ch)
	dc.SetColor(LabelChipText)
	dc.DrawStringAnchored(f.Text, x+w/2, y+h/2, 0.5, 0.5)
	s.resetClip()
}

func fieldColors(k FieldKind) (tint, accent color.NRGBA) {
	if k == FieldTextInput {
		return TextInputTint, TextInputAccent
	}
	return InteractiveTint, InteractiveAccent
}

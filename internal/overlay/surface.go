package overlay

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Surface is the drawing target for one composite. It is passed explicitly to
// every render function and never shared between composites.
type Surface struct {
	dc    *gg.Context
	img   *image.RGBA
	faces *faceSet
}

// newSurface allocates a surface of exactly bg's pixel size and copies bg
// onto it unscaled.
func newSurface(bg image.Image) *Surface {
	b := bg.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), bg, b.Min, draw.Src)
	return &Surface{
		dc:    gg.NewContextForRGBA(img),
		img:   img,
		faces: newFaceSet(),
	}
}

func (s *Surface) Width() int  { return s.img.Bounds().Dx() }
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Image returns the backing raster.
func (s *Surface) Image() *image.RGBA { return s.img }

func (s *Surface) Close() {
	if s.faces != nil {
		s.faces.Close()
	}
}

// roundedBox fills and optionally strokes a rounded rectangle.
func (s *Surface) roundedBox(x, y, w, h, r float64, fill color.Color, stroke color.Color, lineWidth float64) {
	dc := s.dc
	dc.DrawRoundedRectangle(x, y, w, h, clampRadius(r, w, h))
	dc.SetColor(fill)
	if stroke == nil || lineWidth <= 0 {
		dc.Fill()
		return
	}
	dc.FillPreserve()
	dc.SetLineWidth(lineWidth)
	dc.SetColor(stroke)
	dc.Stroke()
}

// clipRect restricts subsequent drawing to the rectangle until resetClip.
func (s *Surface) clipRect(x, y, w, h float64) {
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Clip()
}

func (s *Surface) resetClip() {
	s.dc.ResetClip()
}

func clampRadius(r, w, h float64) float64 {
	return math.Max(0, math.Min(r, math.Min(w, h)/2))
}

func rectF(r image.Rectangle) (x, y, w, h float64) {
	return float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())
}

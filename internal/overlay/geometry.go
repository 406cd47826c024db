package overlay

import (
	"image"
	"math"
)

// Box is percentage geometry. A Box built from malformed input is empty and
// resolves to a zero rectangle.
type Box struct {
	X, Y, W, H float64
	valid      bool
}

// PercentBox builds a valid Box from percentages.
func PercentBox(x, y, w, h float64) Box {
	if !finite(x) || !finite(y) || !finite(w) || !finite(h) {
		return Box{}
	}
	return Box{X: x, Y: y, W: math.Max(w, 0), H: math.Max(h, 0), valid: true}
}

func boxOf(a Action) Box {
	if a.PositionX == nil || a.PositionY == nil || a.Width == nil || a.Height == nil {
		return Box{}
	}
	return PercentBox(*a.PositionX, *a.PositionY, *a.Width, *a.Height)
}

// Resolve converts the box into pixel bounds against a surface of w×h pixels.
func (b Box) Resolve(w, h int) image.Rectangle {
	if !b.valid || w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	x0 := int(math.Round(b.X / 100 * float64(w)))
	y0 := int(math.Round(b.Y / 100 * float64(h)))
	x1 := int(math.Round((b.X + b.W) / 100 * float64(w)))
	y1 := int(math.Round((b.Y + b.H) / 100 * float64(h)))
	return image.Rect(x0, y0, x1, y1)
}

// ResolveBounds resolves an action's percentage geometry against the natural
// pixel size of the image it belongs to.
func ResolveBounds(a Action, w, h int) image.Rectangle {
	return boxOf(a).Resolve(w, h)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

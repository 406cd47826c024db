package overlay

import (
	"encoding/hex"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Fixed presentation defaults.
var (
	DefaultCommentBackground = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	DefaultCommentForeground = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

	TextInputTint     = color.NRGBA{R: 34, G: 197, B: 94, A: 64}
	TextInputAccent   = color.NRGBA{R: 0x22, G: 0xc5, B: 0x5e, A: 0xff}
	InteractiveTint   = color.NRGBA{R: 59, G: 130, B: 246, A: 64}
	InteractiveAccent = color.NRGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}

	LabelChipBackground = color.NRGBA{R: 255, G: 255, B: 255, A: 242}
	LabelChipText       = color.NRGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xff}
)

const DefaultCommentFontSize = 14.0

// ParseColor accepts #rgb, #rrggbb, #rrggbbaa, rgb(r,g,b) and rgba(r,g,b,a).
// Anything else yields def.
func ParseColor(s string, def color.NRGBA) color.NRGBA {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return def
	}
	if strings.HasPrefix(s, "#") {
		if c, ok := parseHex(s[1:]); ok {
			return c
		}
		return def
	}
	if strings.HasPrefix(s, "rgb") {
		if c, ok := parseFunc(s); ok {
			return c
		}
	}
	return def
}

func parseHex(h string) (color.NRGBA, bool) {
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	case 6, 8:
	default:
		return color.NRGBA{}, false
	}
	raw, err := hex.DecodeString(h)
	if err != nil {
		return color.NRGBA{}, false
	}
	c := color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xff}
	if len(raw) == 4 {
		c.A = raw[3]
	}
	return c, true
}

func parseFunc(s string) (color.NRGBA, bool) {
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, false
	}
	parts := strings.Split(s[open+1:len(s)-1], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return color.NRGBA{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, false
		}
		ch[i] = uint8(v)
	}
	c := color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 0xff}
	if len(parts) == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || !finite(a) || a < 0 || a > 1 {
			return color.NRGBA{}, false
		}
		c.A = uint8(math.Round(a * 255))
	}
	return c, true
}

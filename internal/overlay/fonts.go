package overlay

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontsOnce sync.Once
	fontsErr  error
	regular   *truetype.Font
	bold      *truetype.Font
)

func loadFonts() error {
	fontsOnce.Do(func() {
		var err error
		if regular, err = truetype.Parse(goregular.TTF); err != nil {
			fontsErr = fmt.Errorf("failed to parse regular TTF: %w", err)
			return
		}
		if bold, err = truetype.Parse(gobold.TTF); err != nil {
			fontsErr = fmt.Errorf("failed to parse bold TTF: %w", err)
		}
	})
	return fontsErr
}

// faceSet hands out faces for one composite. truetype faces keep glyph caches
// and must not be shared across goroutines, so each Compose builds its own.
type faceSet struct {
	faces map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

func newFaceSet() *faceSet {
	return &faceSet{faces: map[faceKey]font.Face{}}
}

func (fs *faceSet) face(isBold bool, size float64) font.Face {
	k := faceKey{bold: isBold, size: size}
	if f, ok := fs.faces[k]; ok {
		return f
	}
	src := regular
	if isBold {
		src = bold
	}
	f := truetype.NewFace(src, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	fs.faces[k] = f
	return f
}

func (fs *faceSet) Close() {
	for k, f := range fs.faces {
		_ = f.Close()
		delete(fs.faces, k)
	}
}

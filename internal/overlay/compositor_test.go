package overlay

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"
)

func f(v float64) *float64 { return &v }

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func newTestCompositor(t *testing.T) *Compositor {
	t.Helper()
	c, err := NewCompositor(nil)
	if err != nil {
		t.Fatalf("NewCompositor: %v", err)
	}
	return c
}

func field(kind ActionType, style LabelStyle, x, y, w, h float64, label string) Action {
	return Action{
		ActionType: kind,
		LabelStyle: style,
		PositionX:  f(x),
		PositionY:  f(y),
		Width:      f(w),
		Height:     f(h),
		Label:      label,
	}
}

func TestResolveBoundsScalesAgainstNaturalSize(t *testing.T) {
	a := field(ActionTextInput, LabelShadowOnly, 50, 50, 10, 10, "")
	got := ResolveBounds(a, 1000, 800)
	want := image.Rect(500, 400, 600, 480)
	if got != want {
		t.Fatalf("ResolveBounds: want=%v got=%v", want, got)
	}
}

func TestResolveBoundsMalformedGeometryIsEmpty(t *testing.T) {
	cases := map[string]Action{
		"missing width": {ActionType: ActionClick, PositionX: f(1), PositionY: f(1), Height: f(5)},
		"nan x":         field(ActionClick, LabelShadowOnly, math.NaN(), 1, 5, 5, ""),
		"inf height":    field(ActionClick, LabelShadowOnly, 1, 1, 5, math.Inf(1), ""),
	}
	for name, a := range cases {
		if got := ResolveBounds(a, 1000, 800); !got.Empty() {
			t.Fatalf("%s: want empty got=%v", name, got)
		}
	}
}

func TestClassify(t *testing.T) {
	if _, ok := Classify(field(ActionClick, LabelInvisible, 0, 0, 10, 10, "x")); ok {
		t.Fatalf("invisible click: want not drawable")
	}
	if _, ok := Classify(field(ActionTextInput, "", 0, 0, 10, 10, "x")); ok {
		t.Fatalf("empty style: want not drawable")
	}

	o, ok := Classify(Action{ActionType: ActionComment, LabelStyle: LabelInvisible, Label: "fallback"})
	if !ok {
		t.Fatalf("comment: want drawable regardless of label style")
	}
	c, isComment := o.(CommentOverlay)
	if !isComment {
		t.Fatalf("comment: want CommentOverlay got=%T", o)
	}
	if c.Text != "fallback" || c.FontSize != DefaultCommentFontSize || c.Background != DefaultCommentBackground {
		t.Fatalf("comment defaults: got=%+v", c)
	}

	o, ok = Classify(Action{ActionType: "TEXT_INPUT", LabelStyle: "Text_With_Shadow", Placeholder: "Nombre"})
	if !ok {
		t.Fatalf("text input: want drawable")
	}
	fo := o.(FieldOverlay)
	if fo.Kind != FieldTextInput || fo.Style != StyleTextWithShadow || fo.Text != "Nombre" {
		t.Fatalf("text input: got=%+v", fo)
	}

	o, _ = Classify(field("drag", LabelTextOnly, 0, 0, 1, 1, "x"))
	if fo := o.(FieldOverlay); fo.Kind != FieldOtherInteractive {
		t.Fatalf("unknown type: want FieldOtherInteractive got=%v", fo.Kind)
	}
}

func TestComposeKeepsNaturalSizeAndOrigin(t *testing.T) {
	c := newTestCompositor(t)
	bg := solid(40, 30, color.White).SubImage(image.Rect(10, 5, 40, 30))
	out := c.Compose(bg, nil)
	if out.Bounds() != image.Rect(0, 0, 30, 25) {
		t.Fatalf("bounds: want=(0,0)-(30,25) got=%v", out.Bounds())
	}
	if got := out.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("pixel copy: got=%v", got)
	}
}

func TestComposeDrawsInsideResolvedBoundsOnly(t *testing.T) {
	c := newTestCompositor(t)
	bg := solid(1000, 800, color.White)
	out := c.Compose(bg, []Action{field(ActionTextInput, LabelShadowOnly, 50, 50, 10, 10, "")})

	white := color.RGBA{255, 255, 255, 255}
	if got := out.RGBAAt(550, 440); got == white {
		t.Fatalf("inside overlay: want tinted pixel got white")
	}
	if got := out.RGBAAt(500, 440); got == white {
		t.Fatalf("left border: want accent pixel got white")
	}
	for _, p := range []image.Point{{490, 440}, {610, 440}, {550, 390}, {550, 490}, {0, 0}} {
		if got := out.RGBAAt(p.X, p.Y); got != white {
			t.Fatalf("outside overlay at %v: want white got=%v", p, got)
		}
	}
	if got := bg.RGBAAt(550, 440); got != white {
		t.Fatalf("background mutated: got=%v", got)
	}
}

func TestComposeInvisibleActionLeavesNoPixels(t *testing.T) {
	c := newTestCompositor(t)
	bg := solid(320, 240, color.RGBA{200, 210, 220, 255})
	visible := Action{
		ActionType:  ActionComment,
		PositionX:   f(5),
		PositionY:   f(5),
		Width:       f(40),
		Height:      f(20),
		CommentText: "Pulse el botón de arranque",
	}
	hidden := field(ActionClick, LabelInvisible, 50, 50, 30, 30, "Arranque")

	with := c.Compose(bg, []Action{visible, hidden})
	without := c.Compose(bg, []Action{visible})
	if !bytes.Equal(with.Pix, without.Pix) {
		t.Fatalf("invisible action changed composited pixels")
	}
}

func TestComposeIsDeterministic(t *testing.T) {
	c := newTestCompositor(t)
	bg := solid(400, 300, color.Black)
	actions := []Action{
		field(ActionTextInput, LabelTextWithShadow, 10, 10, 30, 10, "Código"),
		field(ActionClick, LabelTextOnly, 50, 60, 20, 10, "Siguiente"),
		{ActionType: ActionComment, PositionX: f(60), PositionY: f(5), Width: f(35), Height: f(25),
			CommentText: "Revise la presión de los neumáticos antes de continuar", CommentBgColor: "#111827",
			CommentTextColor: "rgba(250,250,250,1)", CommentFontSize: f(18)},
	}
	a := c.Compose(bg, actions)
	b := c.Compose(bg, actions)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("Compose: repeated output differs")
	}
	if bytes.Equal(a.Pix, bg.Pix) {
		t.Fatalf("Compose: expected overlays to change pixels")
	}
}

func TestComposeMalformedActionIsNoOp(t *testing.T) {
	c := newTestCompositor(t)
	bg := solid(100, 100, color.White)
	broken := Action{ActionType: ActionTextInput, LabelStyle: LabelTextWithShadow, Label: "x", PositionX: f(10)}
	out := c.Compose(bg, []Action{broken})
	if !bytes.Equal(out.Pix, bg.Pix) {
		t.Fatalf("malformed geometry should not draw")
	}
}

func TestTextChipIsCappedToBoxWidth(t *testing.T) {
	c := newTestCompositor(t)
	bg := solid(1000, 100, color.Black)
	// A very long label on a narrow box: the chip must stay within 90% of it.
	out := c.Compose(bg, []Action{field(ActionClick, LabelTextOnly, 45, 0, 10, 100,
		"Etiqueta extremadamente larga que no cabe en la caja")})

	black := color.RGBA{0, 0, 0, 255}
	if got := out.RGBAAt(500, 50); got == black {
		t.Fatalf("chip center: want light pixel got black")
	}
	// Box spans x=450..550, chip at most 90 px wide centred at 500.
	for _, x := range []int{452, 548} {
		if got := out.RGBAAt(x, 50); got != black {
			t.Fatalf("outside chip at x=%d: want black got=%v", x, got)
		}
	}
}

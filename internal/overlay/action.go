// Package overlay burns interactive-exercise actions (hotspots, text inputs and
// comments) into a step's background image.
package overlay

import (
	"image/color"
	"strings"
)

// ActionType is the raw action_type stored on a step action.
type ActionType string

const (
	ActionComment   ActionType = "comment"
	ActionTextInput ActionType = "text_input"
	ActionClick     ActionType = "click"
)

// LabelStyle controls whether and how a non-comment action is drawn.
type LabelStyle string

const (
	LabelInvisible      LabelStyle = "invisible"
	LabelTextOnly       LabelStyle = "text_only"
	LabelTextWithShadow LabelStyle = "text_with_shadow"
	LabelShadowOnly     LabelStyle = "shadow_only"
)

// Step is one ordered unit of an interactive exercise. An empty ImageURL means
// the step has no background and is never exported.
type Step struct {
	StepNumber int      `json:"step_number" yaml:"step_number"`
	ImageURL   string   `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Actions    []Action `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// HasImage reports whether the step carries a background reference.
func (s Step) HasImage() bool {
	return strings.TrimSpace(s.ImageURL) != ""
}

// Action is a positioned overlay as stored. Geometry is a percentage (0-100)
// of the image's natural width/height; nil means the value is missing.
type Action struct {
	ActionType  ActionType `json:"action_type" yaml:"action_type"`
	PositionX   *float64   `json:"position_x,omitempty" yaml:"position_x,omitempty"`
	PositionY   *float64   `json:"position_y,omitempty" yaml:"position_y,omitempty"`
	Width       *float64   `json:"width,omitempty" yaml:"width,omitempty"`
	Height      *float64   `json:"height,omitempty" yaml:"height,omitempty"`
	Label       string     `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string     `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	LabelStyle  LabelStyle `json:"label_style,omitempty" yaml:"label_style,omitempty"`

	CommentText      string   `json:"comment_text,omitempty" yaml:"comment_text,omitempty"`
	CommentBgColor   string   `json:"comment_bg_color,omitempty" yaml:"comment_bg_color,omitempty"`
	CommentTextColor string   `json:"comment_text_color,omitempty" yaml:"comment_text_color,omitempty"`
	CommentFontSize  *float64 `json:"comment_font_size,omitempty" yaml:"comment_font_size,omitempty"`
}

// Overlay is the closed set of drawable overlays. Only CommentOverlay and
// FieldOverlay implement it.
type Overlay interface {
	box() Box
	isOverlay()
}

type CommentOverlay struct {
	Box        Box
	Text       string
	Background color.NRGBA
	Foreground color.NRGBA
	FontSize   float64
}

func (o CommentOverlay) box() Box   { return o.Box }
func (CommentOverlay) isOverlay() {}

// FieldKind separates text inputs from every other interactive action.
type FieldKind int

const (
	FieldTextInput FieldKind = iota
	FieldOtherInteractive
)

// FieldStyle is a visible label style; invisible fields never become overlays.
type FieldStyle int

const (
	StyleTextOnly FieldStyle = iota
	StyleTextWithShadow
	StyleShadowOnly
)

func (s FieldStyle) drawsShadow() bool { return s == StyleShadowOnly || s == StyleTextWithShadow }
func (s FieldStyle) drawsText() bool   { return s == StyleTextOnly || s == StyleTextWithShadow }

type FieldOverlay struct {
	Box   Box
	Kind  FieldKind
	Style FieldStyle
	Text  string
}

func (o FieldOverlay) box() Box   { return o.Box }
func (FieldOverlay) isOverlay() {}

// Classify turns a stored action into a drawable overlay. It returns false for
// non-comment actions whose label style is invisible, empty or unknown.
func Classify(a Action) (Overlay, bool) {
	b := boxOf(a)
	if normalizeType(a.ActionType) == ActionComment {
		text := strings.TrimSpace(a.CommentText)
		if text == "" {
			text = strings.TrimSpace(a.Label)
		}
		size := DefaultCommentFontSize
		if a.CommentFontSize != nil && finite(*a.CommentFontSize) && *a.CommentFontSize > 0 {
			size = *a.CommentFontSize
		}
		return CommentOverlay{
			Box:        b,
			Text:       text,
			Background: ParseColor(a.CommentBgColor, DefaultCommentBackground),
			Foreground: ParseColor(a.CommentTextColor, DefaultCommentForeground),
			FontSize:   size,
		}, true
	}

	style, visible := fieldStyle(a.LabelStyle)
	if !visible {
		return nil, false
	}
	kind := FieldOtherInteractive
	if normalizeType(a.ActionType) == ActionTextInput {
		kind = FieldTextInput
	}
	text := strings.TrimSpace(a.Label)
	if text == "" {
		text = strings.TrimSpace(a.Placeholder)
	}
	return FieldOverlay{Box: b, Kind: kind, Style: style, Text: text}, true
}

func normalizeType(t ActionType) ActionType {
	return ActionType(strings.ToLower(strings.TrimSpace(string(t))))
}

func fieldStyle(s LabelStyle) (FieldStyle, bool) {
	switch LabelStyle(strings.ToLower(strings.TrimSpace(string(s)))) {
	case LabelTextOnly:
		return StyleTextOnly, true
	case LabelTextWithShadow:
		return StyleTextWithShadow, true
	case LabelShadowOnly:
		return StyleShadowOnly, true
	default:
		return 0, false
	}
}

package models

import (
	"fmt"
	"regexp"
	"strings"
)

var colorPattern = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

// borderStyles lists the accepted Border.Style names.
var borderStyles = map[string]bool{
	"":       true,
	"thin":   true,
	"medium": true,
	"thick":  true,
	"dashed": true,
	"dotted": true,
	"double": true,
}

// Font holds font attributes. Zero fields mean the sheet default.
type Font struct {
	Bold  bool    `json:"bold,omitempty" yaml:"bold,omitempty"`
	Size  float64 `json:"size,omitempty" yaml:"size,omitempty"`
	Color string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Fill holds a solid background color.
type Fill struct {
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Border holds an outline applied to all four cell edges.
type Border struct {
	Style string `json:"style,omitempty" yaml:"style,omitempty"`
	Color string `json:"color,omitempty" yaml:"color,omitempty"`
}

// Style is a comparable set of cell formatting attributes. Styles are
// values: modifying a copy never affects cells that share the original.
type Style struct {
	Font   Font   `json:"font,omitempty" yaml:"font,omitempty"`
	Fill   Fill   `json:"fill,omitempty" yaml:"fill,omitempty"`
	Border Border `json:"border,omitempty" yaml:"border,omitempty"`
}

// WithBold returns a copy of s with bold set.
func (s Style) WithBold(bold bool) Style {
	s.Font.Bold = bold
	return s
}

// WithFontSize returns a copy of s with the font size set.
func (s Style) WithFontSize(size float64) Style {
	s.Font.Size = size
	return s
}

// WithFontColor returns a copy of s with the font color set.
func (s Style) WithFontColor(color string) Style {
	s.Font.Color = color
	return s
}

// WithFill returns a copy of s with the fill color set.
func (s Style) WithFill(color string) Style {
	s.Fill.Color = color
	return s
}

// WithBorder returns a copy of s with the border set.
func (s Style) WithBorder(style, color string) Style {
	s.Border = Border{Style: style, Color: color}
	return s
}

// IsZero reports whether s carries only defaults.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Validate checks every attribute against its domain.
func (s Style) Validate() error {
	if s.Font.Size < 0 {
		return fmt.Errorf("%w: font size %v must be positive", ErrInvalidStyle, s.Font.Size)
	}
	for _, c := range []string{s.Font.Color, s.Fill.Color, s.Border.Color} {
		if c != "" && !colorPattern.MatchString(c) {
			return fmt.Errorf("%w: color %q is not #RRGGBB", ErrInvalidStyle, c)
		}
	}
	if !borderStyles[s.Border.Style] {
		return fmt.Errorf("%w: unknown border style %q", ErrInvalidStyle, s.Border.Style)
	}
	return nil
}

// normalize canonicalizes colors to "#RRGGBB" so that equal styles intern
// to the same entry.
func (s Style) normalize() Style {
	s.Font.Color = normalizeColor(s.Font.Color)
	s.Fill.Color = normalizeColor(s.Fill.Color)
	s.Border.Color = normalizeColor(s.Border.Color)
	if s.Border.Style == "" {
		s.Border.Color = ""
	}
	return s
}

func normalizeColor(c string) string {
	if c == "" {
		return ""
	}
	return "#" + strings.ToUpper(strings.TrimPrefix(c, "#"))
}

// StyleSet interns styles by content so that cells requesting identical
// formatting share one *Style. Interned styles must not be modified.
type StyleSet struct {
	styles map[Style]*Style
}

// NewStyleSet creates an empty StyleSet.
func NewStyleSet() *StyleSet {
	return &StyleSet{styles: make(map[Style]*Style)}
}

// Intern validates s and returns the shared instance for its content. The
// zero style interns to nil, which means the sheet default.
func (ss *StyleSet) Intern(s Style) (*Style, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s = s.normalize()
	if s.IsZero() {
		return nil, nil
	}
	if p, ok := ss.styles[s]; ok {
		return p, nil
	}
	p := &s
	ss.styles[s] = p
	return p, nil
}

// Len returns the number of distinct styles interned.
func (ss *StyleSet) Len() int {
	return len(ss.styles)
}

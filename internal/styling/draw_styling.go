// Package styling provides the colors and font styles the workbench renders
// with.
package styling

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ja-he/workbench/internal/config"
)

// DrawStyling is style information used for rendering text.
// It represents foreground and background color as well as modifiers such as
// italicization, and can be converted to the styling a renderer needs, e.g.
// a tcell.Style via AsTcell.
type DrawStyling interface {
	AsTcell() tcell.Style

	DefaultDimmed() DrawStyling
	DefaultEmphasized() DrawStyling
	LightenedBG(percentage int) DrawStyling
	DarkenedBG(percentage int) DrawStyling

	Italicized() DrawStyling
	Bolded() DrawStyling

	ToString() string
}

// FallbackStyling is a DrawStyling that holds non-renderer-specific colors.
type FallbackStyling struct {
	fg colorful.Color
	bg colorful.Color

	bold, italic, underlined bool
}

// AsTcell returns this styling as a tcell.Style.
func (s *FallbackStyling) AsTcell() tcell.Style {
	return tcell.StyleDefault.
		Foreground(colorfulColorToTcellColor(s.fg)).
		Background(colorfulColorToTcellColor(s.bg)).
		Bold(s.bold).
		Italic(s.italic).
		Underline(s.underlined)
}

// DefaultDimmed returns a copy of this styling with both colors moved towards
// the background's lightness, e.g. for parts of an inactive stack.
func (s *FallbackStyling) DefaultDimmed() DrawStyling {
	result := s.clone()
	if isDark(s.bg) {
		result.fg = darkenColorfulColor(result.fg, 40)
	} else {
		result.fg = lightenColorfulColor(result.fg, 40)
	}
	return result
}

// DefaultEmphasized returns a copy of this styling with a background set off
// from the original, e.g. for the selected tab.
func (s *FallbackStyling) DefaultEmphasized() DrawStyling {
	result := s.clone()
	if isDark(s.bg) {
		result.bg = lightenColorfulColor(result.bg, 15)
	} else {
		result.bg = darkenColorfulColor(result.bg, 15)
	}
	return result
}

// LightenedBG returns a copy of this styling with the background color
// lightened by the requested percentage.
func (s *FallbackStyling) LightenedBG(percentage int) DrawStyling {
	result := s.clone()
	result.bg = lightenColorfulColor(result.bg, percentage)
	return result
}

// DarkenedBG returns a copy of this styling with the background color darkened
// by the requested percentage.
func (s *FallbackStyling) DarkenedBG(percentage int) DrawStyling {
	result := s.clone()
	result.bg = darkenColorfulColor(result.bg, percentage)
	return result
}

// Italicized returns an italicized copy of this styling.
func (s *FallbackStyling) Italicized() DrawStyling {
	result := s.clone()
	result.italic = true
	return result
}

// Bolded returns a bold copy of this styling.
func (s *FallbackStyling) Bolded() DrawStyling {
	result := s.clone()
	result.bold = true
	return result
}

// ToString returns a string representation of this styling, e.g., for logging
// purposes.
func (s *FallbackStyling) ToString() string {
	return fmt.Sprintf(
		"[fg:'%s' bg:'%s' (b:%t i:%t u:%t)]",
		s.fg.Hex(),
		s.bg.Hex(),
		s.bold,
		s.italic,
		s.underlined,
	)
}

func (s *FallbackStyling) clone() *FallbackStyling {
	newS := *s
	return &newS
}

// StyleFromHex constructs a styling from two colors in hexadecimal or HTML
// notation, e.g. '#ff0000' or '#fff'.
// Malformed colors fall back to black and white respectively.
func StyleFromHex(fg, bg string) *FallbackStyling {
	return &FallbackStyling{
		fg: colorfulColorFromHexString(fg, colorful.Color{R: 0, G: 0, B: 0}),
		bg: colorfulColorFromHexString(bg, colorful.Color{R: 1, G: 1, B: 1}),
	}
}

// StyleFromConfig constructs a styling from its configuration.
func StyleFromConfig(c config.Styling) *FallbackStyling {
	s := StyleFromHex(c.Fg, c.Bg)
	if c.Style != nil {
		s.bold = c.Style.Bold
		s.italic = c.Style.Italic
		s.underlined = c.Style.Underlined
	}
	return s
}

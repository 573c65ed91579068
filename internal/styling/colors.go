package styling

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

func colorfulColorToTcellColor(color colorful.Color) tcell.Color {
	r, g, b := color.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// lightenColorfulColor moves the lightness the given percentage of the way
// towards white.
func lightenColorfulColor(color colorful.Color, percentage int) colorful.Color {
	hue, sat, ltn := color.Hsl()
	scalar := float64(percentage) / 100.0
	return colorful.Hsl(hue, sat, ltn+(1.0-ltn)*scalar)
}

// darkenColorfulColor moves the lightness the given percentage of the way
// towards black.
func darkenColorfulColor(color colorful.Color, percentage int) colorful.Color {
	hue, sat, ltn := color.Hsl()
	scalar := float64(percentage) / 100.0
	return colorful.Hsl(hue, sat, ltn-ltn*scalar)
}

func isDark(color colorful.Color) bool {
	_, _, ltn := color.Hsl()
	return ltn < 0.5
}

func colorfulColorFromHexString(hex string, fallback colorful.Color) colorful.Color {
	color, err := colorful.Hex(hex)
	if err != nil {
		return fallback
	}
	return color
}

package styling

import (
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

func TestLighten(t *testing.T) {
	input := colorful.Color{
		R: float64(0x12) / 255.0,
		G: float64(0x34) / 255.0,
		B: float64(0x56) / 255.0,
	}

	t.Run("0% -> no change", func(t *testing.T) {
		result := lightenColorfulColor(input, 0)
		if !result.AlmostEqualRgb(input) {
			t.Errorf("%s instead of %s", result.Hex(), input.Hex())
		}
	})

	t.Run("100% -> white", func(t *testing.T) {
		expected := colorful.Color{R: 1.0, G: 1.0, B: 1.0}
		result := lightenColorfulColor(input, 100)
		if !result.AlmostEqualRgb(expected) {
			t.Errorf("%s instead of %s", result.Hex(), expected.Hex())
		}
	})
}

func TestDarken(t *testing.T) {
	input := colorful.Color{R: 0.5, G: 0.5, B: 0.5}

	t.Run("100% -> black", func(t *testing.T) {
		expected := colorful.Color{}
		result := darkenColorfulColor(input, 100)
		if !result.AlmostEqualRgb(expected) {
			t.Errorf("%s instead of %s", result.Hex(), expected.Hex())
		}
	})

	t.Run("50% -> half as light", func(t *testing.T) {
		_, _, before := input.Hsl()
		_, _, after := darkenColorfulColor(input, 50).Hsl()
		if after < before*0.49 || after > before*0.51 {
			t.Errorf("lightness %f, expected about %f", after, before/2)
		}
	})
}

func TestStyleFromHex(t *testing.T) {
	s := StyleFromHex("#ff0000", "not-a-color")
	fg, bg, _ := s.AsTcell().Decompose()
	if r, g, b := fg.RGB(); r != 0xff || g != 0 || b != 0 {
		t.Errorf("fg decomposes to %d,%d,%d", r, g, b)
	}
	if r, g, b := bg.RGB(); r != 0xff || g != 0xff || b != 0xff {
		t.Errorf("malformed bg did not fall back to white, got %d,%d,%d", r, g, b)
	}

	dimmed := s.DefaultDimmed()
	if dimmed.ToString() == s.ToString() {
		t.Error("dimmed styling equals original")
	}
	if s.Bolded().AsTcell() == s.AsTcell() {
		t.Error("bolded styling equals original")
	}
}

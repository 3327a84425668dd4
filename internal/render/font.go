package render

import (
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/font"
)

// Family is a generic font family used for replacement text
type Family string

const (
	FamilySerif     Family = "serif"
	FamilySansSerif Family = "sans-serif"
	FamilyMonospace Family = "monospace"
)

// FamilyFor maps a PDF font name (possibly subset-prefixed, e.g.
// "ABCDEF+TimesNewRomanPSMT") to a generic family.
func FamilyFor(fontName string) Family {
	name := strings.ToLower(fontName)
	if i := strings.IndexByte(name, '+'); i >= 0 {
		name = name[i+1:]
	}
	switch {
	case strings.Contains(name, "courier"), strings.Contains(name, "mono"), strings.Contains(name, "consola"):
		return FamilyMonospace
	case strings.Contains(name, "times"), strings.Contains(name, "georgia"), strings.Contains(name, "garamond"),
		strings.Contains(name, "roman"), strings.Contains(name, "cambria"):
		return FamilySerif
	default:
		return FamilySansSerif
	}
}

// CoreFont returns the standard PDF font used to draw a family
func CoreFont(f Family) string {
	switch f {
	case FamilySerif:
		return "Times-Roman"
	case FamilyMonospace:
		return "Courier"
	default:
		return "Helvetica"
	}
}

// Metrics describes the extent of a run of text
type Metrics struct {
	Width   float64 `json:"width"`
	Ascent  float64 `json:"ascent"`
	Descent float64 `json:"descent"`
}

// Measurer measures text set in a family at a size
type Measurer interface {
	MeasureText(text string, family Family, size float64) Metrics
}

// Ascent and descent as a fraction of the font size, used when real
// glyph bounds are not available.
const (
	DefaultAscent  = 0.8
	DefaultDescent = 0.2
)

// CoreFontMeasurer measures with the AFM widths of the standard PDF fonts
type CoreFontMeasurer struct{}

// MeasureText implements Measurer
func (CoreFontMeasurer) MeasureText(text string, family Family, size float64) Metrics {
	if text == "" {
		return Metrics{Ascent: DefaultAscent * size, Descent: DefaultDescent * size}
	}
	// widths come back in user space units for the requested integer size
	w := font.TextWidth(text, CoreFont(family), 1000) / 1000 * size
	return Metrics{
		Width:   w,
		Ascent:  DefaultAscent * size,
		Descent: DefaultDescent * size,
	}
}

// FixedMeasurer gives every rune the same advance, in ems. Useful when no
// font data is available and in tests.
type FixedMeasurer struct {
	Advance float64
}

// MeasureText implements Measurer
func (m FixedMeasurer) MeasureText(text string, _ Family, size float64) Metrics {
	adv := m.Advance
	if adv == 0 {
		adv = 0.5
	}
	return Metrics{
		Width:   float64(len([]rune(text))) * adv * size,
		Ascent:  DefaultAscent * size,
		Descent: DefaultDescent * size,
	}
}

// Package probe measures how many monospace character columns fit in a
// rendering surface. The measurement is taken once per formatting pass
// and shared by every block on the page, so continuation indentation and
// break decisions work from one width baseline.
package probe

// Surface reports the metrics of a rendering area. Implementations decide
// how a glyph is measured: a terminal reports one column per cell, a
// pixel surface reports font advance widths.
type Surface interface {
	// GlyphAdvance returns the advance width of one monospace glyph in
	// the surface's units, or zero when the surface cannot measure
	// (hidden or not yet realized).
	GlyphAdvance() float64

	// ContentWidth returns the width available for block content in the
	// same units as GlyphAdvance.
	ContentWidth() float64
}

// Columns returns the number of character columns available on the
// surface. When the glyph advance is zero or negative the measurement is
// unavailable and the fallback column count is returned instead.
func Columns(s Surface, fallback int) int {
	glyph := s.GlyphAdvance()
	if glyph <= 0 {
		return fallback
	}
	width := s.ContentWidth()
	if width <= 0 {
		return 0
	}
	return int(width / glyph)
}

// Fixed is a surface with known metrics, used for one-shot formatting at
// a requested width and for tests.
type Fixed struct {
	Glyph float64
	Width float64
}

// GlyphAdvance returns the fixed glyph advance.
func (f Fixed) GlyphAdvance() float64 { return f.Glyph }

// ContentWidth returns the fixed content width.
func (f Fixed) ContentWidth() float64 { return f.Width }

// FixedColumns returns a surface that yields exactly cols columns.
func FixedColumns(cols int) Fixed {
	return Fixed{Glyph: 1, Width: float64(cols)}
}

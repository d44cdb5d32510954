package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// Theme maps block markup class names to terminal styles, derived from a
// chroma style. Unknown style names use chroma's fallback style.
type Theme struct {
	name   string
	base   tcell.Style
	styles map[string]tcell.Style
}

// NewTheme builds the class-to-style table for the named chroma style.
func NewTheme(name string) *Theme {
	style := styles.Get(name)

	base := tcell.StyleDefault
	if bg := style.Get(chroma.Background); bg.Background.IsSet() {
		base = base.Background(cellColor(bg.Background))
	}

	t := &Theme{name: name, base: base, styles: make(map[string]tcell.Style)}
	for tt, class := range chroma.StandardTypes {
		// Negative types are chroma's formatting pseudo-tokens, except
		// Error, which real token streams carry.
		if class == "" || (tt < 0 && tt != chroma.Error) {
			continue
		}
		t.styles[class] = cellStyle(base, style.Get(tt))
	}
	return t
}

// Name returns the requested style name.
func (t *Theme) Name() string {
	return t.name
}

// Base returns the style for unstyled text inside a block.
func (t *Theme) Base() tcell.Style {
	return t.base
}

// Style returns the terminal style for a markup class. Unknown classes
// render in the base style.
func (t *Theme) Style(class string) tcell.Style {
	if st, ok := t.styles[class]; ok {
		return st
	}
	return t.base
}

func cellStyle(base tcell.Style, entry chroma.StyleEntry) tcell.Style {
	st := base
	if entry.Colour.IsSet() {
		st = st.Foreground(cellColor(entry.Colour))
	}
	if entry.Background.IsSet() {
		st = st.Background(cellColor(entry.Background))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	if entry.Underline == chroma.Yes {
		st = st.Underline(true)
	}
	return st
}

func cellColor(c chroma.Colour) tcell.Color {
	return tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
}

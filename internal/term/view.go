package term

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codefit/internal/block"
	"github.com/dshills/codefit/internal/highlight"
	"github.com/dshills/codefit/internal/page"
	"github.com/dshills/codefit/internal/segment"
)

// span is one styled run within a display row.
type span struct {
	text  string
	style tcell.Style
}

// row is one display line. Code rows get their background painted to
// the screen edge.
type row struct {
	spans []span
	code  bool
}

// reflowToken marks the interrupt posted when the resize debounce
// expires.
type reflowToken struct{}

// ViewerConfig carries the viewer's tunables.
type ViewerConfig struct {
	// Gutter is the left margin reserved before code block content.
	Gutter int
	// Debounce is the quiet window after a resize before a
	// formatting pass runs.
	Debounce time.Duration
	// Reflow runs one formatting pass against the current screen
	// size. May be nil when no reformatting is wired.
	Reflow func()
}

// Viewer draws a document and owns the terminal event loop.
type Viewer struct {
	screen   *Screen
	theme    *highlight.Theme
	gutter   int
	debounce time.Duration
	reflow   func()

	mu    sync.Mutex
	doc   *page.Document
	rows  []row
	top   int
	timer *time.Timer
}

// NewViewer builds a viewer for the document. The screen must be
// initialized before Run.
func NewViewer(screen *Screen, doc *page.Document, theme *highlight.Theme, cfg ViewerConfig) *Viewer {
	return &Viewer{
		screen:   screen,
		theme:    theme,
		gutter:   cfg.Gutter,
		debounce: cfg.Debounce,
		reflow:   cfg.Reflow,
		doc:      doc,
	}
}

// GlyphAdvance reports one column per glyph; terminals are cell grids.
func (v *Viewer) GlyphAdvance() float64 {
	return 1
}

// ContentWidth returns the columns available to block content after the
// gutter.
func (v *Viewer) ContentWidth() float64 {
	w, _ := v.screen.Size()
	w -= v.gutter
	if w < 0 {
		w = 0
	}
	return float64(w)
}

// SetDocument swaps the displayed document. Call Refresh afterwards to
// wake the event loop and repaint.
func (v *Viewer) SetDocument(doc *page.Document) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.doc = doc
}

// Refresh wakes the event loop for a rebuild and repaint. Safe from any
// goroutine.
func (v *Viewer) Refresh() {
	v.screen.Interrupt(nil)
}

// Reformat wakes the event loop, runs the formatting pass on it, and
// repaints. Safe from any goroutine.
func (v *Viewer) Reformat() {
	v.screen.Interrupt(reflowToken{})
}

// Run drives the event loop until a quit key or the screen is
// finalized.
func (v *Viewer) Run() error {
	v.rebuild()
	v.draw()

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			if isQuitKey(e) {
				return nil
			}
			v.handleKey(e)
			v.draw()

		case *tcell.EventResize:
			v.screen.Sync()
			v.rebuild()
			v.draw()
			v.armReflow()

		case *tcell.EventInterrupt:
			if _, ok := e.Data().(reflowToken); ok && v.reflow != nil {
				v.reflow()
			}
			v.rebuild()
			v.draw()
		}
	}
}

// armReflow starts or re-arms the resize debounce. Expiry posts an
// interrupt back to the event loop, so the pass itself runs on the loop
// goroutine.
func (v *Viewer) armReflow() {
	if v.reflow == nil || v.debounce <= 0 {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.timer != nil {
		v.timer.Reset(v.debounce)
		return
	}
	v.timer = time.AfterFunc(v.debounce, func() {
		v.screen.Interrupt(reflowToken{})
	})
}

func isQuitKey(e *tcell.EventKey) bool {
	if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
		return true
	}
	return e.Key() == tcell.KeyRune && e.Rune() == 'q'
}

func keyRune(e *tcell.EventKey, r rune) bool {
	return e.Key() == tcell.KeyRune && e.Rune() == r
}

func (v *Viewer) handleKey(e *tcell.EventKey) {
	_, h := v.screen.Size()
	pageSize := h - 1
	if pageSize < 1 {
		pageSize = 1
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case e.Key() == tcell.KeyDown || keyRune(e, 'j'):
		v.top++
	case e.Key() == tcell.KeyUp || keyRune(e, 'k'):
		v.top--
	case e.Key() == tcell.KeyPgDn || keyRune(e, ' ') || keyRune(e, 'f'):
		v.top += pageSize
	case e.Key() == tcell.KeyPgUp || keyRune(e, 'b'):
		v.top -= pageSize
	case e.Key() == tcell.KeyHome || keyRune(e, 'g'):
		v.top = 0
	case e.Key() == tcell.KeyEnd || keyRune(e, 'G'):
		v.top = len(v.rows)
	}
	v.top = clampTop(v.top, len(v.rows), pageSize)
}

// clampTop keeps the scroll offset inside the document.
func clampTop(top, total, visible int) int {
	maxTop := total - visible
	if maxTop < 0 {
		maxTop = 0
	}
	if top > maxTop {
		top = maxTop
	}
	if top < 0 {
		top = 0
	}
	return top
}

func (v *Viewer) rebuild() {
	w, _ := v.screen.Size()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.rows = buildRows(v.doc, w, v.gutter, v.theme)
}

func (v *Viewer) draw() {
	w, h := v.screen.Size()
	visible := h - 1
	if visible < 1 {
		visible = h
	}

	v.mu.Lock()
	v.top = clampTop(v.top, len(v.rows), visible)
	rows := v.rows
	top := v.top
	title := ""
	if v.doc != nil {
		title = v.doc.Title
	}
	v.mu.Unlock()

	v.screen.Clear()
	y := 0
	for i := top; i < len(rows) && y < visible; i++ {
		x := 0
		for _, sp := range rows[i].spans {
			x = v.screen.SetText(x, y, sp.text, sp.style)
		}
		if rows[i].code && x < w {
			v.screen.SetText(x, y, strings.Repeat(" ", w-x), v.theme.Base())
		}
		y++
	}
	if h >= 2 {
		v.drawStatus(w, h-1, title, top, len(rows), visible)
	}
	v.screen.Show()
}

func (v *Viewer) drawStatus(w, y int, title string, top, total, visible int) {
	pct := 100
	if total > visible {
		pct = (top + visible) * 100 / total
	}
	left := " " + title
	right := fmt.Sprintf("%d%%  q quit ", pct)
	gap := w - segment.StringWidth(left) - segment.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	v.screen.SetText(0, y, left+strings.Repeat(" ", gap)+right, tcell.StyleDefault.Reverse(true))
}

// buildRows lays the document out as display lines at the given screen
// width. Prose wraps at word boundaries; code lines come through as the
// formatter left them.
func buildRows(doc *page.Document, width, gutter int, theme *highlight.Theme) []row {
	if doc == nil {
		return nil
	}

	plain := tcell.StyleDefault
	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)

	var rows []row
	for i := range doc.Regions {
		r := &doc.Regions[i]
		if i > 0 {
			rows = append(rows, row{})
		}
		switch r.Kind {
		case page.KindHeading:
			for _, ln := range wrap(r.Text, width) {
				rows = append(rows, row{spans: []span{{ln, bold}}})
			}

		case page.KindProse:
			ind := strings.Repeat("  ", r.Level)
			for _, ln := range wrap(r.Text, width-len(ind)) {
				rows = append(rows, row{spans: []span{{ind + ln, plain}}})
			}

		case page.KindListItem:
			ind := strings.Repeat("  ", r.Level-1)
			hang := ind + "  "
			for j, ln := range wrap(r.Text, width-len(ind)) {
				prefix := ind
				if j > 0 {
					prefix = hang
				}
				rows = append(rows, row{spans: []span{{prefix + ln, plain}}})
			}

		case page.KindRule:
			n := width
			if n > 40 {
				n = 40
			}
			if n < 1 {
				n = 1
			}
			rows = append(rows, row{spans: []span{{strings.Repeat("─", n), dim}}})

		case page.KindCode:
			rows = append(rows, codeRows(r.Block, gutter, theme)...)
		}
	}
	return rows
}

func codeRows(b *block.Block, gutter int, theme *highlight.Theme) []row {
	pad := strings.Repeat(" ", gutter)

	lines, err := b.Lines()
	if err != nil {
		// Unparseable markup: show it raw rather than hide the block.
		var out []row
		for _, ln := range strings.Split(b.Current, "\n") {
			out = append(out, row{code: true, spans: []span{{pad + ln, theme.Base()}}})
		}
		return out
	}

	var out []row
	for _, ln := range lines {
		spans := []span{{pad, theme.Base()}}
		for _, seg := range ln {
			spans = append(spans, span{seg.Text, theme.Style(block.Class(seg))})
		}
		out = append(out, row{code: true, spans: spans})
	}
	return out
}

// wrap greedily word-wraps text to the given width. Words longer than
// the width stay whole and clip at draw time.
func wrap(text string, width int) []string {
	if width <= 0 || segment.StringWidth(text) <= width {
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{text}
	}

	var lines []string
	cur := words[0]
	for _, w := range words[1:] {
		if segment.StringWidth(cur)+1+segment.StringWidth(w) <= width {
			cur += " " + w
			continue
		}
		lines = append(lines, cur)
		cur = w
	}
	return append(lines, cur)
}

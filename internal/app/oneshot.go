package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dshills/codefit/internal/block"
	"github.com/dshills/codefit/internal/page"
	"github.com/dshills/codefit/internal/probe"
	"github.com/dshills/codefit/internal/segment"
)

// oneShotColumns picks the non-interactive formatting width: the forced
// width when set, the configured fallback otherwise.
func (a *Application) oneShotColumns() int {
	if a.cfg.Layout.ForcedColumns > 0 {
		return a.cfg.Layout.ForcedColumns
	}
	return a.cfg.Layout.FallbackColumns
}

// runPlain formats once and writes the document as plain text. The code
// budget is the requested width minus the gutter the writer indents
// blocks by, so printed lines fit the requested width.
func (a *Application) runPlain(w io.Writer) error {
	cols := a.oneShotColumns() - a.cfg.Viewer.Gutter
	if cols < 0 {
		cols = 0
	}
	a.engine.Pass(a.doc, probe.FixedColumns(cols))
	return writePlain(w, a.doc, a.cfg.Viewer.Gutter)
}

// runHTML formats once and writes every code block as markup, pristine
// originals carried in data-original attributes. Nothing pads the
// output, so the full requested width is the budget.
func (a *Application) runHTML(w io.Writer) error {
	a.engine.Pass(a.doc, probe.FixedColumns(a.oneShotColumns()))
	for _, b := range a.doc.Blocks() {
		if err := b.WriteHTML(w); err != nil {
			return fmt.Errorf("app: writing markup: %w", err)
		}
	}
	return nil
}

// writePlain renders the document for a pipe or pager: headings and
// prose as-is, list nesting as two-space indents, code lines flattened
// from their markup under a gutter margin.
func writePlain(w io.Writer, doc *page.Document, gutter int) error {
	bw := bufio.NewWriter(w)
	pad := strings.Repeat(" ", gutter)

	for i := range doc.Regions {
		r := &doc.Regions[i]
		if i > 0 {
			bw.WriteByte('\n')
		}
		switch r.Kind {
		case page.KindHeading:
			fmt.Fprintln(bw, r.Text)
		case page.KindProse:
			fmt.Fprintln(bw, strings.Repeat("  ", r.Level)+r.Text)
		case page.KindListItem:
			fmt.Fprintln(bw, strings.Repeat("  ", r.Level-1)+r.Text)
		case page.KindRule:
			fmt.Fprintln(bw, strings.Repeat("-", 40))
		case page.KindCode:
			writePlainBlock(bw, pad, r.Block)
		}
	}
	return bw.Flush()
}

func writePlainBlock(bw *bufio.Writer, pad string, b *block.Block) {
	lines, err := b.Lines()
	if err != nil {
		// Unparseable markup is shown raw, matching the viewer.
		for _, ln := range strings.Split(b.Current, "\n") {
			fmt.Fprintln(bw, pad+ln)
		}
		return
	}
	for _, ln := range lines {
		fmt.Fprintln(bw, pad+segment.Flatten(ln))
	}
}

// Package block models one rendered unit of highlighted code: its
// language tag, its current markup, and a lazily-saved copy of the
// pristine markup that makes every reflow mutation reversible. The
// markup grammar is the highlighter's output: lines joined by newlines,
// each a mix of plain text runs and singly-styled
// <span class="…">…</span> runs, with &, <, > entity-escaped in text.
package block

import (
	"fmt"
	"io"
	"strings"

	"github.com/dshills/codefit/internal/segment"
)

// Block is one reflowable code region.
type Block struct {
	// Lang is the declared language tag from the fence.
	Lang string

	// Current is the markup being rendered right now.
	Current string

	original string
	saved    bool
}

// New returns a block holding pristine markup.
func New(lang, markup string) *Block {
	return &Block{Lang: lang, Current: markup}
}

// Snapshot saves the current markup as the pristine original. Only the
// first call takes effect; the snapshot is never overwritten. Callers
// snapshot immediately before the first mutation.
func (b *Block) Snapshot() {
	if !b.saved {
		b.original = b.Current
		b.saved = true
	}
}

// Restore puts the pristine markup back as the current one. Without a
// snapshot the block is already pristine and Restore is a no-op.
func (b *Block) Restore() {
	if b.saved {
		b.Current = b.original
	}
}

// Snapshotted reports whether the block has been mutated at least once.
func (b *Block) Snapshotted() bool {
	return b.saved
}

// Original returns the pristine markup.
func (b *Block) Original() string {
	if b.saved {
		return b.original
	}
	return b.Current
}

// Lines parses the current markup into styled lines.
func (b *Block) Lines() ([]segment.Line, error) {
	return Parse(b.Current)
}

// LineCount reports the number of markup lines without parsing, for the
// cheap size gate ahead of a formatting attempt.
func (b *Block) LineCount() int {
	return strings.Count(b.Current, "\n") + 1
}

// Render re-renders styled lines into block markup.
func Render(lines []segment.Line) string {
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = segment.Render(line)
	}
	return strings.Join(parts, "\n")
}

var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"<", "&lt;",
	">", "&gt;",
)

// WriteHTML serializes the block as a pre element. A snapshotted block
// carries its pristine markup in a data-original attribute, so the
// reflowed output stays exactly restorable.
func (b *Block) WriteHTML(w io.Writer) error {
	if _, err := fmt.Fprintf(w, `<pre data-lang="%s"`, attrEscaper.Replace(b.Lang)); err != nil {
		return err
	}
	if b.saved {
		if _, err := fmt.Fprintf(w, ` data-original="%s"`, attrEscaper.Replace(b.original)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, ">%s</pre>\n", b.Current)
	return err
}

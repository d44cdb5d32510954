package reflow

import (
	"strings"
	"testing"

	"github.com/dshills/codefit/internal/block"
	"github.com/dshills/codefit/internal/lang"
	"github.com/dshills/codefit/internal/page"
	"github.com/dshills/codefit/internal/probe"
	"github.com/dshills/codefit/internal/segment"
)

func newEngine() *Engine {
	return New(lang.NewRegistry(), DefaultConfig(), nil)
}

// codeDoc wraps blocks in a document holding only code regions.
func codeDoc(blocks ...*block.Block) *page.Document {
	doc := &page.Document{Title: "test"}
	for _, b := range blocks {
		doc.Regions = append(doc.Regions, page.Region{Kind: page.KindCode, Block: b})
	}
	return doc
}

// lineText flattens the block's current markup into plain text lines.
func lineText(t *testing.T, b *block.Block) []string {
	t.Helper()
	lines, err := b.Lines()
	if err != nil {
		t.Fatalf("Lines() error = %v", err)
	}
	out := make([]string, len(lines))
	for i, ln := range lines {
		out[i] = segment.Flatten(ln)
	}
	return out
}

func assertFits(t *testing.T, b *block.Block, budget int) {
	t.Helper()
	for i, ln := range lineText(t, b) {
		if w := segment.StringWidth(strings.TrimRight(ln, " ")); w > budget {
			t.Errorf("line %d width = %d, want <= %d: %q", i, w, budget, ln)
		}
	}
}

func TestFormatBreaksLongLine(t *testing.T) {
	e := newEngine()
	b := block.New("c", "alpha(beta, gamma, delta, epsilon, zeta)")

	if !e.Format(b, 30, 1) {
		t.Fatal("Format() = false, want true")
	}
	if !b.Snapshotted() {
		t.Error("block not snapshotted after mutation")
	}

	want := []string{
		"alpha(beta, gamma, delta, ",
		"      epsilon, zeta)",
	}
	got := lineText(t, b)
	if len(got) != len(want) {
		t.Fatalf("got %d lines %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	assertFits(t, b, 30)

	b.Restore()
	if b.Current != "alpha(beta, gamma, delta, epsilon, zeta)" {
		t.Errorf("Restore() left %q", b.Current)
	}
}

func TestFormatNoopWhenLineFits(t *testing.T) {
	e := newEngine()
	markup := "alpha(beta, gamma, delta, epsilon, zeta)"
	b := block.New("c", markup)

	if e.Format(b, 80, 1) {
		t.Error("Format() = true for a fitting line")
	}
	if b.Current != markup {
		t.Errorf("block mutated: %q", b.Current)
	}
	if b.Snapshotted() {
		t.Error("block snapshotted without a mutation")
	}
}

func TestFormatCompressesIndent(t *testing.T) {
	e := newEngine()
	b := block.New("python", "def f():\n    return 1")

	if !e.Format(b, 80, 0.75) {
		t.Fatal("Format() = false, want true")
	}
	got := lineText(t, b)
	want := []string{"def f():", "   return 1"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFormatExcludedLanguage(t *testing.T) {
	e := newEngine()
	markup := "all:\n\tgo build ./... && go test ./... && go vet ./..."
	b := block.New("make", markup)

	if e.Format(b, 20, 0.5) {
		t.Error("Format() = true for an excluded language")
	}
	if b.Current != markup {
		t.Errorf("excluded block mutated: %q", b.Current)
	}
}

func TestFormatLineCapSkipsLargeBlocks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxBlockLines = 2
	e := New(lang.NewRegistry(), cfg, nil)

	b := block.New("c", "alpha(beta, gamma, delta, epsilon, zeta)\nshort\nshort")
	if e.Format(b, 30, 1) {
		t.Error("Format() = true for an over-cap block")
	}
	if b.Snapshotted() {
		t.Error("over-cap block snapshotted")
	}
}

func TestPassFormatsDocument(t *testing.T) {
	e := newEngine()
	code := block.New("c", "alpha(beta, gamma, delta, epsilon, zeta)")
	excluded := block.New("make", "all:\n\tgo build")
	doc := codeDoc(code, excluded)

	res := e.Pass(doc, probe.FixedColumns(30))
	if res.Columns != 30 {
		t.Errorf("Columns = %d, want 30", res.Columns)
	}
	if res.Factor != 0.5 {
		t.Errorf("Factor = %v, want 0.5", res.Factor)
	}
	if res.Formatted != 1 {
		t.Errorf("Formatted = %d, want 1", res.Formatted)
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}
	assertFits(t, code, 30)
	if excluded.Snapshotted() {
		t.Error("excluded block was mutated")
	}
}

func TestPassRestoresOnWideSurface(t *testing.T) {
	e := newEngine()
	pristine := "alpha(beta, gamma, delta, epsilon, zeta)"
	code := block.New("c", pristine)
	doc := codeDoc(code)

	e.Pass(doc, probe.FixedColumns(30))
	if code.Current == pristine {
		t.Fatal("narrow pass left the block untouched")
	}

	res := e.Pass(doc, probe.FixedColumns(500))
	if res.Formatted != 0 {
		t.Errorf("Formatted = %d on an oversized surface", res.Formatted)
	}
	if res.Factor != 1 {
		t.Errorf("Factor = %v, want 1", res.Factor)
	}
	if code.Current != pristine {
		t.Errorf("wide pass did not restore: %q", code.Current)
	}
}

func TestPassHonorsPageWidthCap(t *testing.T) {
	e := newEngine()
	code := block.New("c", "alpha(beta, gamma, delta, epsilon, zeta)")
	doc := codeDoc(code)
	doc.Meta.Width = 25

	res := e.Pass(doc, probe.FixedColumns(80))
	if res.Columns != 25 {
		t.Errorf("Columns = %d, want the page cap 25", res.Columns)
	}
	if res.Formatted != 1 {
		t.Errorf("Formatted = %d, want 1", res.Formatted)
	}
	assertFits(t, code, 25)
}

func TestPassSkipsUnmeasurableSurface(t *testing.T) {
	e := newEngine()
	pristine := "alpha(beta, gamma, delta, epsilon, zeta)"
	code := block.New("c", pristine)
	doc := codeDoc(code)

	res := e.Pass(doc, probe.FixedColumns(0))
	if res.Formatted != 0 || res.Skipped != 0 {
		t.Errorf("Formatted = %d, Skipped = %d, want 0, 0", res.Formatted, res.Skipped)
	}
	if code.Current != pristine || code.Snapshotted() {
		t.Error("block touched during a skipped pass")
	}
}

func TestPassFrontMatterExclusion(t *testing.T) {
	e := newEngine()
	code := block.New("py", "alpha(beta, gamma, delta, epsilon, zeta)")
	doc := codeDoc(code)
	doc.Meta.Exclude = []string{"python"}

	res := e.Pass(doc, probe.FixedColumns(30))
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1; the alias resolves to an excluded name", res.Skipped)
	}
	if code.Snapshotted() {
		t.Error("excluded block was mutated")
	}
}

func TestPassSharedFactorAcrossBlocks(t *testing.T) {
	e := newEngine()
	first := block.New("python", "def f(x):\n    return g(x)")
	second := block.New("python", "if ready:\n        launch()")
	doc := codeDoc(first, second)

	res := e.Pass(doc, probe.FixedColumns(50))
	if res.Factor != 0.75 {
		t.Fatalf("Factor = %v, want 0.75 from the first block's unit", res.Factor)
	}

	got := lineText(t, first)
	if got[1] != "   return g(x)" {
		t.Errorf("first block line 1 = %q, want %q", got[1], "   return g(x)")
	}
	got = lineText(t, second)
	if got[1] != "      launch()" {
		t.Errorf("second block line 1 = %q, want %q", got[1], "      launch()")
	}
}

func TestPassSurvivesMalformedMarkup(t *testing.T) {
	e := newEngine()
	bad := block.New("c", `<span class="k">if`)
	good := block.New("c", "alpha(beta, gamma, delta, epsilon, zeta)")
	doc := codeDoc(bad, good)

	res := e.Pass(doc, probe.FixedColumns(30))
	if res.Formatted != 1 {
		t.Errorf("Formatted = %d, want 1", res.Formatted)
	}
	if bad.Current != `<span class="k">if` || bad.Snapshotted() {
		t.Error("malformed block was touched")
	}
	assertFits(t, good, 30)
}

func TestPassRecordsMetrics(t *testing.T) {
	e := newEngine()
	code := block.New("c", "alpha(beta, gamma, delta, epsilon, zeta)")
	excluded := block.New("asm", "mov eax, 1")
	doc := codeDoc(code, excluded)

	e.Pass(doc, probe.FixedColumns(30))

	snap := e.Metrics().Snapshot()
	if snap.PassCount != 1 {
		t.Errorf("PassCount = %d, want 1", snap.PassCount)
	}
	if snap.BlocksFormatted != 1 {
		t.Errorf("BlocksFormatted = %d, want 1", snap.BlocksFormatted)
	}
	if snap.BlocksSkipped != 1 {
		t.Errorf("BlocksSkipped = %d, want 1", snap.BlocksSkipped)
	}
	if snap.LinesBroken != 1 {
		t.Errorf("LinesBroken = %d, want 1", snap.LinesBroken)
	}
	if snap.Panics != 0 {
		t.Errorf("Panics = %d, want 0", snap.Panics)
	}
}

func TestPassIDsDiffer(t *testing.T) {
	e := newEngine()
	doc := codeDoc(block.New("c", "x = 1"))

	a := e.Pass(doc, probe.FixedColumns(80))
	b := e.Pass(doc, probe.FixedColumns(80))
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("pass ids %q and %q should be distinct and non-empty", a.ID, b.ID)
	}
}

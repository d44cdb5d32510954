package reflow

import (
	"time"

	"github.com/google/uuid"

	"github.com/dshills/codefit/internal/block"
	"github.com/dshills/codefit/internal/indent"
	"github.com/dshills/codefit/internal/lang"
	"github.com/dshills/codefit/internal/linebreak"
	"github.com/dshills/codefit/internal/log"
	"github.com/dshills/codefit/internal/page"
	"github.com/dshills/codefit/internal/probe"
	"github.com/dshills/codefit/internal/segment"
)

// Config bounds a pass and carries the tunables of the stages.
type Config struct {
	// Indent holds the compression thresholds and unit bounds.
	Indent indent.Config

	// Break holds the per-line breaking limits.
	Break linebreak.Config

	// MaxBlockLines skips blocks longer than this.
	MaxBlockLines int

	// MaxColumns disables the pass entirely on wider surfaces.
	MaxColumns int

	// FallbackCols is used when the surface cannot be measured.
	FallbackCols int
}

// DefaultConfig returns the standard pass configuration.
func DefaultConfig() Config {
	return Config{
		Indent:        indent.DefaultConfig(),
		Break:         linebreak.DefaultConfig(),
		MaxBlockLines: 500,
		MaxColumns:    200,
		FallbackCols:  80,
	}
}

// Engine formats blocks against a language registry.
type Engine struct {
	reg     *lang.Registry
	cfg     Config
	metrics *Metrics
	log     *log.Logger
}

// New builds an engine. A nil logger disables logging.
func New(reg *lang.Registry, cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.NullLogger
	}
	return &Engine{
		reg:     reg,
		cfg:     cfg,
		metrics: NewMetrics(),
		log:     logger.WithComponent("reflow"),
	}
}

// Metrics returns the engine's pass metrics.
func (e *Engine) Metrics() *Metrics {
	return e.metrics
}

// PassResult summarizes one formatting pass.
type PassResult struct {
	ID        string
	Columns   int
	Factor    float64
	Formatted int
	Skipped   int
	Duration  time.Duration
}

// Pass reformats every code block of the document against the surface.
// Previously-mutated blocks are restored first, so each pass reflects
// only the current width.
func (e *Engine) Pass(doc *page.Document, surface probe.Surface) PassResult {
	start := time.Now()
	id := passID()
	plog := e.log.WithField("pass", id)

	blocks := doc.Blocks()
	for _, b := range blocks {
		b.Restore()
	}

	cols := probe.Columns(surface, e.cfg.FallbackCols)
	if doc.Meta.Width > 0 && cols > doc.Meta.Width {
		cols = doc.Meta.Width
	}

	res := PassResult{ID: id, Columns: cols, Factor: 1}
	if cols <= 0 || cols > e.cfg.MaxColumns {
		plog.Debug("pass skipped at %d columns", cols)
		res.Duration = time.Since(start)
		return res
	}

	res.Factor = e.pageFactor(doc, blocks, cols)

	for i, b := range blocks {
		spec := e.reg.Lookup(b.Lang)
		if e.skip(doc, b, spec) {
			res.Skipped++
			continue
		}
		if e.safeFormat(i, b, spec, cols, res.Factor, plog) {
			res.Formatted++
		}
	}

	res.Duration = time.Since(start)
	e.metrics.RecordPass(res.Duration, res.Formatted, res.Skipped)
	plog.Debug("pass done: columns=%d factor=%.2f formatted=%d skipped=%d",
		cols, res.Factor, res.Formatted, res.Skipped)
	return res
}

// Format reformats a single block in isolation at the given width and
// factor. Reports whether the block's content changed.
func (e *Engine) Format(b *block.Block, columns int, factor float64) bool {
	spec := e.reg.Lookup(b.Lang)
	if spec.Excluded() || b.LineCount() > e.cfg.MaxBlockLines {
		return false
	}
	return e.format(b, spec, columns, factor, e.log)
}

// skip applies the pass-level gates: excluded languages, front matter
// exclusions, and the block line cap.
func (e *Engine) skip(doc *page.Document, b *block.Block, spec lang.Spec) bool {
	if spec.Excluded() {
		return true
	}
	if doc.ExcludesLang(b.Lang) || doc.ExcludesLang(spec.Name) {
		return true
	}
	return b.LineCount() > e.cfg.MaxBlockLines
}

// pageFactor derives the compression factor from the first block that
// will actually be formatted. The factor is shared by the whole page so
// sibling blocks keep consistent indentation.
func (e *Engine) pageFactor(doc *page.Document, blocks []*block.Block, cols int) float64 {
	for _, b := range blocks {
		spec := e.reg.Lookup(b.Lang)
		if e.skip(doc, b, spec) {
			continue
		}
		lines, err := b.Lines()
		if err != nil {
			continue
		}
		unit := indent.DetectUnit(lines, e.cfg.Indent.DefaultUnit)
		return indent.Factor(unit, cols, e.cfg.Indent)
	}
	return 1
}

// safeFormat isolates one block: a panic while formatting it is logged
// with the block index and the pass moves on.
func (e *Engine) safeFormat(idx int, b *block.Block, spec lang.Spec, cols int, factor float64, plog *log.Logger) (changed bool) {
	defer func() {
		if r := recover(); r != nil {
			e.metrics.RecordPanic()
			plog.WithField("block", idx).Error("formatting panic recovered: %v", r)
		}
	}()
	return e.format(b, spec, cols, factor, plog)
}

func (e *Engine) format(b *block.Block, spec lang.Spec, columns int, factor float64, plog *log.Logger) bool {
	b.Restore()

	lines, err := b.Lines()
	if err != nil {
		plog.Debug("block markup unparseable, leaving untouched: %v", err)
		return false
	}

	unit := indent.DetectUnit(lines, e.cfg.Indent.DefaultUnit)
	compressed := false
	if factor < 1 {
		lines, compressed = indent.Compress(lines, factor, unit)
	}

	out := make([]segment.Line, 0, len(lines))
	breaks := 0
	for _, ln := range lines {
		frags, ok := linebreak.Break(ln, spec, columns, e.cfg.Break)
		if !ok {
			out = append(out, ln)
			continue
		}
		out = append(out, frags...)
		breaks += len(frags) - 1
	}

	if !compressed && breaks == 0 {
		return false
	}

	e.metrics.RecordBreaks(breaks)
	b.Snapshot()
	b.Current = block.Render(out)
	return true
}

// passID returns a short correlation id for one pass's log lines.
func passID() string {
	return uuid.NewString()[:8]
}

// Package app wires the codefit components together and manages the
// application lifecycle: configuration, logging, the language registry,
// the loaded document, the formatting engine, and either the
// interactive viewer or a one-shot writer.
package app

import (
	"os"
	"sync"
	"sync/atomic"

	"github.com/dshills/codefit/internal/config"
	"github.com/dshills/codefit/internal/highlight"
	"github.com/dshills/codefit/internal/indent"
	"github.com/dshills/codefit/internal/lang"
	"github.com/dshills/codefit/internal/linebreak"
	"github.com/dshills/codefit/internal/log"
	"github.com/dshills/codefit/internal/page"
	"github.com/dshills/codefit/internal/probe"
	"github.com/dshills/codefit/internal/reflow"
	"github.com/dshills/codefit/internal/term"
	"github.com/dshills/codefit/internal/watch"
)

// Options configures the application.
type Options struct {
	// DocPath is the Markdown document to view.
	DocPath string

	// ConfigPath is the TOML configuration file. Empty falls back to
	// the CODEFIT_CONFIG environment variable, then to built-in
	// defaults.
	ConfigPath string

	// Width pins the formatting width instead of measuring the
	// terminal.
	Width int

	// LogLevel overrides the configured level when non-empty.
	LogLevel string

	// Plain writes the reflowed document as plain text to stdout and
	// exits.
	Plain bool

	// HTML writes the reflowed code blocks as markup to stdout and
	// exits.
	HTML bool

	// NoWatch disables live reload of the document and config files.
	NoWatch bool
}

// Application is the central coordinator. It bootstraps components in
// dependency order, runs one of the output modes, and shuts down.
type Application struct {
	opts Options

	mu      sync.RWMutex
	cfg     config.Config
	reg     *lang.Registry
	engine  *reflow.Engine
	doc     *page.Document
	screen  *term.Screen
	viewer  *term.Viewer
	watcher *watch.Watcher

	log *log.Logger

	running atomic.Bool
	closed  atomic.Bool
	done    chan struct{}
}

// New builds an application and bootstraps every component except the
// terminal, which is only taken over by Run in viewer mode.
func New(opts Options) (*Application, error) {
	a := &Application{opts: opts, done: make(chan struct{})}
	if err := a.bootstrap(); err != nil {
		return nil, err
	}
	return a, nil
}

// bootstrap initializes components in dependency order: config, logger,
// registry, engine, document.
func (a *Application) bootstrap() error {
	if a.opts.DocPath == "" {
		return &InitError{Component: "document", Err: ErrNoDocument}
	}
	if a.opts.Plain && a.opts.HTML {
		return ErrConflictingModes
	}

	cfg, err := config.Load(a.configPath())
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	a.applyOverrides(&cfg)

	a.log = log.New(log.Config{
		Level:  log.ParseLevel(cfg.Logging.Level),
		Output: os.Stderr,
		Prefix: "codefit",
	})

	reg, engine, err := a.buildEngine(cfg)
	if err != nil {
		return err
	}

	doc, err := page.Load(a.opts.DocPath, cfg.Layout.TabWidth)
	if err != nil {
		return &InitError{Component: "document", Err: err}
	}

	a.cfg = cfg
	a.reg = reg
	a.engine = engine
	a.doc = doc
	a.log.Info("loaded %s: %d regions, %d code blocks",
		a.opts.DocPath, len(doc.Regions), len(doc.Blocks()))
	return nil
}

// applyOverrides layers the command-line options over a loaded
// configuration. Shared with config reload so flags keep winning.
func (a *Application) applyOverrides(cfg *config.Config) {
	if a.opts.Width > 0 {
		cfg.Layout.ForcedColumns = a.opts.Width
	}
	if a.opts.LogLevel != "" {
		cfg.Logging.Level = a.opts.LogLevel
	}
}

// buildEngine constructs the language registry and formatting engine
// for one configuration. Used at bootstrap and again on config reload.
func (a *Application) buildEngine(cfg config.Config) (*lang.Registry, *reflow.Engine, error) {
	reg := lang.NewRegistry()
	if err := cfg.ApplyLanguages(reg); err != nil {
		return nil, nil, &InitError{Component: "languages", Err: err}
	}
	if cfg.LuaRules != "" {
		if err := lang.LoadLuaFile(reg, cfg.LuaRules); err != nil {
			return nil, nil, &InitError{Component: "lua rules", Err: err}
		}
	}
	return reg, reflow.New(reg, engineConfig(cfg), a.log), nil
}

// engineConfig maps the loaded configuration onto the engine tunables.
func engineConfig(cfg config.Config) reflow.Config {
	return reflow.Config{
		Indent: indent.Config{
			DefaultUnit:     cfg.Layout.DefaultIndentUnit,
			FloorUnit:       cfg.Layout.FloorIndentUnit,
			ComfortableCols: cfg.Layout.ComfortableColumns,
			AggressiveCols:  cfg.Layout.AggressiveColumns,
		},
		Break: linebreak.Config{
			MaxBreaks:  cfg.Limits.MaxLineBreaks,
			ContIndent: cfg.Layout.ContinuationIndent,
		},
		MaxBlockLines: cfg.Limits.MaxBlockLines,
		MaxColumns:    cfg.Layout.MaxColumns,
		FallbackCols:  cfg.Layout.FallbackColumns,
	}
}

// configPath resolves the configuration file path: the flag wins, then
// CODEFIT_CONFIG, then no file layer at all.
func (a *Application) configPath() string {
	if a.opts.ConfigPath != "" {
		return a.opts.ConfigPath
	}
	if v, ok := os.LookupEnv("CODEFIT_CONFIG"); ok {
		return v
	}
	return ""
}

// Run executes the selected mode: one-shot plain or markup output, or
// the interactive viewer. Blocks until the mode finishes.
func (a *Application) Run() error {
	if !a.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer a.running.Store(false)

	switch {
	case a.opts.Plain:
		return a.runPlain(os.Stdout)
	case a.opts.HTML:
		return a.runHTML(os.Stdout)
	default:
		return a.runViewer()
	}
}

// runViewer takes over the terminal and drives the interactive loop
// until a quit key or Shutdown.
func (a *Application) runViewer() error {
	screen, err := term.NewScreen()
	if err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	if err := screen.Init(); err != nil {
		return &InitError{Component: "screen", Err: err}
	}
	defer screen.Fini()

	theme := highlight.NewTheme(a.cfg.Viewer.Theme)
	viewer := term.NewViewer(screen, a.doc, theme, term.ViewerConfig{
		Gutter:   a.cfg.Viewer.Gutter,
		Debounce: a.cfg.Viewer.DebounceDelay(),
		Reflow:   a.reflowCurrent,
	})

	a.mu.Lock()
	a.screen = screen
	a.viewer = viewer
	a.mu.Unlock()

	if !a.opts.NoWatch {
		if err := a.startWatching(); err != nil {
			a.log.Warn("live reload disabled: %v", err)
		}
	}

	a.reflowCurrent()
	return viewer.Run()
}

// reflowCurrent runs one formatting pass against the current surface:
// the pinned width when one is forced, the live viewer otherwise.
func (a *Application) reflowCurrent() {
	a.mu.RLock()
	doc := a.doc
	engine := a.engine
	forced := a.cfg.Layout.ForcedColumns
	fallback := a.cfg.Layout.FallbackColumns
	viewer := a.viewer
	a.mu.RUnlock()

	var surface probe.Surface
	switch {
	case forced > 0:
		surface = probe.FixedColumns(forced)
	case viewer != nil:
		surface = viewer
	default:
		surface = probe.FixedColumns(fallback)
	}
	engine.Pass(doc, surface)
}

// Shutdown stops the watcher, releases the terminal, and logs the
// session summary. Safe from a signal handler goroutine and safe to
// call more than once.
func (a *Application) Shutdown() {
	if !a.closed.CompareAndSwap(false, true) {
		return
	}
	close(a.done)

	a.mu.RLock()
	watcher := a.watcher
	screen := a.screen
	engine := a.engine
	a.mu.RUnlock()

	if watcher != nil {
		watcher.Close()
	}
	if screen != nil {
		// PollEvent returns nil after Fini, ending the viewer loop.
		screen.Fini()
	}
	if engine != nil {
		snap := engine.Metrics().Snapshot()
		a.log.Debug("session: passes=%d avg=%.1fms formatted=%d broken=%d",
			snap.PassCount, snap.AvgPassMs(), snap.BlocksFormatted, snap.LinesBroken)
	}
}

// IsRunning reports whether Run is active.
func (a *Application) IsRunning() bool {
	return a.running.Load()
}

// Config returns the effective configuration.
func (a *Application) Config() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cfg
}

// Document returns the loaded document.
func (a *Application) Document() *page.Document {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.doc
}

// Engine returns the formatting engine.
func (a *Application) Engine() *reflow.Engine {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.engine
}

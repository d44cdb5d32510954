package app

import (
	"path/filepath"

	"github.com/dshills/codefit/internal/config"
	"github.com/dshills/codefit/internal/log"
	"github.com/dshills/codefit/internal/page"
	"github.com/dshills/codefit/internal/watch"
)

// startWatching begins live reload of the document and, when one is in
// use, the config file.
func (a *Application) startWatching() error {
	paths := []string{a.opts.DocPath}
	if p := a.configPath(); p != "" {
		paths = append(paths, p)
	}
	w, err := watch.New(a.cfg.Viewer.DebounceDelay(), paths...)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()

	go a.watchLoop(w)
	return nil
}

func (a *Application) watchLoop(w *watch.Watcher) {
	for {
		select {
		case <-a.done:
			return
		case ev := <-w.Events():
			a.handleChange(ev)
		case err := <-w.Errors():
			a.log.Warn("watch: %v", err)
		}
	}
}

// handleChange reloads whichever file changed and wakes the viewer for
// a fresh pass. A panic in the reload path is contained here so a
// broken edit cannot take the viewer down.
func (a *Application) handleChange(ev watch.Event) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error("reload panic recovered: %v", r)
		}
	}()

	if samePath(ev.Path, a.configPath()) {
		a.reloadConfig()
	}
	a.reloadDocument()

	a.mu.RLock()
	viewer := a.viewer
	doc := a.doc
	a.mu.RUnlock()
	if viewer != nil {
		viewer.SetDocument(doc)
		viewer.Reformat()
	}
}

// reloadConfig rebuilds the registry and engine from the config file.
// Failures keep the previous configuration. Viewer appearance settings
// (theme, gutter, debounce) apply on the next start, not live.
func (a *Application) reloadConfig() {
	cfg, err := config.Load(a.configPath())
	if err != nil {
		a.log.Warn("config reload failed, keeping previous: %v", err)
		return
	}
	a.applyOverrides(&cfg)

	reg, engine, err := a.buildEngine(cfg)
	if err != nil {
		a.log.Warn("config reload failed, keeping previous: %v", err)
		return
	}
	a.log.SetLevel(log.ParseLevel(cfg.Logging.Level))

	a.mu.Lock()
	a.cfg = cfg
	a.reg = reg
	a.engine = engine
	a.mu.Unlock()
	a.log.Info("configuration reloaded")
}

// reloadDocument re-parses the document. Failures keep the previous
// one on screen.
func (a *Application) reloadDocument() {
	a.mu.RLock()
	tabWidth := a.cfg.Layout.TabWidth
	a.mu.RUnlock()

	doc, err := page.Load(a.opts.DocPath, tabWidth)
	if err != nil {
		a.log.Warn("document reload failed, keeping previous: %v", err)
		return
	}

	a.mu.Lock()
	a.doc = doc
	a.mu.Unlock()
	a.log.Info("document reloaded: %d regions", len(doc.Regions))
}

// samePath reports whether two paths name the same file once made
// absolute.
func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return a == b
	}
	return aa == bb
}

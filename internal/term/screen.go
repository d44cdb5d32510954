// Package term renders a parsed document in the terminal. Screen is a
// thin mutex-guarded wrapper over tcell; Viewer owns the event loop,
// scrolling, and the resize debounce that triggers reformatting.
package term

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/codefit/internal/segment"
)

// Screen wraps a tcell screen for single-window drawing.
type Screen struct {
	tc tcell.Screen
	mu sync.Mutex
}

// NewScreen allocates a terminal screen. Init must be called before
// drawing.
func NewScreen() (*Screen, error) {
	tc, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Screen{tc: tc}, nil
}

// Init takes over the terminal.
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tc.Init()
}

// Fini restores the terminal. PollEvent in flight returns nil after
// this.
func (s *Screen) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tc.Fini()
}

// Size returns the current width and height in cells.
func (s *Screen) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tc.Size()
}

// Clear erases the screen contents.
func (s *Screen) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tc.Clear()
}

// SetText draws text starting at column x on row y and returns the
// column after the last cell drawn. Drawing clips at the screen edge.
func (s *Screen) SetText(x, y int, text string, style tcell.Style) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := s.tc.Size()
	if y < 0 || y >= height {
		return x
	}
	for _, r := range text {
		if x >= width {
			break
		}
		s.tc.SetContent(x, y, r, nil, style)
		x += segment.RuneWidth(r)
	}
	return x
}

// Show flushes pending drawing to the terminal.
func (s *Screen) Show() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tc.Show()
}

// Sync forces a full repaint, used after resize.
func (s *Screen) Sync() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tc.Sync()
}

// PollEvent blocks for the next terminal event. Returns nil once the
// screen is finalized.
func (s *Screen) PollEvent() tcell.Event {
	return s.tc.PollEvent()
}

// Interrupt wakes a blocked PollEvent with an interrupt event carrying
// data. Safe to call from any goroutine.
func (s *Screen) Interrupt(data interface{}) {
	_ = s.tc.PostEvent(tcell.NewEventInterrupt(data))
}

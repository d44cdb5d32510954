package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/codefit/internal/lang"
)

// ErrInvalid marks configuration values that fail validation.
var ErrInvalid = errors.New("config: invalid value")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...)
}

// Validate checks the configuration for values the engine cannot work
// with. The first offending field is reported.
func (c Config) Validate() error {
	l := c.Layout
	switch {
	case l.FallbackColumns <= 0:
		return invalidf("layout.fallback_columns must be positive, got %d", l.FallbackColumns)
	case l.AggressiveColumns <= 0:
		return invalidf("layout.aggressive_columns must be positive, got %d", l.AggressiveColumns)
	case l.ComfortableColumns <= l.AggressiveColumns:
		return invalidf("layout.comfortable_columns (%d) must exceed aggressive_columns (%d)",
			l.ComfortableColumns, l.AggressiveColumns)
	case l.MaxColumns < l.ComfortableColumns:
		return invalidf("layout.max_columns (%d) must be at least comfortable_columns (%d)",
			l.MaxColumns, l.ComfortableColumns)
	case l.FloorIndentUnit < 1:
		return invalidf("layout.floor_indent_unit must be at least 1, got %d", l.FloorIndentUnit)
	case l.DefaultIndentUnit < 1:
		return invalidf("layout.default_indent_unit must be at least 1, got %d", l.DefaultIndentUnit)
	case l.ContinuationIndent < 0:
		return invalidf("layout.continuation_indent must not be negative, got %d", l.ContinuationIndent)
	case l.TabWidth < 0:
		return invalidf("layout.tab_width must not be negative, got %d", l.TabWidth)
	case l.ForcedColumns < 0:
		return invalidf("layout.forced_columns must not be negative, got %d", l.ForcedColumns)
	}

	if c.Limits.MaxBlockLines < 1 {
		return invalidf("limits.max_block_lines must be at least 1, got %d", c.Limits.MaxBlockLines)
	}
	if c.Limits.MaxLineBreaks < 1 {
		return invalidf("limits.max_line_breaks must be at least 1, got %d", c.Limits.MaxLineBreaks)
	}

	if c.Viewer.Gutter < 0 {
		return invalidf("viewer.gutter must not be negative, got %d", c.Viewer.Gutter)
	}
	if c.Viewer.ResizeDebounce != "" {
		if _, err := time.ParseDuration(c.Viewer.ResizeDebounce); err != nil {
			return invalidf("viewer.resize_debounce %q is not a duration", c.Viewer.ResizeDebounce)
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return invalidf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}

	for i, lc := range c.Languages {
		if lc.Name == "" {
			return invalidf("languages[%d].name is empty", i)
		}
		if _, err := lang.ParseClass(lc.Class); err != nil {
			return invalidf("languages[%d].class: %v", i, err)
		}
		for j, rule := range lc.Rules {
			if rule.Pattern == "" {
				return invalidf("languages[%d].rules[%d].pattern is empty", i, j)
			}
		}
	}
	return nil
}

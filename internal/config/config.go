package config

import "time"

// Config is the root configuration. Section accessor values are plain
// snapshots; the loaded Config is never mutated after startup.
type Config struct {
	Layout    LayoutConfig     `toml:"layout"`
	Limits    LimitsConfig     `toml:"limits"`
	Viewer    ViewerConfig     `toml:"viewer"`
	Logging   LoggingConfig    `toml:"logging"`
	Languages []LanguageConfig `toml:"languages"`

	// LuaRules is an optional Lua file registering extra language specs
	// at startup.
	LuaRules string `toml:"lua_rules"`
}

// LayoutConfig holds the width thresholds and indentation geometry.
type LayoutConfig struct {
	// FallbackColumns is used when the surface cannot be measured.
	FallbackColumns int `toml:"fallback_columns"`

	// ComfortableColumns is the width at or above which indentation is
	// not compressed.
	ComfortableColumns int `toml:"comfortable_columns"`

	// AggressiveColumns is the width below which the indent unit is
	// halved rather than reduced by one.
	AggressiveColumns int `toml:"aggressive_columns"`

	// MaxColumns disables reflow entirely on wider surfaces.
	MaxColumns int `toml:"max_columns"`

	// ForcedColumns pins the measured width, 0 to measure normally.
	ForcedColumns int `toml:"forced_columns"`

	// DefaultIndentUnit applies to blocks with no indented line.
	DefaultIndentUnit int `toml:"default_indent_unit"`

	// FloorIndentUnit is the smallest unit compression may produce.
	FloorIndentUnit int `toml:"floor_indent_unit"`

	// ContinuationIndent is the extra indent for broken-line
	// continuations past the line's own indent.
	ContinuationIndent int `toml:"continuation_indent"`

	// TabWidth is the column stop used when expanding tabs.
	TabWidth int `toml:"tab_width"`
}

// LimitsConfig bounds the per-pass formatting cost.
type LimitsConfig struct {
	// MaxBlockLines skips blocks longer than this.
	MaxBlockLines int `toml:"max_block_lines"`

	// MaxLineBreaks caps breaks applied to one logical line.
	MaxLineBreaks int `toml:"max_line_breaks"`
}

// ViewerConfig holds terminal viewer settings.
type ViewerConfig struct {
	// Theme is the chroma style name for code blocks.
	Theme string `toml:"theme"`

	// Gutter is the column margin reserved around block content.
	Gutter int `toml:"gutter"`

	// ResizeDebounce is the quiet window after a resize before a
	// formatting pass runs, as a duration string.
	ResizeDebounce string `toml:"resize_debounce"`
}

// LoggingConfig controls the application logger.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
}

// LanguageConfig registers or overrides one language's break spec.
type LanguageConfig struct {
	Name         string       `toml:"name"`
	Class        string       `toml:"class"`
	Marker       string       `toml:"marker"`
	ColonAligned bool         `toml:"colon_aligned"`
	Aliases      []string     `toml:"aliases"`
	Rules        []RuleConfig `toml:"rules"`
}

// RuleConfig is one ordered break-rule entry.
type RuleConfig struct {
	Pattern   string `toml:"pattern"`
	Before    bool   `toml:"before"`
	Separator bool   `toml:"separator"`
}

const defaultDebounce = 150 * time.Millisecond

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			FallbackColumns:    80,
			ComfortableColumns: 60,
			AggressiveColumns:  40,
			MaxColumns:         200,
			DefaultIndentUnit:  4,
			FloorIndentUnit:    2,
			ContinuationIndent: 4,
			TabWidth:           4,
		},
		Limits: LimitsConfig{
			MaxBlockLines: 500,
			MaxLineBreaks: 8,
		},
		Viewer: ViewerConfig{
			Theme:          "monokai",
			Gutter:         2,
			ResizeDebounce: "150ms",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DebounceDelay parses the resize debounce window, falling back to the
// default on an empty or malformed value.
func (v ViewerConfig) DebounceDelay() time.Duration {
	d, err := time.ParseDuration(v.ResizeDebounce)
	if err != nil || d <= 0 {
		return defaultDebounce
	}
	return d
}

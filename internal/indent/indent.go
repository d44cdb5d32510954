// Package indent rescales the structural indentation of a code block to
// fit a narrower viewport. It detects the block's indent unit, derives a
// width-dependent compression factor, and distinguishes structural
// indentation (nesting levels, which compress) from alignment indentation
// (columns hand-aligned to a prior line's content, which track the line
// they align to instead of compressing independently).
package indent

import (
	"math"

	"github.com/dshills/codefit/internal/segment"
)

// Config holds the width thresholds and unit bounds for compression.
type Config struct {
	// DefaultUnit is assumed when a block has no indented line.
	DefaultUnit int

	// FloorUnit is the smallest unit compression may produce.
	FloorUnit int

	// ComfortableCols is the width at or above which no compression
	// happens.
	ComfortableCols int

	// AggressiveCols is the width below which the unit is halved rather
	// than reduced by one.
	AggressiveCols int
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		DefaultUnit:     4,
		FloorUnit:       2,
		ComfortableCols: 60,
		AggressiveCols:  40,
	}
}

// DetectUnit returns the block's structural indent unit: the minimum
// positive leading-space count observed across its lines, or the default
// unit when no line is indented.
func DetectUnit(lines []segment.Line, defaultUnit int) int {
	unit := 0
	for _, line := range lines {
		n := segment.LeadingIndent(line)
		if n > 0 && (unit == 0 || n < unit) {
			unit = n
		}
	}
	if unit == 0 {
		return defaultUnit
	}
	return unit
}

// Factor derives the page-wide compression factor for the given block
// unit at the given column width. Above the comfortable threshold the
// factor is 1 (no compression); below the aggressive threshold the unit
// halves; in between it shrinks by one. The unit never drops below the
// floor, so a block already at the floor reports factor 1.
func Factor(unit, columns int, cfg Config) float64 {
	if unit <= 0 {
		unit = cfg.DefaultUnit
	}
	if columns >= cfg.ComfortableCols {
		return 1
	}
	reduced := unit - 1
	if columns < cfg.AggressiveCols {
		reduced = unit / 2
	}
	if reduced < cfg.FloorUnit {
		reduced = cfg.FloorUnit
	}
	if reduced >= unit {
		return 1
	}
	return float64(reduced) / float64(unit)
}

// removal describes the leading spaces to strip from one line.
type removal struct {
	count     int
	alignment bool
}

// Compress applies the compression factor to every line of a block and
// reports whether anything changed. Structural indentation is scaled by
// the factor; alignment indentation copies the absolute space count
// removed from the previous line so the aligned column stays fixed
// relative to the line it aligns with.
//
// Classification runs against the pristine lines before any removal is
// applied, so stripping one line never corrupts the column checks for the
// lines after it.
func Compress(lines []segment.Line, factor float64, unit int) ([]segment.Line, bool) {
	if factor >= 1 || len(lines) == 0 {
		return lines, false
	}
	if unit <= 0 {
		unit = 1
	}

	removals := make([]removal, len(lines))
	prevRemoved := 0
	prevAligned := false
	prevIndent := 0
	var prevText []rune

	for i, line := range lines {
		ind := segment.LeadingIndent(line)
		if ind == 0 {
			prevRemoved = 0
			prevAligned = false
			prevIndent = 0
			prevText = []rune(segment.Flatten(line))
			continue
		}

		aligned := contentAt(prevText, ind) && (ind-prevIndent > 2*unit || prevAligned)

		var count int
		if aligned {
			count = prevRemoved
			if count > ind {
				count = ind
			}
		} else {
			scaled := int(math.Round(float64(ind) * factor))
			count = ind - scaled
		}

		removals[i] = removal{count: count, alignment: aligned}
		prevRemoved = count
		prevAligned = aligned
		prevIndent = ind
		prevText = []rune(segment.Flatten(line))
	}

	changed := false
	out := make([]segment.Line, len(lines))
	for i, line := range lines {
		if removals[i].count > 0 {
			out[i] = segment.RemoveLeading(line, removals[i].count)
			changed = true
		} else {
			out[i] = line
		}
	}
	return out, changed
}

// contentAt reports whether the previous line has a visible character
// exactly at the given column, meaning an indent of that size lines up
// with content rather than whitespace.
func contentAt(prev []rune, col int) bool {
	return col < len(prev) && prev[col] != ' '
}

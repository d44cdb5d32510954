package linebreak

import (
	"strings"

	"github.com/dshills/codefit/internal/lang"
	"github.com/dshills/codefit/internal/segment"
)

// Config controls how logical lines are split into fragments.
type Config struct {
	// MaxBreaks caps the number of breaks applied to one logical line.
	// Zero means unlimited.
	MaxBreaks int

	// ContIndent is the extra indentation, in columns, given to
	// continuation fragments beyond the original line's own indent when
	// no bracket column or colon label dictates a deeper alignment.
	ContIndent int
}

// DefaultConfig returns the breaking defaults.
func DefaultConfig() Config {
	return Config{MaxBreaks: 8, ContIndent: 4}
}

// Break splits one overflowing styled line into fragments that fit the
// column budget, using the language's break rules. It returns the
// fragments and true when at least one break was applied; (nil, false)
// leaves the caller's line untouched. The input line is not modified.
//
// Fragments preserve the line's content: concatenating them, minus the
// indentation added to continuations and any continuation marker, yields
// the original text. A fragment may still overflow when the language
// offers no eligible break point inside it.
func Break(line segment.Line, spec lang.Spec, budget int, cfg Config) ([]segment.Line, bool) {
	if spec.Excluded() || budget <= 0 {
		return nil, false
	}

	effective := budget
	if spec.Marker != "" {
		effective -= segment.StringWidth(spec.Marker) + 1
	}
	if effective <= 0 {
		return nil, false
	}

	baseIndent := segment.LeadingIndent(line)
	contDefault := continuationIndent(line, spec, baseIndent, cfg)

	var out []segment.Line
	remainder := segment.Clone(line)
	state := NewBracketState()

	for {
		flat := segment.Flatten(remainder)
		if segment.StringWidth(strings.TrimRight(flat, " ")) <= budget {
			break
		}
		if cfg.MaxBreaks > 0 && len(out) >= cfg.MaxBreaks {
			break
		}

		minOff := segment.LeadingIndent(remainder) + 1
		var res Result
		if spec.Class == lang.ClassSpaced {
			res = ScanSpaces(flat, minOff, effective, state)
		} else {
			res = Scan(flat, minOff, effective, spec.Rules, state)
		}
		if !res.Found {
			break
		}

		runes := []rune(flat)
		offset := extendOffset(runes, res.Offset)
		if offset >= len(runes) {
			break
		}

		ind := chooseIndent(res, spec, baseIndent, contDefault, effective)
		before, after := segment.SplitAt(remainder, offset)
		after = segment.Pad(after, ind)
		if segment.Width(after) >= segment.Width(remainder) {
			break
		}
		if spec.Marker != "" {
			marker := " " + spec.Marker
			if runes[offset-1] == ' ' {
				marker = spec.Marker
			}
			before = append(before, segment.Segment{Text: marker})
		}

		out = append(out, before)
		remainder = after
		state = res.State
	}

	if len(out) == 0 {
		return nil, false
	}
	return append(out, remainder), true
}

// extendOffset pushes a break offset past any spaces that follow it, so
// continuation padding never swallows original spacing.
func extendOffset(runes []rune, offset int) int {
	for offset < len(runes) && runes[offset] == ' ' {
		offset++
	}
	return offset
}

// continuationIndent computes the default indentation for continuation
// fragments. Colon-aligned languages line continuations up after the
// first ": " label of the original line; everything else hangs the
// configured distance past the line's own indent.
func continuationIndent(line segment.Line, spec lang.Spec, baseIndent int, cfg Config) int {
	if spec.ColonAligned {
		flat := segment.Flatten(line)
		if idx := strings.Index(flat, ": "); idx >= 0 {
			return segment.StringWidth(flat[:idx]) + 2
		}
	}
	return baseIndent + cfg.ContIndent
}

// chooseIndent picks the indentation for the fragment after a break.
// Inside a bracket the continuation aligns one past the opener's column,
// except in a single-argument container where the lone wrapped value
// reads better at the shallower default. After a closed bracket run the
// continuation returns to the line's base indent. The result is capped
// at half the usable budget so continuations keep room for content.
func chooseIndent(res Result, spec lang.Spec, baseIndent, contDefault, effective int) int {
	ind := contDefault
	switch {
	case res.State.Depth > 0 && res.State.Col >= 0:
		if spec.Class != lang.ClassPunctuated || res.SepAfter {
			ind = res.State.Col + 1
		}
	case res.Closed:
		ind = baseIndent
	}
	if ind > effective/2 {
		ind = effective / 2
	}
	if ind < 0 {
		ind = 0
	}
	return ind
}

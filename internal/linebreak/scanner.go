package linebreak

import (
	"github.com/dshills/codefit/internal/lang"
	"github.com/dshills/codefit/internal/segment"
)

// BracketState is the bracket context threaded through the scanner and
// the breaker across successive continuation fragments of one logical
// line. Col is the column of the innermost currently-open bracket, -1
// when Depth is 0. Depth never goes negative: unbalanced closers clamp it
// at 0, tolerating partial snippets.
type BracketState struct {
	Depth int
	Col   int
}

// NewBracketState returns the state for a fresh logical line.
func NewBracketState() BracketState {
	return BracketState{Col: -1}
}

// Result reports the outcome of one scan over a line fragment.
type Result struct {
	// Found is false when no eligible break fits the budget.
	Found bool

	// Offset is the rune offset of the break within the fragment.
	Offset int

	// State is the bracket state as of Offset. A break landing before a
	// closer still reports itself as inside that bracket.
	State BracketState

	// SepAfter reports whether an argument separator was matched at or
	// after Offset. A separator whose match ends exactly at the offset
	// counts as "at": the break sits on that separator.
	SepAfter bool

	// Closed reports whether the fragment had closed out of a bracket
	// run by Offset (depth zero with at least one closer consumed).
	Closed bool
}

// containerRec tracks one bracket opened during the current scan. It
// outlives its stack slot so candidates gated on the container's contents
// resolve after the container closes.
type containerRec struct {
	col    int
	sawSep bool
}

// candidate is one potential break point found during the scan. Bracket
// state is captured lazily, when the scan index reaches the candidate's
// offset, so after-mode candidates see the state that holds where the
// continuation will begin.
type candidate struct {
	offset    int
	bracketAt int // rune index of the opener this candidate is gated on, -1 if none
	rec       *containerRec
	state     BracketState
	closed    bool
	captured  bool
}

// scanner is the working state of one forward pass.
type scanner struct {
	runes  []rune
	rules  []lang.Rule
	pats   [][]rune
	min    int
	budget int

	quote   rune
	escaped bool

	depth       int
	stack       []*containerRec
	inherited   BracketState
	inheritSep  bool
	closersSeen bool

	col          int
	captureIndex int
	sepEnd       int // rune index just past the rightmost separator match, -1 if none

	pending []*candidate
	all     []*candidate
}

// Scan performs a single forward pass over one candidate line fragment
// and returns the rightmost eligible break point within the column
// budget, per the language's ordered rule table. minOffset guards the
// already-applied leading indentation; state carries bracket context from
// prior fragments of the same logical line.
func Scan(text string, minOffset, budget int, rules []lang.Rule, state BracketState) Result {
	s := newScanner(text, minOffset, budget, rules, state)
	for i, r := range s.runes {
		s.capture(i)
		if s.inQuote(r) {
			s.col += segment.RuneWidth(r)
			continue
		}
		s.matchRules(i)
		s.updateBrackets(i, r)
		s.col += segment.RuneWidth(r)
	}
	return s.finish()
}

// ScanSpaces is the space-delimited variant: the rule table is bypassed
// and the break lands after the rightmost unquoted space within budget.
// Brackets are still tracked so continuation indentation can align past
// an open subshell or group.
func ScanSpaces(text string, minOffset, budget int, state BracketState) Result {
	s := newScanner(text, minOffset, budget, nil, state)
	for i, r := range s.runes {
		s.capture(i)
		if s.inQuote(r) {
			s.col += segment.RuneWidth(r)
			continue
		}
		if r == ' ' {
			s.addCandidate(i+1, s.col+1, -1)
		}
		s.updateBrackets(i, r)
		s.col += segment.RuneWidth(r)
	}
	return s.finish()
}

func newScanner(text string, minOffset, budget int, rules []lang.Rule, state BracketState) *scanner {
	s := &scanner{
		runes:     []rune(text),
		rules:     rules,
		min:       minOffset,
		budget:    budget,
		depth:     state.Depth,
		inherited: state,
		sepEnd:    -1,
	}
	s.pats = make([][]rune, len(rules))
	for i, rule := range rules {
		s.pats[i] = []rune(rule.Pattern)
	}
	return s
}

// inQuote advances the quote state for r and reports whether r sits
// inside (or opens) a quoted run, suppressing bracket and rule matching.
// A backslash-escaped quote does not close the run.
func (s *scanner) inQuote(r rune) bool {
	if s.quote != 0 {
		switch {
		case s.escaped:
			s.escaped = false
		case r == '\\':
			s.escaped = true
		case r == s.quote:
			s.quote = 0
		}
		return true
	}
	if r == '"' || r == '\'' {
		s.quote = r
		return true
	}
	return false
}

// matchRules evaluates every rule whose pattern matches at index i and
// records the eligible candidates.
func (s *scanner) matchRules(i int) {
	for ri, rule := range s.rules {
		pat := s.pats[ri]
		if !s.matchAt(i, pat) {
			continue
		}
		if rule.Separator {
			if end := i + len(pat); end > s.sepEnd {
				s.sepEnd = end
			}
			if len(s.stack) > 0 {
				s.stack[len(s.stack)-1].sawSep = true
			} else if s.depth > 0 {
				s.inheritSep = true
			}
		}

		offset := i
		candCol := s.col
		if !rule.Before {
			offset = i + len(pat)
			candCol += widthOf(pat)
		}

		switch {
		case rule.TargetsCloser():
			// Contents of the innermost open container are fully
			// scanned by now; gate immediately.
			if !s.innermostSawSep() {
				continue
			}
			s.addCandidate(offset, candCol, -1)
		case rule.TargetsOpener():
			// The container this match opens is pushed when its
			// bracket character is processed; bind then, resolve the
			// gate once the whole fragment is scanned.
			s.addCandidate(offset, candCol, i+bracketIndex(pat))
		default:
			s.addCandidate(offset, candCol, -1)
		}
	}
}

// addCandidate records a break candidate at the given rune offset.
// bracketAt is the rune index of the opener the candidate is gated on,
// or -1. The rightmost offset wins overall and earlier rules win offset
// ties, so a candidate at an already-seen offset is dropped.
func (s *scanner) addCandidate(offset, candCol, bracketAt int) {
	if offset < s.min || candCol > s.budget || offset > len(s.runes) {
		return
	}
	for _, c := range s.all {
		if c.offset == offset {
			return
		}
	}
	c := &candidate{offset: offset, bracketAt: bracketAt}
	if offset <= s.captureIndex {
		c.state = s.currentState()
		c.closed = s.depth == 0 && s.closersSeen
		c.captured = true
	} else {
		s.pending = append(s.pending, c)
	}
	s.all = append(s.all, c)
}

// capture resolves pending candidates whose offset the scan has reached;
// they see the state before the rune at i is processed.
func (s *scanner) capture(i int) {
	s.captureIndex = i
	if len(s.pending) == 0 {
		return
	}
	kept := s.pending[:0]
	for _, c := range s.pending {
		if c.offset == i {
			c.state = s.currentState()
			c.closed = s.depth == 0 && s.closersSeen
			c.captured = true
		} else {
			kept = append(kept, c)
		}
	}
	s.pending = kept
}

// updateBrackets applies the bracket transition for rune r at index i and
// binds any candidate gated on the container opened here.
func (s *scanner) updateBrackets(i int, r rune) {
	switch r {
	case '(', '[', '{':
		rec := &containerRec{col: s.col}
		s.stack = append(s.stack, rec)
		s.depth++
		for _, c := range s.all {
			if c.bracketAt == i {
				c.rec = rec
			}
		}
	case ')', ']', '}':
		s.closersSeen = true
		if len(s.stack) > 0 {
			s.stack = s.stack[:len(s.stack)-1]
		}
		if s.depth > 0 {
			s.depth--
		}
	}
}

// currentState reports the bracket state at the present scan position.
// Openers popped past this fragment's local knowledge fall back to the
// column inherited from prior fragments.
func (s *scanner) currentState() BracketState {
	st := BracketState{Depth: s.depth, Col: -1}
	if len(s.stack) > 0 {
		st.Col = s.stack[len(s.stack)-1].col
	} else if s.depth > 0 {
		st.Col = s.inherited.Col
	}
	return st
}

// innermostSawSep reports whether the innermost open container has seen
// an argument separator directly below it in this fragment. With nothing
// open the gate passes: an unbalanced closer is broken at face value.
func (s *scanner) innermostSawSep() bool {
	if len(s.stack) > 0 {
		return s.stack[len(s.stack)-1].sawSep
	}
	if s.depth > 0 {
		return s.inheritSep
	}
	return true
}

// finish captures end-of-fragment candidates, drops candidates gated on
// single-argument containers, and selects the rightmost survivor.
func (s *scanner) finish() Result {
	s.captureIndex = len(s.runes)
	for _, c := range s.pending {
		if c.offset == len(s.runes) {
			c.state = s.currentState()
			c.closed = s.depth == 0 && s.closersSeen
			c.captured = true
		}
	}

	var best *candidate
	for _, c := range s.all {
		if !c.captured {
			continue
		}
		if c.rec != nil && !c.rec.sawSep {
			continue
		}
		if best == nil || c.offset > best.offset {
			best = c
		}
	}
	if best == nil {
		return Result{}
	}
	return Result{
		Found:    true,
		Offset:   best.offset,
		State:    best.state,
		SepAfter: s.sepEnd >= best.offset,
		Closed:   best.closed,
	}
}

// matchAt reports whether the pattern matches the rune sequence starting
// at index i.
func (s *scanner) matchAt(i int, pat []rune) bool {
	if i+len(pat) > len(s.runes) {
		return false
	}
	for j, p := range pat {
		if s.runes[i+j] != p {
			return false
		}
	}
	return true
}

// bracketIndex returns the index of the first bracket rune in a pattern.
func bracketIndex(pat []rune) int {
	for i, r := range pat {
		switch r {
		case '(', '[', '{', ')', ']', '}':
			return i
		}
	}
	return 0
}

func widthOf(runes []rune) int {
	w := 0
	for _, r := range runes {
		w += segment.RuneWidth(r)
	}
	return w
}

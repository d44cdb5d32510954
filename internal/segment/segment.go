// Package segment models one line of syntax-highlighted source as an
// ordered sequence of styled text runs. A segment is either plain text or
// a single styled run wrapped by one markup open/close pair; operations
// split, trim, and re-join lines without ever losing a style boundary.
package segment

import "strings"

// Segment is a contiguous run of text sharing one style boundary.
// Open and Close are the raw markup delimiters wrapping the run; they are
// empty together (plain text) or present together (styled run).
type Segment struct {
	Text  string
	Open  string
	Close string
}

// Styled reports whether the segment carries a markup wrapper.
func (s Segment) Styled() bool {
	return s.Open != ""
}

// Line is an ordered sequence of segments with no embedded line breaks.
// Concatenating the segments' text in order reproduces the line's visible
// characters exactly.
type Line []Segment

// Clone returns an independent copy of the line.
func Clone(line Line) Line {
	if len(line) == 0 {
		return nil
	}
	out := make(Line, len(line))
	copy(out, line)
	return out
}

// Flatten concatenates the text of every segment in order.
func Flatten(line Line) string {
	if len(line) == 0 {
		return ""
	}
	total := 0
	for _, seg := range line {
		total += len(seg.Text)
	}
	var b strings.Builder
	b.Grow(total)
	for _, seg := range line {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// Len returns the line's length in runes.
func Len(line Line) int {
	n := 0
	for _, seg := range line {
		n += len([]rune(seg.Text))
	}
	return n
}

// Width returns the line's printable width in terminal columns.
func Width(line Line) int {
	w := 0
	for _, seg := range line {
		w += StringWidth(seg.Text)
	}
	return w
}

// LeadingIndent counts the line's leading space characters, stopping at
// the first non-space or at the first segment's boundary.
func LeadingIndent(line Line) int {
	if len(line) == 0 {
		return 0
	}
	n := 0
	for _, r := range line[0].Text {
		if r != ' ' {
			break
		}
		n++
	}
	return n
}

// leadingSpaces counts leading space characters across segment
// boundaries, for stripping rather than indent classification.
func leadingSpaces(line Line) int {
	n := 0
	for _, seg := range line {
		for _, r := range seg.Text {
			if r != ' ' {
				return n
			}
			n++
		}
	}
	return n
}

var markupEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// Escape replaces the characters reserved by the markup grammar.
func Escape(text string) string {
	return markupEscaper.Replace(text)
}

// Render serializes the line back to markup: each segment's text is
// escaped and, for styled segments, wrapped in its open/close pair.
func Render(line Line) string {
	var b strings.Builder
	for _, seg := range line {
		if seg.Styled() {
			b.WriteString(seg.Open)
			b.WriteString(Escape(seg.Text))
			b.WriteString(seg.Close)
		} else {
			b.WriteString(Escape(seg.Text))
		}
	}
	return b.String()
}

// RemoveLeading strips up to n leading spaces from the line, consuming
// across segment boundaries. Unstyled segments emptied by the strip are
// dropped; styled segments are kept at zero width so their boundaries
// survive a later Render.
func RemoveLeading(line Line, n int) Line {
	if n <= 0 || len(line) == 0 {
		return Clone(line)
	}
	out := make(Line, 0, len(line))
	remaining := n
	i := 0
	for ; i < len(line); i++ {
		seg := line[i]
		if remaining > 0 {
			cut := 0
			for _, r := range seg.Text {
				if r != ' ' || cut == remaining {
					break
				}
				cut++
			}
			remaining -= cut
			seg.Text = seg.Text[cut:]
		}
		if seg.Text == "" && !seg.Styled() {
			continue
		}
		if seg.Text != "" && !strings.HasPrefix(seg.Text, " ") {
			// Hit visible content; nothing further is leading.
			remaining = 0
		}
		out = append(out, seg)
		if remaining == 0 {
			i++
			break
		}
	}
	out = append(out, line[i:]...)
	if len(out) == 0 {
		return nil
	}
	return out
}

// SplitAt cuts the line into a before/after pair at the given rune
// offset. A segment straddling the cut is split into two segments that
// share the same open/close markup.
func SplitAt(line Line, pos int) (Line, Line) {
	if pos <= 0 {
		return nil, Clone(line)
	}
	var before, after Line
	remaining := pos
	for i, seg := range line {
		runes := []rune(seg.Text)
		if remaining >= len(runes) {
			before = append(before, seg)
			remaining -= len(runes)
			continue
		}
		if remaining > 0 {
			left := seg
			left.Text = string(runes[:remaining])
			right := seg
			right.Text = string(runes[remaining:])
			before = append(before, left)
			after = append(after, right)
		} else {
			after = append(after, seg)
		}
		after = append(after, line[i+1:]...)
		return before, after
	}
	return before, nil
}

// Pad strips the line's existing leading spaces and prepends an unstyled
// segment of n spaces.
func Pad(line Line, n int) Line {
	stripped := RemoveLeading(line, leadingSpaces(line))
	if n <= 0 {
		return stripped
	}
	out := make(Line, 0, len(stripped)+1)
	out = append(out, Segment{Text: strings.Repeat(" ", n)})
	out = append(out, stripped...)
	return out
}

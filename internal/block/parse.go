package block

import (
	"fmt"
	"strings"

	"github.com/dshills/codefit/internal/segment"
)

// ParseError reports where block markup stopped making sense. Line and
// Pos are 1-based line and 0-based byte position within that line.
type ParseError struct {
	Line int
	Pos  int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("block: line %d:%d: %s", e.Line, e.Pos, e.Msg)
}

const (
	spanOpen  = `<span class="`
	spanClose = `</span>`
)

// Class extracts the markup class from a styled segment's open tag.
// Unstyled segments and foreign tags yield "".
func Class(seg segment.Segment) string {
	if !strings.HasPrefix(seg.Open, spanOpen) || !strings.HasSuffix(seg.Open, `">`) {
		return ""
	}
	return seg.Open[len(spanOpen) : len(seg.Open)-2]
}

var unescaper = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#34;", `"`,
	"&#39;", "'",
)

// Parse turns block markup into styled lines. Text runs may embed
// newlines; a span's style carries across an embedded newline. A span
// left empty by the highlighter survives as a zero-width styled segment
// so Render reproduces its boundary. Markup that violates the grammar
// (nested or unclosed spans, a closer without an opener, a bare '<')
// returns a ParseError.
func Parse(markup string) ([]segment.Line, error) {
	var (
		lines []segment.Line
		line  segment.Line
		buf   strings.Builder
		open  string
		lnum  = 1
		lpos  = 0
	)

	fail := func(msg string) ([]segment.Line, error) {
		return nil, &ParseError{Line: lnum, Pos: lpos, Msg: msg}
	}
	flush := func(keepEmpty bool) {
		if buf.Len() == 0 && !keepEmpty {
			return
		}
		seg := segment.Segment{Text: unescaper.Replace(buf.String())}
		if open != "" {
			seg.Open = open
			seg.Close = spanClose
		}
		line = append(line, seg)
		buf.Reset()
	}

	i := 0
	for i < len(markup) {
		rest := markup[i:]
		switch {
		case rest[0] == '\n':
			flush(false)
			lines = append(lines, line)
			line = nil
			i++
			lnum++
			lpos = 0

		case strings.HasPrefix(rest, spanClose):
			if open == "" {
				return fail("close tag without open span")
			}
			flush(true)
			open = ""
			i += len(spanClose)
			lpos += len(spanClose)

		case strings.HasPrefix(rest, spanOpen):
			if open != "" {
				return fail("nested span")
			}
			flush(false)
			end := strings.Index(rest[len(spanOpen):], `">`)
			if end < 0 {
				return fail("unterminated span open tag")
			}
			class := rest[len(spanOpen) : len(spanOpen)+end]
			if class == "" || strings.ContainsAny(class, "<>\n") {
				return fail(fmt.Sprintf("bad span class %q", class))
			}
			tag := len(spanOpen) + end + 2
			open = rest[:tag]
			i += tag
			lpos += tag

		case rest[0] == '<':
			return fail("stray '<' outside a span tag")

		default:
			buf.WriteByte(rest[0])
			i++
			lpos++
		}
	}

	if open != "" {
		return fail("unclosed span at end of block")
	}
	flush(false)
	return append(lines, line), nil
}

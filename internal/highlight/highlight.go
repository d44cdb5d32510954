// Package highlight tokenizes fenced source with chroma and emits the
// reflow engine's block markup: one span per styled token, plain runs
// for unstyled text, entity-escaped, lines joined by newlines. Tokens
// are split on embedded newlines so a span never crosses lines, and
// whitespace-only tokens stay unstyled so indentation analysis sees
// plain leading spaces.
package highlight

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/codefit/internal/segment"
)

// Markup highlights source for the given language tag. Unknown tags fall
// back to chroma's plaintext lexer, yielding escaped plain markup. Tabs
// are expanded to spaces at tabWidth columns first, so downstream column
// arithmetic never sees a tab.
func Markup(source, tag string, tabWidth int) (string, error) {
	lexer := lexers.Get(tag)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	expanded := expandTabs(source, tabWidth)
	it, err := lexer.Tokenise(nil, expanded)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenize %q: %w", tag, err)
	}

	var b strings.Builder
	for _, tok := range it.Tokens() {
		class := classFor(tok.Type)
		if strings.TrimSpace(tok.Value) == "" {
			class = ""
		}
		value := tok.Value
		for {
			piece, rest, more := strings.Cut(value, "\n")
			writePiece(&b, piece, class)
			if !more {
				break
			}
			b.WriteByte('\n')
			value = rest
		}
	}
	return b.String(), nil
}

func writePiece(b *strings.Builder, piece, class string) {
	if piece == "" {
		return
	}
	if class == "" {
		b.WriteString(segment.Escape(piece))
		return
	}
	b.WriteString(`<span class="`)
	b.WriteString(class)
	b.WriteString(`">`)
	b.WriteString(segment.Escape(piece))
	b.WriteString("</span>")
}

// classFor resolves a token type to chroma's short class key, walking up
// the type hierarchy the way chroma's own HTML formatter does.
func classFor(t chroma.TokenType) string {
	for t != 0 {
		if class, ok := chroma.StandardTypes[t]; ok {
			return class
		}
		t = t.Parent()
	}
	return ""
}

// expandTabs replaces tabs with spaces up to the next tabWidth column
// stop, per line.
func expandTabs(s string, tabWidth int) string {
	if tabWidth <= 0 || !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteByte('\n')
			col = 0
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		default:
			b.WriteRune(r)
			col += segment.RuneWidth(r)
		}
	}
	return b.String()
}

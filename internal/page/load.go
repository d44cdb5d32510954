package page

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dshills/codefit/internal/block"
	"github.com/dshills/codefit/internal/highlight"
)

// Load reads and parses the document at path. Tabs inside code blocks
// are expanded to tabWidth columns during highlighting.
func Load(path string, tabWidth int) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, filepath.Base(path), tabWidth)
	if err != nil {
		return nil, fmt.Errorf("page: %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse builds a Document from Markdown source. The name seeds the
// title when neither front matter nor a heading provides one.
func Parse(src []byte, name string, tabWidth int) (*Document, error) {
	meta, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(body))

	w := &walker{source: body, tabWidth: tabWidth}
	if err := ast.Walk(root, w.visit); err != nil {
		return nil, err
	}

	doc := &Document{
		Title:   meta.Title,
		Meta:    meta,
		Regions: w.regions,
	}
	if doc.Title == "" {
		doc.Title = firstHeading(w.regions)
	}
	if doc.Title == "" {
		doc.Title = name
	}
	return doc, nil
}

func firstHeading(regions []Region) string {
	for i := range regions {
		if regions[i].Kind == KindHeading {
			return regions[i].Text
		}
	}
	return ""
}

// listState tracks one level of list nesting during the walk.
type listState struct {
	ordered bool
	next    int
}

type walker struct {
	source   []byte
	tabWidth int
	regions  []Region
	lists    []*listState
	fresh    bool
}

func (w *walker) visit(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch n := node.(type) {
	case *ast.Heading:
		if entering {
			w.emit(Region{Kind: KindHeading, Level: n.Level, Text: inlineText(n, w.source)})
			return ast.WalkSkipChildren, nil
		}

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			w.emitTextual(node)
			return ast.WalkSkipChildren, nil
		}

	case *ast.List:
		if entering {
			start := n.Start
			if start == 0 {
				start = 1
			}
			w.lists = append(w.lists, &listState{ordered: n.IsOrdered(), next: start})
		} else {
			w.lists = w.lists[:len(w.lists)-1]
		}

	case *ast.ListItem:
		if entering {
			w.fresh = true
		}

	case *ast.FencedCodeBlock:
		if entering {
			if err := w.emitCode(n, string(n.Language(w.source))); err != nil {
				return ast.WalkStop, err
			}
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			if err := w.emitCode(n, ""); err != nil {
				return ast.WalkStop, err
			}
			return ast.WalkSkipChildren, nil
		}

	case *ast.ThematicBreak:
		if entering {
			w.emit(Region{Kind: KindRule})
		}

	case *ast.HTMLBlock:
		return ast.WalkSkipChildren, nil
	}

	return ast.WalkContinue, nil
}

func (w *walker) emit(r Region) {
	w.regions = append(w.regions, r)
}

// emitTextual handles a paragraph or tight-list text block. The first
// one inside a list item takes the item marker; later paragraphs of a
// loose item become prose indented to the item's depth.
func (w *walker) emitTextual(node ast.Node) {
	txt := inlineText(node, w.source)
	_, inItem := node.Parent().(*ast.ListItem)
	if !inItem {
		w.emit(Region{Kind: KindProse, Text: txt})
		return
	}

	depth := len(w.lists)
	if !w.fresh {
		w.emit(Region{Kind: KindProse, Level: depth, Text: txt})
		return
	}
	w.fresh = false
	w.emit(Region{Kind: KindListItem, Level: depth, Text: w.marker() + txt})
}

func (w *walker) marker() string {
	if len(w.lists) == 0 {
		return "• "
	}
	top := w.lists[len(w.lists)-1]
	if !top.ordered {
		return "• "
	}
	m := fmt.Sprintf("%d. ", top.next)
	top.next++
	return m
}

func (w *walker) emitCode(node ast.Node, lang string) error {
	var sb strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(w.source))
	}
	raw := strings.TrimSuffix(sb.String(), "\n")

	markup, err := highlight.Markup(raw, lang, w.tabWidth)
	if err != nil {
		return err
	}
	w.emit(Region{Kind: KindCode, Block: block.New(lang, markup)})
	return nil
}

// inlineText flattens a node's inline children to plain text. Soft and
// hard line breaks inside a paragraph collapse to single spaces.
func inlineText(node ast.Node, source []byte) string {
	var sb strings.Builder
	collectText(node, source, &sb)
	return sb.String()
}

func collectText(node ast.Node, source []byte, sb *strings.Builder) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		switch n := c.(type) {
		case *ast.Text:
			sb.Write(n.Segment.Value(source))
			if n.SoftLineBreak() || n.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(n.Value)
		case *ast.AutoLink:
			sb.Write(n.URL(source))
		default:
			collectText(c, source, sb)
		}
	}
}

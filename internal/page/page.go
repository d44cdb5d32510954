// Package page loads a Markdown document into a flat list of regions:
// headings, prose paragraphs, list items, horizontal rules, and fenced
// code blocks. Code regions carry a highlighted block.Block ready for
// reflow; everything else is plain text for the viewer. An optional
// YAML front matter section supplies per-document overrides.
package page

import (
	"strings"

	"github.com/dshills/codefit/internal/block"
)

// RegionKind identifies what a region holds.
type RegionKind int

const (
	// KindProse is a paragraph of plain text.
	KindProse RegionKind = iota
	// KindHeading is a heading; Level carries the depth (1-6).
	KindHeading
	// KindListItem is one bullet or numbered item; Level carries the
	// nesting depth (1-based) and Text includes the marker.
	KindListItem
	// KindRule is a thematic break.
	KindRule
	// KindCode is a fenced or indented code block; Block carries the
	// highlighted markup.
	KindCode
)

// Region is one displayable unit of the document, in source order.
type Region struct {
	Kind  RegionKind
	Level int
	Text  string
	Block *block.Block
}

// Meta is the document's front matter.
type Meta struct {
	// Title overrides the derived document title.
	Title string `yaml:"title"`
	// Width caps the layout width for this document when positive.
	Width int `yaml:"width"`
	// Exclude lists additional language tags to leave untouched.
	Exclude []string `yaml:"exclude"`
}

// Document is a parsed page.
type Document struct {
	Path    string
	Title   string
	Meta    Meta
	Regions []Region
}

// Blocks returns the document's code blocks in source order.
func (d *Document) Blocks() []*block.Block {
	var out []*block.Block
	for i := range d.Regions {
		if d.Regions[i].Kind == KindCode {
			out = append(out, d.Regions[i].Block)
		}
	}
	return out
}

// ExcludesLang reports whether the front matter excludes the given
// language tag. Matching is case-insensitive.
func (d *Document) ExcludesLang(name string) bool {
	for _, ex := range d.Meta.Exclude {
		if strings.EqualFold(ex, name) {
			return true
		}
	}
	return false
}

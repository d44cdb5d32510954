// Package lang holds the per-language break configuration: ordered rule
// tables for punctuation-delimited languages, classification flags for
// space-delimited and excluded languages, continuation markers, and the
// alias map that normalizes fence tags. The registry is built once at
// startup (built-in tables, then config and Lua extensions) and passed
// explicitly to the scanner and breaker; it is never mutated afterwards.
package lang

import (
	"errors"
	"fmt"
	"strings"
)

// Common errors returned by registry operations.
var (
	ErrEmptyName   = errors.New("lang: language name is empty")
	ErrEmptyRule   = errors.New("lang: rule pattern is empty")
	ErrBadClass    = errors.New("lang: unknown language class")
	ErrAliasTarget = errors.New("lang: alias target not registered")
)

// Class describes how a language's lines may be broken.
type Class int

const (
	// ClassPunctuated breaks at rule-table matches (the default).
	ClassPunctuated Class = iota
	// ClassSpaced breaks at the rightmost unquoted space; argument
	// boundaries in shell-like command languages are whitespace, not
	// punctuation, so the rule table is bypassed entirely.
	ClassSpaced
	// ClassExcluded languages are never reformatted (whitespace may be
	// significant, as in assembly dialects).
	ClassExcluded
)

// String returns a human-readable class name.
func (c Class) String() string {
	switch c {
	case ClassPunctuated:
		return "punctuated"
	case ClassSpaced:
		return "spaced"
	case ClassExcluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// ParseClass converts a configuration string into a Class.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "punctuated":
		return ClassPunctuated, nil
	case "spaced", "space-delimited":
		return ClassSpaced, nil
	case "excluded":
		return ClassExcluded, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadClass, s)
	}
}

// Rule is one entry of a language's ordered break table. Pattern is a
// fixed substring; Before selects whether the break lands before the
// match or after it; Separator marks argument-separator patterns, used to
// detect single-argument containers.
type Rule struct {
	Pattern   string
	Before    bool
	Separator bool
}

const (
	openers = "([{"
	closers = ")]}"
)

// bracket returns the first bracket character in the pattern, or 0.
func (r Rule) bracket() rune {
	for _, c := range r.Pattern {
		if strings.ContainsRune(openers, c) || strings.ContainsRune(closers, c) {
			return c
		}
	}
	return 0
}

// TargetsOpener reports whether the rule breaks around a container
// opener.
func (r Rule) TargetsOpener() bool {
	b := r.bracket()
	return b != 0 && strings.ContainsRune(openers, b)
}

// TargetsCloser reports whether the rule breaks around a container
// closer.
func (r Rule) TargetsCloser() bool {
	b := r.bracket()
	return b != 0 && strings.ContainsRune(closers, b)
}

// Spec is the complete break configuration for one language.
type Spec struct {
	// Name is the canonical language name.
	Name string

	// Class selects the breaking strategy.
	Class Class

	// Marker is appended to every emitted half when the language needs a
	// trailing continuation marker for the broken line to stay valid
	// (shell's backslash). Empty for most languages.
	Marker string

	// ColonAligned languages indent continuations just past the first
	// ": " separator of the line when one is present (CSS-style rule
	// languages).
	ColonAligned bool

	// Rules is the ordered break table (ClassPunctuated only).
	Rules []Rule
}

// Excluded reports whether the language must never be reformatted.
func (s Spec) Excluded() bool {
	return s.Class == ClassExcluded
}

// Registry maps language tags to break specs.
type Registry struct {
	specs   map[string]Spec
	aliases map[string]string
	generic Spec
}

// NewRegistry returns a registry preloaded with the built-in tables.
func NewRegistry() *Registry {
	r := &Registry{
		specs:   make(map[string]Spec),
		aliases: make(map[string]string),
		generic: genericSpec(),
	}
	registerBuiltins(r)
	return r
}

// Register adds or replaces a language spec and its aliases. Returns an
// error when the spec is malformed; the registry is unchanged in that
// case.
func (r *Registry) Register(spec Spec, aliases ...string) error {
	name := normalize(spec.Name)
	if name == "" {
		return ErrEmptyName
	}
	for _, rule := range spec.Rules {
		if rule.Pattern == "" {
			return fmt.Errorf("%w (language %q)", ErrEmptyRule, name)
		}
	}
	spec.Name = name
	r.specs[name] = spec
	for _, alias := range aliases {
		a := normalize(alias)
		if a != "" && a != name {
			r.aliases[a] = name
		}
	}
	return nil
}

// Alias maps an additional tag onto an already-registered language.
func (r *Registry) Alias(alias, target string) error {
	name := normalize(target)
	if _, ok := r.specs[name]; !ok {
		return fmt.Errorf("%w: %q", ErrAliasTarget, target)
	}
	if a := normalize(alias); a != "" {
		r.aliases[a] = name
	}
	return nil
}

// Lookup resolves a fence tag to its spec. Unknown tags resolve to the
// generic table.
func (r *Registry) Lookup(tag string) Spec {
	name := normalize(tag)
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	if spec, ok := r.specs[name]; ok {
		return spec
	}
	return r.generic
}

// Known reports whether the tag resolves to a registered language rather
// than the generic fallback.
func (r *Registry) Known(tag string) bool {
	name := normalize(tag)
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	_, ok := r.specs[name]
	return ok
}

// Names returns the canonical names of all registered languages.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.specs))
	for name := range r.specs {
		out = append(out, name)
	}
	return out
}

// Generic returns the fallback spec used for unrecognized tags.
func (r *Registry) Generic() Spec {
	return r.generic
}

func normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

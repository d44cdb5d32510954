package lang

import (
	"errors"
	"testing"
)

func TestLookupAliases(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		tag  string
		want string
	}{
		{"c", "c"},
		{"cpp", "c"},
		{"C++", "c"},
		{"go", "c"},
		{"py", "python"},
		{"sh", "bash"},
		{"  Bash  ", "bash"},
		{"yml", "yaml"},
		{"nasm", "asm"},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := r.Lookup(tt.tag).Name; got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLookupUnknownFallsBackToGeneric(t *testing.T) {
	r := NewRegistry()
	spec := r.Lookup("brainfuck")
	if spec.Name != "generic" {
		t.Errorf("expected generic spec, got %q", spec.Name)
	}
	if r.Known("brainfuck") {
		t.Error("unknown tag should not report as known")
	}
	if !r.Known("cpp") {
		t.Error("alias should report as known")
	}
}

func TestBuiltinClassification(t *testing.T) {
	r := NewRegistry()

	bash := r.Lookup("bash")
	if bash.Class != ClassSpaced {
		t.Errorf("expected bash spaced, got %v", bash.Class)
	}
	if bash.Marker != `\` {
		t.Errorf("expected backslash marker, got %q", bash.Marker)
	}

	asm := r.Lookup("asm")
	if !asm.Excluded() {
		t.Error("expected asm excluded")
	}

	css := r.Lookup("css")
	if !css.ColonAligned {
		t.Error("expected css colon-aligned")
	}

	c := r.Lookup("c")
	if c.Class != ClassPunctuated || len(c.Rules) == 0 {
		t.Errorf("expected punctuated c table, got %v with %d rules", c.Class, len(c.Rules))
	}
	if c.Rules[0].Pattern != ", " || !c.Rules[0].Separator {
		t.Errorf("expected comma separator first, got %+v", c.Rules[0])
	}
}

func TestRegisterValidation(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Spec{Name: ""}); !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}

	bad := Spec{Name: "x", Rules: []Rule{{Pattern: ""}}}
	if err := r.Register(bad); !errors.Is(err, ErrEmptyRule) {
		t.Errorf("expected ErrEmptyRule, got %v", err)
	}

	if err := r.Alias("foo", "nonexistent"); !errors.Is(err, ErrAliasTarget) {
		t.Errorf("expected ErrAliasTarget, got %v", err)
	}
}

func TestRegisterReplacesSpec(t *testing.T) {
	r := NewRegistry()
	custom := Spec{Name: "c", Class: ClassExcluded}
	if err := r.Register(custom); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if !r.Lookup("c").Excluded() {
		t.Error("expected replacement spec")
	}
	// Existing aliases still point at the canonical name.
	if !r.Lookup("cpp").Excluded() {
		t.Error("expected alias to resolve to replacement")
	}
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		in      string
		want    Class
		wantErr bool
	}{
		{"punctuated", ClassPunctuated, false},
		{"", ClassPunctuated, false},
		{"spaced", ClassSpaced, false},
		{"space-delimited", ClassSpaced, false},
		{"Excluded", ClassExcluded, false},
		{"bogus", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClass(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrBadClass) {
					t.Errorf("expected ErrBadClass, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRuleBracketTargets(t *testing.T) {
	tests := []struct {
		name       string
		rule       Rule
		wantOpener bool
		wantCloser bool
	}{
		{"open paren", Rule{Pattern: "("}, true, false},
		{"close paren", Rule{Pattern: ")", Before: true}, false, true},
		{"open bracket", Rule{Pattern: "["}, true, false},
		{"comma", Rule{Pattern: ", "}, false, false},
		{"logical and", Rule{Pattern: " && ", Before: true}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.TargetsOpener(); got != tt.wantOpener {
				t.Errorf("TargetsOpener: expected %v, got %v", tt.wantOpener, got)
			}
			if got := tt.rule.TargetsCloser(); got != tt.wantCloser {
				t.Errorf("TargetsCloser: expected %v, got %v", tt.wantCloser, got)
			}
		})
	}
}

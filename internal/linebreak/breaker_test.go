package linebreak

import (
	"strings"
	"testing"

	"github.com/dshills/codefit/internal/lang"
	"github.com/dshills/codefit/internal/segment"
)

func plainLine(text string) segment.Line {
	return segment.Line{{Text: text}}
}

func flats(lines []segment.Line) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = segment.Flatten(line)
	}
	return out
}

func assertFragments(t *testing.T, got []segment.Line, want []string) {
	t.Helper()
	flat := flats(got)
	if len(flat) != len(want) {
		t.Fatalf("expected %d fragments, got %d: %q", len(want), len(flat), flat)
	}
	for i := range want {
		if flat[i] != want[i] {
			t.Errorf("fragment %d: expected %q, got %q", i, want[i], flat[i])
		}
	}
}

func assertBudget(t *testing.T, got []segment.Line, budget int) {
	t.Helper()
	for i, line := range got {
		w := segment.StringWidth(strings.TrimRight(segment.Flatten(line), " "))
		if w > budget {
			t.Errorf("fragment %d: width %d exceeds budget %d", i, w, budget)
		}
	}
}

func TestBreakConditionAlignsPastOpener(t *testing.T) {
	reg := lang.NewRegistry()
	line := plainLine("if (connection_is_ready && buffer_has_capacity(buf, len)) {")

	out, ok := Break(line, reg.Lookup("c"), 30, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		"if (connection_is_ready ",
		"    && buffer_has_capacity(",
		"               buf, len)) {",
	})
	assertBudget(t, out, 30)
}

func TestBreakArgumentList(t *testing.T) {
	reg := lang.NewRegistry()
	out, ok := Break(plainLine("draw(x1, y1, x2, y2)"), reg.Lookup("c"), 14, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		"draw(x1, y1, ",
		"     x2, y2)",
	})
	assertBudget(t, out, 14)
}

func TestBreakShellAtSpacesWithMarker(t *testing.T) {
	reg := lang.NewRegistry()
	line := plainLine("docker run --rm -v /data:/data -p 8080:8080 myimage")

	out, ok := Break(line, reg.Lookup("bash"), 30, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		`docker run --rm -v \`,
		`    /data:/data -p \`,
		"    8080:8080 myimage",
	})
	assertBudget(t, out, 30)
}

func TestBreakNeverSplitsQuotedRun(t *testing.T) {
	reg := lang.NewRegistry()
	out, ok := Break(plainLine(`log("first, second", third)`), reg.Lookup("c"), 22, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		`log("first, second", `,
		"    third)",
	})
}

func TestBreakSingleArgumentPrefersShallowIndent(t *testing.T) {
	reg := lang.NewRegistry()
	out, ok := Break(plainLine("assert(alpha_condition && beta_condition)"), reg.Lookup("c"), 24, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		"assert(alpha_condition ",
		"    && beta_condition)",
	})
}

func TestBreakColonAligned(t *testing.T) {
	reg := lang.NewRegistry()
	line := plainLine("font-family: Helvetica, Arial, sans-serif;")

	out, ok := Break(line, reg.Lookup("css"), 28, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		"font-family: Helvetica, ",
		"             Arial, ",
		"             sans-serif;",
	})
	assertBudget(t, out, 28)
}

func TestBreakKeepsProgressWhenRemainderIsStuck(t *testing.T) {
	reg := lang.NewRegistry()
	line := plainLine("setup(a, b, reallylongsingletokenthatcannotbreakatall)")

	out, ok := Break(line, reg.Lookup("c"), 20, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		"setup(a, b, ",
		"      reallylongsingletokenthatcannotbreakatall)",
	})
}

func TestBreakMaxBreaksCap(t *testing.T) {
	reg := lang.NewRegistry()
	line := plainLine("docker run --rm -v /data:/data -p 8080:8080 myimage")
	cfg := Config{MaxBreaks: 1, ContIndent: 4}

	out, ok := Break(line, reg.Lookup("bash"), 30, cfg)
	if !ok {
		t.Fatal("expected a break, got none")
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 fragments under cap, got %d", len(out))
	}
	if got := segment.Flatten(out[1]); got != "    /data:/data -p 8080:8080 myimage" {
		t.Errorf("expected capped remainder verbatim, got %q", got)
	}
}

func TestBreakNoop(t *testing.T) {
	reg := lang.NewRegistry()
	tests := []struct {
		name   string
		text   string
		tag    string
		budget int
	}{
		{name: "already fits", text: "short line", tag: "c", budget: 40},
		{name: "excluded language", text: "mov eax, ebx, ecx, edx, esi", tag: "asm", budget: 10},
		{name: "zero budget", text: "a, b, c, d, e, f", tag: "c", budget: 0},
		{name: "no eligible break", text: "x := singleverylongtokenwithnobreaks(y)", tag: "c", budget: 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, ok := Break(plainLine(tt.text), reg.Lookup(tt.tag), tt.budget, DefaultConfig())
			if ok || out != nil {
				t.Errorf("expected no break, got %q", flats(out))
			}
		})
	}
}

func TestBreakPreservesStyledSegments(t *testing.T) {
	reg := lang.NewRegistry()
	line := segment.Line{
		{Text: "draw("},
		{Text: "x1, y1, x2, y2", Open: "<s>", Close: "</s>"},
		{Text: ")"},
	}

	out, ok := Break(line, reg.Lookup("c"), 14, DefaultConfig())
	if !ok {
		t.Fatal("expected a break, got none")
	}
	assertFragments(t, out, []string{
		"draw(x1, y1, ",
		"     x2, y2)",
	})

	cont := out[1]
	if len(cont) != 3 {
		t.Fatalf("expected 3 segments in continuation, got %d", len(cont))
	}
	if cont[0].Text != "     " || cont[0].Styled() {
		t.Errorf("expected unstyled padding, got %+v", cont[0])
	}
	if cont[1].Text != "x2, y2" || cont[1].Open != "<s>" {
		t.Errorf("expected styled run to survive the split, got %+v", cont[1])
	}
}

func TestBreakDoesNotModifyInput(t *testing.T) {
	reg := lang.NewRegistry()
	line := plainLine("draw(x1, y1, x2, y2)")

	if _, ok := Break(line, reg.Lookup("c"), 14, DefaultConfig()); !ok {
		t.Fatal("expected a break, got none")
	}
	if got := segment.Flatten(line); got != "draw(x1, y1, x2, y2)" {
		t.Errorf("input line was modified: %q", got)
	}
}

func TestBreakPreservesContent(t *testing.T) {
	reg := lang.NewRegistry()
	tests := []struct {
		name   string
		text   string
		tag    string
		budget int
	}{
		{name: "condition", text: "if (connection_is_ready && buffer_has_capacity(buf, len)) {", tag: "c", budget: 30},
		{name: "arguments", text: "draw(x1, y1, x2, y2)", tag: "c", budget: 14},
		{name: "css rule", text: "font-family: Helvetica, Arial, sans-serif;", tag: "css", budget: 28},
		{name: "shell", text: "docker run --rm -v /data:/data -p 8080:8080 myimage", tag: "bash", budget: 30},
		{name: "indented", text: "    draw(x1, y1, x2, y2)", tag: "c", budget: 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := reg.Lookup(tt.tag)
			out, ok := Break(plainLine(tt.text), spec, tt.budget, DefaultConfig())
			if !ok {
				t.Fatal("expected a break, got none")
			}

			// Continuation indentation is inserted and markers are
			// appended; stripping both must reproduce the original text.
			var b strings.Builder
			for i, line := range out {
				flat := segment.Flatten(line)
				if spec.Marker != "" && i < len(out)-1 {
					flat = strings.TrimSuffix(flat, spec.Marker)
					flat = strings.TrimSuffix(flat, " "+spec.Marker)
				}
				if i > 0 {
					flat = strings.TrimLeft(flat, " ")
				}
				b.WriteString(flat)
			}
			if b.String() != tt.text {
				t.Errorf("expected content %q, got %q", tt.text, b.String())
			}
		})
	}
}

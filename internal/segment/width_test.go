package segment

import "testing"

func TestRuneWidth(t *testing.T) {
	tests := []struct {
		name string
		r    rune
		want int
	}{
		{"ascii letter", 'a', 1},
		{"space", ' ', 1},
		{"tab", '\t', 1},
		{"control", '\x01', 0},
		{"delete", '\x7F', 0},
		{"cjk ideograph", '漢', 2},
		{"hangul", '한', 2},
		{"fullwidth paren", '（', 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RuneWidth(tt.r); got != tt.want {
				t.Errorf("expected width %d, got %d", tt.want, got)
			}
		})
	}
}

func TestStringWidth(t *testing.T) {
	tests := []struct {
		name string
		s    string
		want int
	}{
		{"empty", "", 0},
		{"ascii", "hello", 5},
		{"mixed", "a漢b", 4},
		{"wide only", "日本語", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StringWidth(tt.s); got != tt.want {
				t.Errorf("expected width %d, got %d", tt.want, got)
			}
		})
	}
}

func TestLineWidthCountsWideRunes(t *testing.T) {
	line := Line{plain("x = "), styled("\"日本\"", "s")}
	if got := Width(line); got != 10 {
		t.Errorf("expected width 10, got %d", got)
	}
	if got := Len(line); got != 8 {
		t.Errorf("expected length 8, got %d", got)
	}
}

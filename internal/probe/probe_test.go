package probe

import "testing"

func TestColumns(t *testing.T) {
	tests := []struct {
		name     string
		surface  Fixed
		fallback int
		want     int
	}{
		{"terminal cells", Fixed{Glyph: 1, Width: 80}, 66, 80},
		{"pixel surface", Fixed{Glyph: 8, Width: 640}, 66, 80},
		{"floors partial column", Fixed{Glyph: 8, Width: 671}, 66, 83},
		{"zero glyph falls back", Fixed{Glyph: 0, Width: 800}, 66, 66},
		{"negative glyph falls back", Fixed{Glyph: -1, Width: 800}, 66, 66},
		{"zero width", Fixed{Glyph: 1, Width: 0}, 66, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Columns(tt.surface, tt.fallback); got != tt.want {
				t.Errorf("expected %d columns, got %d", tt.want, got)
			}
		})
	}
}

func TestFixedColumns(t *testing.T) {
	if got := Columns(FixedColumns(42), 10); got != 42 {
		t.Errorf("expected 42 columns, got %d", got)
	}
}

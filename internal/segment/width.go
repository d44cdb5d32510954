package segment

// wideRanges lists Unicode ranges rendered double-width by monospace
// terminal fonts (East Asian wide and fullwidth forms).
var wideRanges = [][2]rune{
	{0x1100, 0x115F},
	{0x2E80, 0x9FFF},
	{0xAC00, 0xD7A3},
	{0xF900, 0xFAFF},
	{0xFE10, 0xFE1F},
	{0xFE30, 0xFE6F},
	{0xFF00, 0xFF60},
	{0xFFE0, 0xFFE6},
	{0x20000, 0x2FFFD},
	{0x30000, 0x3FFFD},
}

// RuneWidth returns the display width of a rune in terminal columns.
// Tabs report width 1; the highlighting layer expands them before the
// engine ever sees block text, so a remaining tab is treated as a single
// opaque column rather than a position-dependent run.
func RuneWidth(r rune) int {
	if r == '\t' {
		return 1
	}
	if r < 32 || r == 0x7F {
		return 0
	}
	for _, rng := range wideRanges {
		if r >= rng[0] && r <= rng[1] {
			return 2
		}
	}
	return 1
}

// StringWidth returns the printable width of s in terminal columns.
func StringWidth(s string) int {
	w := 0
	for _, r := range s {
		w += RuneWidth(r)
	}
	return w
}

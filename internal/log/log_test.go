package log

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{Level(99), "UNKNOWN"},
		{Level(-1), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"Warning", LevelWarn},
		{"error", LevelError},
		{"nonsense", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d, want %d", tt.input, got, tt.want)
		}
	}
}

func TestLoggerWritesAllLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelDebug, Output: &buf, Prefix: "test"})

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), buf.String())
	}
	wants := []string{
		"DEBUG test: debug message",
		"INFO test: info message",
		"WARN test: warn message",
		"ERROR test: error message",
	}
	for i, want := range wants {
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], want)
		}
	}
}

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelWarn, Output: &buf})

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("warn")
	logger.Error("error")

	out := buf.String()
	if strings.Contains(out, "DEBUG") || strings.Contains(out, "INFO") {
		t.Errorf("expected DEBUG and INFO filtered out, got:\n%s", out)
	}
	if !strings.Contains(out, "WARN") || !strings.Contains(out, "ERROR") {
		t.Errorf("expected WARN and ERROR in output, got:\n%s", out)
	}
}

func TestLoggerPrintfArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.Info("formatted %s %d", "test", 42)

	if !strings.Contains(buf.String(), "formatted test 42") {
		t.Errorf("expected formatted message, got: %s", buf.String())
	}
}

func TestWithFieldKeepsOrder(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.WithField("pass", "ab12").WithField("block", 3).Info("done")

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.HasSuffix(line, "INFO done pass=ab12 block=3") {
		t.Errorf("got %q, want fields in attachment order", line)
	}
}

func TestWithFieldLeavesParentUntouched(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	_ = logger.WithField("key", "value")
	logger.Info("bare")

	if strings.Contains(buf.String(), "key=value") {
		t.Errorf("parent logger picked up a derived field: %s", buf.String())
	}
}

func TestWithFieldsSortsKeys(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.WithFields(map[string]any{"zeta": 1, "alpha": 2}).Info("msg")

	line := strings.TrimRight(buf.String(), "\n")
	if !strings.HasSuffix(line, "INFO msg alpha=2 zeta=1") {
		t.Errorf("got %q, want fields in sorted key order", line)
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Output: &buf})

	logger.WithComponent("reflow").Info("test")

	if !strings.Contains(buf.String(), "component=reflow") {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

func TestSetLevelReachesDerivedLoggers(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelError, Output: &buf})
	child := logger.WithComponent("pipeline")

	child.Info("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("expected no output at error level, got: %s", buf.String())
	}

	logger.SetLevel(LevelInfo)
	child.Info("should appear")
	if buf.Len() == 0 {
		t.Error("expected derived logger to see the new level")
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger.Debug("test")
	NullLogger.Info("test")
	NullLogger.Warn("test")
	NullLogger.Error("test")
	NullLogger.WithField("k", "v").Error("test")
}

// Package log provides the application's leveled logger. It lives
// outside the app package so the formatting pipeline can log without
// importing application wiring.
//
// Loggers derived with WithField share the parent's level and output
// lock, so SetLevel on the root applies to every component.
package log

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Level represents the severity of a log message.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError

	// levelSilent is above every real level; nothing passes the filter.
	levelSilent
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the level's name in upper case.
func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLevel maps a level name to its Level, ignoring case. Unknown
// names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a key/value annotation attached to a logger. Fields render
// in the order they were attached.
type Field struct {
	Key string
	Val any
}

// Logger writes leveled, field-annotated lines. Safe for concurrent
// use from multiple goroutines.
type Logger struct {
	out    io.Writer
	prefix string
	fields []Field
	min    *atomic.Int32
	mu     *sync.Mutex
}

// Config configures a logger.
type Config struct {
	// Level is the minimum level to write.
	Level Level
	// Output is where lines go. Defaults to os.Stderr.
	Output io.Writer
	// Prefix is printed before every message.
	Prefix string
}

// New creates a logger with the given configuration.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	min := new(atomic.Int32)
	min.Store(int32(cfg.Level))
	return &Logger{
		out:    cfg.Output,
		prefix: cfg.Prefix,
		min:    min,
		mu:     new(sync.Mutex),
	}
}

// NullLogger discards everything. Useful as a default for optional
// logger parameters.
var NullLogger = New(Config{Level: levelSilent, Output: io.Discard})

// WithField returns a copy of the logger with one more field attached.
// The receiver is not modified.
func (l *Logger) WithField(key string, value any) *Logger {
	fields := make([]Field, len(l.fields), len(l.fields)+1)
	copy(fields, l.fields)
	return &Logger{
		out:    l.out,
		prefix: l.prefix,
		fields: append(fields, Field{key, value}),
		min:    l.min,
		mu:     l.mu,
	}
}

// WithFields attaches a set of fields in sorted key order.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	next := l
	for _, k := range keys {
		next = next.WithField(k, fields[k])
	}
	return next
}

// WithComponent tags the logger with a component field.
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithField("component", component)
}

// SetLevel changes the minimum level for this logger and everything
// derived from it.
func (l *Logger) SetLevel(level Level) {
	l.min.Store(int32(level))
}

// Debug logs a message at debug level. Extra arguments are formatted
// printf style.
func (l *Logger) Debug(format string, args ...any) { l.write(LevelDebug, format, args...) }

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) { l.write(LevelInfo, format, args...) }

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) { l.write(LevelWarn, format, args...) }

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) { l.write(LevelError, format, args...) }

func (l *Logger) write(level Level, format string, args ...any) {
	if int32(level) < l.min.Load() || l.out == nil {
		return
	}

	var b strings.Builder
	b.WriteString(time.Now().Format("15:04:05.000"))
	b.WriteByte(' ')
	b.WriteString(level.String())
	if l.prefix != "" {
		b.WriteByte(' ')
		b.WriteString(l.prefix)
		b.WriteByte(':')
	}
	b.WriteByte(' ')
	if len(args) > 0 {
		fmt.Fprintf(&b, format, args...)
	} else {
		b.WriteString(format)
	}
	for _, f := range l.fields {
		fmt.Fprintf(&b, " %s=%v", f.Key, f.Val)
	}
	b.WriteByte('\n')

	l.mu.Lock()
	_, _ = io.WriteString(l.out, b.String())
	l.mu.Unlock()
}

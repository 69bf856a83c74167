// Package testlog accumulates the log of a single test run.
package testlog

import (
	"fmt"
	"strings"

	"imtest/pkg/logging"
)

// Level is the verbosity of a test log line. Lower values are more severe.
type Level int

const (
	LevelSilent Level = iota
	LevelError
	LevelWarning
	LevelInfo
	LevelDebug
	LevelTrace
	levelCount
)

var levelNames = [levelCount]string{"Silent", "Error", "Warning", "Info", "Debug", "Trace"}

func (l Level) String() string {
	if l < 0 || l >= levelCount {
		return "Unknown"
	}
	return levelNames[l]
}

// ParseLevel accepts the names used in configuration ("silent" .. "trace").
func ParseLevel(s string) (Level, error) {
	for i, n := range levelNames {
		if strings.EqualFold(n, strings.TrimSpace(s)) {
			return Level(i), nil
		}
	}
	return LevelSilent, fmt.Errorf("unknown verbose level %q", s)
}

// LoggingLevel maps a test log level to the process log level.
func (l Level) LoggingLevel() logging.LogLevel {
	switch l {
	case LevelError:
		return logging.LevelError
	case LevelWarning:
		return logging.LevelWarn
	case LevelInfo:
		return logging.LevelInfo
	default:
		return logging.LevelDebug
	}
}

// Line is one entry of a test log.
type Line struct {
	Level Level
	Frame int
	Text  string
}

func (l Line) String() string {
	return fmt.Sprintf("[%04d] %s", l.Frame, l.Text)
}

// Log is the append-only log of one run. The zero value is ready to use.
type Log struct {
	lines  []Line
	counts [levelCount]int
}

// Add appends a line.
func (l *Log) Add(level Level, frame int, text string) Line {
	if level <= LevelSilent || level >= levelCount {
		level = LevelInfo
	}
	line := Line{Level: level, Frame: frame, Text: strings.TrimRight(text, "\n")}
	l.lines = append(l.lines, line)
	l.counts[level]++
	return line
}

// Lines returns every line in order.
func (l *Log) Lines() []Line {
	out := make([]Line, len(l.lines))
	copy(out, l.lines)
	return out
}

// Extract returns the lines whose level lies in [min, max].
func (l *Log) Extract(min, max Level) []Line {
	var out []Line
	for _, line := range l.lines {
		if line.Level >= min && line.Level <= max {
			out = append(out, line)
		}
	}
	return out
}

// Count returns how many lines were logged at level.
func (l *Log) Count(level Level) int {
	if level < 0 || level >= levelCount {
		return 0
	}
	return l.counts[level]
}

// Len returns the number of lines.
func (l *Log) Len() int { return len(l.lines) }

// Clear empties the log.
func (l *Log) Clear() {
	l.lines = nil
	l.counts = [levelCount]int{}
}

// String renders lines up to max verbosity, one per line.
func (l *Log) String(max Level) string {
	var b strings.Builder
	for _, line := range l.Extract(LevelError, max) {
		b.WriteString(line.String())
		b.WriteByte('\n')
	}
	return b.String()
}

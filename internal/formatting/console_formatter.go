package formatting

import (
	"fmt"
	"io"
	"strings"

	"imtest/internal/engine"
)

// ConsoleFormatter provides simple console output formatting
type ConsoleFormatter struct {
	options Options
}

// NewConsoleFormatter creates a new console formatter
func NewConsoleFormatter(options Options) Formatter {
	return &ConsoleFormatter{
		options: options,
	}
}

// FormatResults prints a numbered list, with failures indented below each
// failed test.
func (f *ConsoleFormatter) FormatResults(w io.Writer, results []engine.TestResult) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, "No tests registered.")
		return err
	}

	var output []string
	if !f.options.Quiet {
		output = append(output, fmt.Sprintf("Registered tests (%d):", len(results)))
	}
	for i, res := range results {
		name := res.Category + "/" + res.Name
		if f.options.Quiet {
			output = append(output, name)
			continue
		}
		output = append(output, fmt.Sprintf("  %d. %-40s - %s", i+1, name, res.Status))
		for _, failure := range res.Failures {
			output = append(output, "       "+failure.Error())
		}
	}
	_, err := fmt.Fprintln(w, strings.Join(output, "\n"))
	return err
}

// SetOptions updates the formatter options
func (f *ConsoleFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *ConsoleFormatter) GetOptions() Options {
	return f.options
}

package formatting

import (
	"encoding/json"
	"fmt"
	"io"

	"imtest/internal/engine"
)

// JSONFormatter provides structured JSON output formatting
type JSONFormatter struct {
	options Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(options Options) Formatter {
	return &JSONFormatter{
		options: options,
	}
}

// FormatResults writes {"tests": [...], "count": n}.
func (f *JSONFormatter) FormatResults(w io.Writer, results []engine.TestResult) error {
	out, err := f.marshal(newResultList(results))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// SetOptions updates the formatter options
func (f *JSONFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *JSONFormatter) GetOptions() Options {
	return f.options
}

// marshal indents unless quiet output was requested.
func (f *JSONFormatter) marshal(data interface{}) (string, error) {
	var (
		b   []byte
		err error
	)
	if f.options.Quiet {
		b, err = json.Marshal(data)
	} else {
		b, err = json.MarshalIndent(data, "", "  ")
	}
	if err != nil {
		return "", fmt.Errorf("failed to format JSON: %w", err)
	}
	return string(b), nil
}

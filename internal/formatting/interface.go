// Package formatting renders test listings and run results for the CLI.
//
// Every output format goes through the same Formatter interface so that
// `imtest list` and the summary printed after `imtest run` share one code
// path. Results are first converted to Records, which carry the json and
// yaml field names used by the machine readable formats.
package formatting

import (
	"io"

	"imtest/internal/engine"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"  // Simple console output
	FormatJSON     OutputFormat = "json"     // JSON output
	FormatYAML     OutputFormat = "yaml"     // YAML output
	FormatTable    OutputFormat = "table"    // Rich table output
	FormatTemplate OutputFormat = "template" // Go template, one execution per record
)

// Options configures the formatter behavior
type Options struct {
	Format OutputFormat
	Quiet  bool // Suppress decorative elements
	Color  bool // Enable colored output
	// Template is the text/template source used by FormatTemplate.
	Template string
}

// Formatter writes test results in one output format.
type Formatter interface {
	FormatResults(w io.Writer, results []engine.TestResult) error

	// Configuration
	SetOptions(options Options)
	GetOptions() Options
}

// Factory creates formatters for different output formats
type Factory interface {
	CreateFormatter(options Options) Formatter
}

// NewFactory creates a new formatter factory
func NewFactory() Factory {
	return &factory{}
}

// factory implements the Factory interface
type factory struct{}

// CreateFormatter creates the appropriate formatter based on options
func (f *factory) CreateFormatter(options Options) Formatter {
	switch options.Format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatTemplate:
		return NewTemplateFormatter(options)
	case FormatConsole:
		fallthrough
	default:
		return NewConsoleFormatter(options)
	}
}

// ParseFormat maps a --output flag value to an OutputFormat.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatConsole, FormatJSON, FormatYAML, FormatTable, FormatTemplate:
		return OutputFormat(s), nil
	case "":
		return FormatTable, nil
	default:
		return "", &UnknownFormatError{Format: s}
	}
}

// UnknownFormatError is returned by ParseFormat.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return "unknown output format " + `"` + e.Format + `"` + " (want console, json, yaml, table or template)"
}

package formatting

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"imtest/internal/engine"
)

// YAMLFormatter provides YAML output formatting
type YAMLFormatter struct {
	options Options
}

// NewYAMLFormatter creates a new YAML formatter
func NewYAMLFormatter(options Options) Formatter {
	return &YAMLFormatter{
		options: options,
	}
}

// FormatResults writes the results as a yaml document.
func (f *YAMLFormatter) FormatResults(w io.Writer, results []engine.TestResult) error {
	yamlBytes, err := yaml.Marshal(newResultList(results))
	if err != nil {
		return fmt.Errorf("failed to format YAML: %w", err)
	}
	_, err = w.Write(yamlBytes)
	return err
}

// SetOptions updates the formatter options
func (f *YAMLFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *YAMLFormatter) GetOptions() Options {
	return f.options
}

package formatting

import (
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"imtest/internal/engine"
)

// TemplateFormatter executes a Go template once per Record, in the manner of
// `go list -f`. The sprig function map is available.
type TemplateFormatter struct {
	options Options
}

// NewTemplateFormatter creates a new template formatter
func NewTemplateFormatter(options Options) Formatter {
	return &TemplateFormatter{
		options: options,
	}
}

// FormatResults parses the template and writes one line per record.
func (f *TemplateFormatter) FormatResults(w io.Writer, results []engine.TestResult) error {
	tmpl, err := ParseTemplate(f.options.Template)
	if err != nil {
		return err
	}
	for _, rec := range NewRecords(results) {
		if err := tmpl.Execute(w, rec); err != nil {
			return fmt.Errorf("failed to execute template for %s: %w", rec.FullName(), err)
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// SetOptions updates the formatter options
func (f *TemplateFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TemplateFormatter) GetOptions() Options {
	return f.options
}

// ParseTemplate parses src with the sprig text functions.
func ParseTemplate(src string) (*template.Template, error) {
	if src == "" {
		return nil, fmt.Errorf("template output requires a template")
	}
	tmpl, err := template.New("record").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}
	return tmpl, nil
}

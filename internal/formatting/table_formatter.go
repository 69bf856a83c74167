package formatting

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"imtest/internal/engine"
	pkgstrings "imtest/pkg/strings"
)

// maxFailureWidth bounds the FAILURE column.
const maxFailureWidth = 60

// TableFormatter provides rich table output formatting
type TableFormatter struct {
	options Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(options Options) Formatter {
	return &TableFormatter{
		options: options,
	}
}

// FormatResults renders one row per test and a total line.
func (f *TableFormatter) FormatResults(w io.Writer, results []engine.TestResult) error {
	if len(results) == 0 {
		_, err := io.WriteString(w, f.formatEmptyMessage("📋", "No tests found"))
		return err
	}

	t := f.createTable(w)
	t.AppendHeader(table.Row{
		f.paint(text.FgHiCyan, "CATEGORY"),
		f.paint(text.FgHiCyan, "NAME"),
		f.paint(text.FgHiCyan, "GROUP"),
		f.paint(text.FgHiCyan, "STATUS"),
		f.paint(text.FgHiCyan, "DURATION"),
		f.paint(text.FgHiCyan, "FRAMES"),
		f.paint(text.FgHiCyan, "FAILURE"),
	})

	for _, res := range results {
		failure := ""
		if len(res.Failures) > 0 {
			failure = pkgstrings.TruncateSummary(res.Failures[0].Error(), maxFailureWidth)
		}
		duration := ""
		if res.Status.Terminal() {
			duration = res.Duration.Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{
			res.Category,
			res.Name,
			res.Group.String(),
			f.formatStatus(res.Status),
			duration,
			res.Frames,
			failure,
		})
	}

	t.Render()

	if !f.options.Quiet {
		_, err := fmt.Fprintf(w, "\n%s %s %s\n",
			f.paint(text.FgHiBlue, "Total:"),
			f.paint(text.FgHiWhite, fmt.Sprint(len(results))),
			f.paint(text.FgHiBlue, "tests"))
		return err
	}
	return nil
}

// SetOptions updates the formatter options
func (f *TableFormatter) SetOptions(options Options) {
	f.options = options
}

// GetOptions returns the current formatter options
func (f *TableFormatter) GetOptions() Options {
	return f.options
}

// createTable creates a new table with standard styling
func (f *TableFormatter) createTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// formatStatus colours a status by outcome.
func (f *TableFormatter) formatStatus(s engine.Status) string {
	switch s {
	case engine.StatusSuccess:
		return f.paint(text.FgGreen, s.String())
	case engine.StatusError:
		return f.paint(text.FgRed, s.String())
	case engine.StatusQueued, engine.StatusRunning, engine.StatusSuspended:
		return f.paint(text.FgYellow, s.String())
	default:
		return f.paint(text.FgHiBlack, s.String())
	}
}

// formatEmptyMessage formats empty result messages
func (f *TableFormatter) formatEmptyMessage(icon, message string) string {
	return fmt.Sprintf("%s %s\n", f.paint(text.FgYellow, icon), f.paint(text.FgYellow, message))
}

func (f *TableFormatter) paint(c text.Color, s string) string {
	if !f.options.Color {
		return s
	}
	return c.Sprint(s)
}

package reporting

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"imtest/internal/engine"
	"imtest/internal/formatting"
)

// maxLogChars bounds the test log shown for a failed test outside debug
// mode.
const maxLogChars = 1000

// ConsoleOptions configures NewConsoleReporter.
type ConsoleOptions struct {
	Verbose bool
	Debug   bool
	// Progress shows a spinner while a test runs. The spinner only draws on
	// a terminal.
	Progress bool
	Color    bool
}

// consoleReporter implements Reporter for terminal output
type consoleReporter struct {
	out  io.Writer
	opts ConsoleOptions

	mu      sync.Mutex
	spinner *spinner.Spinner
	pending string // start line held back while the spinner runs
}

// NewConsoleReporter creates a reporter writing human readable progress to
// out.
func NewConsoleReporter(out io.Writer, opts ConsoleOptions) Reporter {
	return &consoleReporter{out: out, opts: opts}
}

// ReportStart is called when test execution begins
func (r *consoleReporter) ReportStart(run RunInfo) {
	fmt.Fprintf(r.out, "🧪 Starting imtest run %s\n", run.RunID)
	fmt.Fprintf(r.out, "📋 %d test(s) queued at %s speed\n", run.Queued, run.Speed)

	if r.opts.Verbose {
		fmt.Fprintf(r.out, "\n⚙️  Configuration:\n")
		fmt.Fprintf(r.out, "   • Filter: %s\n", stringOrDefault(run.Filter, "all"))
		fmt.Fprintf(r.out, "   • Speed: %s\n", run.Speed)
		fmt.Fprintf(r.out, "   • Debug mode: %t\n", r.opts.Debug)
		if run.ConfigPath != "" {
			fmt.Fprintf(r.out, "   • Config path: %s\n", run.ConfigPath)
		}
		fmt.Fprintf(r.out, "\n")
	}
}

// ReportTestStart is called when a test begins
func (r *consoleReporter) ReportTestStart(res engine.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := res.Category + "/" + res.Name
	if r.opts.Verbose {
		fmt.Fprintf(r.out, "🎯 Starting test: %s (%s)\n", res.Name, res.Category)
		if res.SourceFile != "" {
			fmt.Fprintf(r.out, "   📍 Source: %s:%d\n", res.SourceFile, res.SourceLine)
		}
		return
	}

	if r.opts.Progress {
		r.pending = fmt.Sprintf("🎯 %s... ", name)
		r.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(r.out))
		r.spinner.Suffix = " Running " + name + "..."
		r.spinner.Start()
		return
	}
	fmt.Fprintf(r.out, "🎯 %s... ", name)
}

// ReportTestResult is called when a test completes
func (r *consoleReporter) ReportTestResult(res engine.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	symbol := resultSymbol(res.Status)
	duration := res.Duration.Round(time.Millisecond)

	if !r.opts.Verbose {
		if r.spinner != nil {
			r.spinner.Stop()
			r.spinner = nil
			fmt.Fprint(r.out, r.pending)
			r.pending = ""
		}
		fmt.Fprintf(r.out, "%s (%v)\n", symbol, duration)
		if r.opts.Debug {
			r.printLog(res, false)
		}
		return
	}

	fmt.Fprintf(r.out, "%s Test completed: %s (%v, %d frames)\n", symbol, res.Name, duration, res.Frames)
	if len(res.Failures) > 0 {
		fmt.Fprintf(r.out, "   🔍 Failures:\n")
		for _, f := range res.Failures {
			fmt.Fprintf(r.out, "      ❌ %s\n", f.Error())
		}
	}
	if r.opts.Debug || res.Status == engine.StatusError {
		r.printLog(res, !r.opts.Debug)
	}
	fmt.Fprintf(r.out, "\n")
}

// ReportSuiteResult is called when all tests complete
func (r *consoleReporter) ReportSuiteResult(suite SuiteResult) {
	if r.opts.Verbose {
		fmt.Fprintf(r.out, "\n")
		table := formatting.NewTableFormatter(formatting.Options{Format: formatting.FormatTable, Color: r.opts.Color, Quiet: true})
		ran := make([]engine.TestResult, 0, len(suite.Results))
		for _, res := range suite.Results {
			if res.Status.Terminal() {
				ran = append(ran, res)
			}
		}
		if err := table.FormatResults(r.out, ran); err != nil {
			fmt.Fprintf(r.out, "failed to render results table: %v\n", err)
		}
	}
	PrintSummary(r.out, suite, r.opts.Color)
	fmt.Fprintf(r.out, "⏱️  Run %s took %v\n", suite.RunID, suite.Duration().Round(time.Millisecond))
}

func (r *consoleReporter) printLog(res engine.TestResult, trim bool) {
	if res.Log == "" {
		return
	}
	log := strings.TrimRight(res.Log, "\n")
	if trim {
		log = trimLogs(log, maxLogChars)
	}
	fmt.Fprintf(r.out, "   📄 Test log:\n%s\n", indentText(log, "      "))
}

func resultSymbol(s engine.Status) string {
	switch s {
	case engine.StatusSuccess:
		return "✅"
	case engine.StatusError:
		return "❌"
	default:
		return "⏸️"
	}
}

func stringOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// trimLogs keeps the tail of a log, where the failure usually is.
func trimLogs(logs string, maxChars int) string {
	if len(logs) <= maxChars {
		return logs
	}

	// Try to break at a line boundary
	truncated := logs[len(logs)-maxChars:]
	if nl := strings.Index(truncated, "\n"); nl >= 0 && nl < maxChars/2 {
		truncated = truncated[nl+1:]
	}

	return "... (truncated, see the JSON report for the complete log)\n" + truncated
}

// indentText adds indentation to each line of text
func indentText(text string, indent string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = indent + line
	}
	return strings.Join(lines, "\n")
}

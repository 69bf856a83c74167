package reporting

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imtest/internal/engine"
)

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func passed(name string) engine.TestResult {
	return engine.TestResult{
		Category: "widgets",
		Name:     name,
		Status:   engine.StatusSuccess,
		Duration: 250 * time.Millisecond,
		Frames:   12,
		Log:      "[0001] Test: 'widgets' '" + name + "'..\n[0012] Success.\n",
	}
}

func failed(name string) engine.TestResult {
	return engine.TestResult{
		Category: "widgets",
		Name:     name,
		Status:   engine.StatusError,
		Duration: 40 * time.Millisecond,
		Frames:   31,
		Failures: []engine.Failure{{
			Kind:    engine.FailureTargetNotFound,
			Frame:   30,
			Message: `item "Window/Missing" never appeared within 30 frames`,
		}},
		Log: "[0030] item never appeared\n",
	}
}

func TestNewRunInfo(t *testing.T) {
	run := NewRunInfo("widgets", "fast", 3, "imtest.yaml", t0)
	_, err := uuid.Parse(run.RunID)
	require.NoError(t, err)
	assert.Equal(t, 3, run.Queued)

	other := NewRunInfo("widgets", "fast", 3, "", t0)
	assert.NotEqual(t, run.RunID, other.RunID)
}

func TestNewSuiteResult(t *testing.T) {
	run := NewRunInfo("", "fast", 3, "", t0)
	skipped := engine.TestResult{Category: "widgets", Name: "skipped", Status: engine.StatusUnknown}
	suite := NewSuiteResult(run, []engine.TestResult{passed("a"), failed("b"), skipped}, t0.Add(2*time.Second))

	assert.Equal(t, 2, suite.Tested)
	assert.Equal(t, 1, suite.Succeeded)
	assert.False(t, suite.Passed())
	assert.Equal(t, []string{"widgets/b"}, suite.FailedNames())
	assert.Equal(t, 2*time.Second, suite.Duration())

	empty := NewSuiteResult(run, nil, t0)
	assert.True(t, empty.Passed())
}

func TestPrintSummary(t *testing.T) {
	run := NewRunInfo("", "fast", 2, "", t0)

	var buf bytes.Buffer
	PrintSummary(&buf, NewSuiteResult(run, []engine.TestResult{passed("a"), failed("b")}, t0), false)
	assert.Equal(t, "\nFailing tests:\n- widgets/b\n\nTests Result: Errors\n(1/2 tests passed)\n", buf.String())

	buf.Reset()
	PrintSummary(&buf, NewSuiteResult(run, []engine.TestResult{passed("a")}, t0), false)
	assert.Equal(t, "\nTests Result: OK\n(1/1 tests passed)\n", buf.String())
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, ConsoleOptions{})
	run := NewRunInfo("widgets", "fast", 2, "", t0)

	r.ReportStart(run)
	r.ReportTestStart(passed("a"))
	r.ReportTestResult(passed("a"))
	r.ReportTestStart(failed("b"))
	r.ReportTestResult(failed("b"))
	r.ReportSuiteResult(NewSuiteResult(run, []engine.TestResult{passed("a"), failed("b")}, t0.Add(time.Second)))

	out := buf.String()
	assert.Contains(t, out, "Starting imtest run "+run.RunID)
	assert.Contains(t, out, "🎯 widgets/a... ✅ (250ms)\n")
	assert.Contains(t, out, "🎯 widgets/b... ❌ (40ms)\n")
	assert.Contains(t, out, "Tests Result: Errors")
	assert.NotContains(t, out, "Test log:")
}

func TestConsoleReporter_ProgressWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, ConsoleOptions{Progress: true})

	r.ReportTestStart(passed("a"))
	r.ReportTestResult(passed("a"))

	assert.Equal(t, "🎯 widgets/a... ✅ (250ms)\n", buf.String())
}

func TestConsoleReporter_Verbose(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, ConsoleOptions{Verbose: true})
	run := NewRunInfo("", "normal", 2, "cfg.yaml", t0)

	r.ReportStart(run)
	res := failed("b")
	res.SourceFile, res.SourceLine = "widgets.go", 7
	r.ReportTestStart(res)
	r.ReportTestResult(res)
	r.ReportTestResult(passed("a"))
	r.ReportSuiteResult(NewSuiteResult(run, []engine.TestResult{passed("a"), res}, t0))

	out := buf.String()
	assert.Contains(t, out, "• Filter: all")
	assert.Contains(t, out, "• Config path: cfg.yaml")
	assert.Contains(t, out, "📍 Source: widgets.go:7")
	assert.Contains(t, out, "❌ Test completed: b (40ms, 31 frames)")
	assert.Contains(t, out, "never appeared within 30 frames")
	assert.Contains(t, out, "      [0030] item never appeared")
	assert.Contains(t, out, "CATEGORY")
	// The successful test's log is only shown in debug mode.
	assert.NotContains(t, out, "Success.")
}

func TestStructuredReporter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.json")
	r := NewStructuredReporter(path)

	json0, err := r.GetResultsAsJSON()
	require.NoError(t, err)
	assert.Contains(t, json0, "no_results")

	run := NewRunInfo("widgets", "fast", 2, "", t0)
	r.ReportStart(run)
	r.ReportTestStart(passed("a"))
	assert.Equal(t, "widgets/a", r.CurrentTest())
	r.ReportTestResult(passed("a"))
	assert.Empty(t, r.CurrentTest())
	r.ReportTestStart(failed("b"))
	r.ReportTestResult(failed("b"))

	mid := r.GetReport()
	require.NotNil(t, mid)
	assert.Equal(t, "running", mid.Status)
	assert.Len(t, mid.Tests, 2)

	r.ReportSuiteResult(NewSuiteResult(run, []engine.TestResult{passed("a"), failed("b")}, t0.Add(1500*time.Millisecond)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, run.RunID, report.RunID)
	assert.Equal(t, "failed", report.Status)
	assert.Equal(t, int64(1500), report.DurationMs)
	assert.Equal(t, 2, report.Tested)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Tests, 2)
	assert.Equal(t, "target-not-found", report.Tests[1].Failures[0].Kind)
	assert.True(t, strings.HasPrefix(report.Logs["widgets/a"], "[0001]"))
}

type countingReporter struct {
	starts, tests, results, suites int
}

func (c *countingReporter) ReportStart(RunInfo)                { c.starts++ }
func (c *countingReporter) ReportTestStart(engine.TestResult)  { c.tests++ }
func (c *countingReporter) ReportTestResult(engine.TestResult) { c.results++ }
func (c *countingReporter) ReportSuiteResult(SuiteResult)      { c.suites++ }

func TestMultiAndObserve(t *testing.T) {
	a, b := &countingReporter{}, &countingReporter{}
	m := Multi(a, b)
	obs := Observe(m)

	m.ReportStart(RunInfo{})
	obs.TestStarted(passed("a"))
	obs.TestFinished(passed("a"))
	m.ReportSuiteResult(SuiteResult{})

	for _, c := range []*countingReporter{a, b} {
		assert.Equal(t, countingReporter{1, 1, 1, 1}, *c)
	}
}

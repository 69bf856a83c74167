// Package reporting prints the progress and outcome of a suite run and
// writes the structured JSON report.
package reporting

import (
	"time"

	"github.com/google/uuid"

	"imtest/internal/engine"
)

// Reporter receives the progress of one suite run. Calls arrive on the
// goroutine driving the host frame loop.
type Reporter interface {
	// ReportStart is called once tests have been queued.
	ReportStart(run RunInfo)
	// ReportTestStart is called when a test leaves the queue.
	ReportTestStart(res engine.TestResult)
	// ReportTestResult is called when a test reaches Success or Error.
	ReportTestResult(res engine.TestResult)
	// ReportSuiteResult is called when the queue is empty.
	ReportSuiteResult(suite SuiteResult)
}

// RunInfo describes a suite run.
type RunInfo struct {
	RunID      string    `json:"run_id"`
	Filter     string    `json:"filter"`
	Speed      string    `json:"speed"`
	Queued     int       `json:"queued"`
	ConfigPath string    `json:"config_path,omitempty"`
	StartTime  time.Time `json:"start_time"`
}

// NewRunInfo assigns a fresh run id.
func NewRunInfo(filter, speed string, queued int, configPath string, start time.Time) RunInfo {
	return RunInfo{
		RunID:      uuid.NewString(),
		Filter:     filter,
		Speed:      speed,
		Queued:     queued,
		ConfigPath: configPath,
		StartTime:  start,
	}
}

// SuiteResult is the outcome of a suite run.
type SuiteResult struct {
	RunInfo
	EndTime   time.Time
	Tested    int
	Succeeded int
	Results   []engine.TestResult
}

// NewSuiteResult counts the tests of results that ran to completion.
func NewSuiteResult(run RunInfo, results []engine.TestResult, end time.Time) SuiteResult {
	s := SuiteResult{RunInfo: run, EndTime: end, Results: results}
	for _, res := range results {
		if !res.Status.Terminal() {
			continue
		}
		s.Tested++
		if res.Status == engine.StatusSuccess {
			s.Succeeded++
		}
	}
	return s
}

// Duration is the wall-clock time of the run.
func (s SuiteResult) Duration() time.Duration {
	if s.EndTime.Before(s.StartTime) {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Passed reports whether every completed test succeeded.
func (s SuiteResult) Passed() bool {
	return s.Succeeded == s.Tested
}

// FailedNames lists "category/name" of every failed test in registration
// order.
func (s SuiteResult) FailedNames() []string {
	var out []string
	for _, res := range s.Results {
		if res.Status == engine.StatusError {
			out = append(out, res.Category+"/"+res.Name)
		}
	}
	return out
}

// multiReporter fans calls out to several reporters.
type multiReporter []Reporter

// Multi combines reporters. Calls are made in argument order.
func Multi(reporters ...Reporter) Reporter {
	return multiReporter(reporters)
}

func (m multiReporter) ReportStart(run RunInfo) {
	for _, r := range m {
		r.ReportStart(run)
	}
}

func (m multiReporter) ReportTestStart(res engine.TestResult) {
	for _, r := range m {
		r.ReportTestStart(res)
	}
}

func (m multiReporter) ReportTestResult(res engine.TestResult) {
	for _, r := range m {
		r.ReportTestResult(res)
	}
}

func (m multiReporter) ReportSuiteResult(suite SuiteResult) {
	for _, r := range m {
		r.ReportSuiteResult(suite)
	}
}

// observer forwards engine notifications to a Reporter.
type observer struct {
	r Reporter
}

// Observe adapts r so it can be installed with engine.WithObserver.
func Observe(r Reporter) engine.Observer {
	return observer{r: r}
}

func (o observer) TestStarted(res engine.TestResult)  { o.r.ReportTestStart(res) }
func (o observer) TestFinished(res engine.TestResult) { o.r.ReportTestResult(res) }

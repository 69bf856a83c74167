package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"imtest/internal/engine"
	"imtest/internal/formatting"
	"imtest/pkg/logging"
)

// Report is the JSON document written at the end of a run.
type Report struct {
	RunID      string              `json:"run_id"`
	Filter     string              `json:"filter"`
	Speed      string              `json:"speed"`
	StartTime  time.Time           `json:"start_time"`
	EndTime    time.Time           `json:"end_time,omitempty"`
	DurationMs int64               `json:"duration_ms"`
	Status     string              `json:"status"` // "running", "passed", "failed"
	Tested     int                 `json:"tested"`
	Succeeded  int                 `json:"succeeded"`
	Tests      []formatting.Record `json:"tests"`
	Logs       map[string]string   `json:"logs,omitempty"`
}

// StructuredReporter captures a run as a Report without writing to stdio.
// When a report path is set the report is written there once the suite
// finishes.
type StructuredReporter struct {
	mu         sync.RWMutex
	reportPath string
	report     *Report
	current    string
}

// NewStructuredReporter creates a reporter that captures structured data.
// reportPath may be empty.
func NewStructuredReporter(reportPath string) *StructuredReporter {
	return &StructuredReporter{reportPath: reportPath}
}

// ReportStart is called when test execution begins
func (r *StructuredReporter) ReportStart(run RunInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.report = &Report{
		RunID:     run.RunID,
		Filter:    run.Filter,
		Speed:     run.Speed,
		StartTime: run.StartTime,
		Status:    "running",
		Tests:     make([]formatting.Record, 0, run.Queued),
		Logs:      make(map[string]string),
	}
}

// ReportTestStart is called when a test begins
func (r *StructuredReporter) ReportTestStart(res engine.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = res.Category + "/" + res.Name
}

// ReportTestResult is called when a test completes
func (r *StructuredReporter) ReportTestResult(res engine.TestResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = ""
	if r.report == nil {
		return
	}
	rec := formatting.NewRecords([]engine.TestResult{res})[0]
	r.report.Tests = append(r.report.Tests, rec)
	if res.Log != "" {
		r.report.Logs[rec.FullName()] = res.Log
	}
	r.report.Tested++
	if res.Status == engine.StatusSuccess {
		r.report.Succeeded++
	}
}

// ReportSuiteResult is called when all tests complete
func (r *StructuredReporter) ReportSuiteResult(suite SuiteResult) {
	r.mu.Lock()
	if r.report == nil {
		r.report = &Report{RunID: suite.RunID, StartTime: suite.StartTime, Logs: make(map[string]string)}
	}
	r.report.EndTime = suite.EndTime
	r.report.DurationMs = suite.Duration().Milliseconds()
	r.report.Tested = suite.Tested
	r.report.Succeeded = suite.Succeeded
	r.report.Status = "passed"
	if !suite.Passed() {
		r.report.Status = "failed"
	}
	r.mu.Unlock()

	if r.reportPath == "" {
		return
	}
	if err := r.WriteFile(r.reportPath); err != nil {
		logging.Error("Reporting", err, "Failed to write report")
		return
	}
	logging.Info("Reporting", "Wrote report for run %s to %s", suite.RunID, r.reportPath)
}

// CurrentTest is the full name of the running test, or empty.
func (r *StructuredReporter) CurrentTest() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// GetReport returns a copy of the captured report, or nil before
// ReportStart.
func (r *StructuredReporter) GetReport() *Report {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.report == nil {
		return nil
	}

	// Return a copy to avoid race conditions
	report := *r.report
	report.Tests = make([]formatting.Record, len(r.report.Tests))
	copy(report.Tests, r.report.Tests)
	report.Logs = make(map[string]string, len(r.report.Logs))
	for k, v := range r.report.Logs {
		report.Logs[k] = v
	}
	return &report
}

// GetResultsAsJSON returns the current report as JSON
func (r *StructuredReporter) GetResultsAsJSON() (string, error) {
	report := r.GetReport()
	if report == nil {
		return `{"status": "no_results", "message": "No test results available"}`, nil
	}

	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}

	return string(jsonData), nil
}

// WriteFile writes the report as JSON, creating parent directories.
func (r *StructuredReporter) WriteFile(path string) error {
	data, err := r.GetResultsAsJSON()
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(data+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}

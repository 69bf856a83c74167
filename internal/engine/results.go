package engine

import "imtest/internal/testlog"

// Result counts the tests that ran to completion and how many of them
// succeeded.
func (e *Engine) Result() (tested, succeeded int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tests {
		if !t.Status.Terminal() {
			continue
		}
		tested++
		if t.Status == StatusSuccess {
			succeeded++
		}
	}
	return tested, succeeded
}

// Results lists every registered test with the outcome of its last run.
func (e *Engine) Results() []TestResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]TestResult, 0, len(e.tests))
	for _, t := range e.tests {
		out = append(out, e.resultLocked(t))
	}
	return out
}

// resultLocked snapshots t for callers on any goroutine. The host goroutine
// writes the running test's record without holding e.mu, so only its status
// and start time are reported.
func (e *Engine) resultLocked(t *Test) TestResult {
	if e.current == nil || e.current.test != t {
		return t.result()
	}
	return TestResult{
		Category:   t.Category,
		Name:       t.Name,
		Group:      t.Group,
		Status:     t.Status,
		StartTime:  t.StartTime,
		SourceFile: t.SourceFile,
		SourceLine: t.SourceLine,
	}
}

// result snapshots the test. Callers hold e.mu.
func (t *Test) result() TestResult {
	failures := make([]Failure, len(t.Failures))
	copy(failures, t.Failures)
	return TestResult{
		Category:   t.Category,
		Name:       t.Name,
		Group:      t.Group,
		Status:     t.Status,
		StartTime:  t.StartTime,
		Duration:   t.Duration(),
		Frames:     t.Frames,
		Failures:   failures,
		SourceFile: t.SourceFile,
		SourceLine: t.SourceLine,
		Log:        t.Log.String(testlog.LevelDebug),
	}
}

// SuiteError returns a *SuiteFailedError when a finished test failed.
func (e *Engine) SuiteError() error {
	tested, succeeded := e.Result()
	if tested == succeeded {
		return nil
	}
	var failed []string
	for _, r := range e.Results() {
		if r.Status == StatusError {
			failed = append(failed, r.Category+"/"+r.Name)
		}
	}
	return &SuiteFailedError{Tested: tested, Succeeded: succeeded, Failed: failed}
}

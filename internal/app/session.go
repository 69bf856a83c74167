package app

import (
	"context"
	"io"
	"time"

	"imtest/internal/engine"
	"imtest/internal/formatting"
	"imtest/internal/input"
	"imtest/internal/reporting"
)

const sessionPollInterval = 10 * time.Millisecond

// Session queues manual runs on an engine whose frame loop runs on another
// goroutine. It only uses the engine's goroutine-safe methods.
type Session struct {
	engine   *engine.Engine
	reporter reporting.Reporter
	out      io.Writer
}

// NewSession creates a session. rep should be the reporter installed as the
// engine's observer; the session adds the run start and summary.
func NewSession(e *engine.Engine, rep reporting.Reporter, out io.Writer) *Session {
	return &Session{engine: e, reporter: rep, out: out}
}

// List writes the registered tests and their last status as a table.
func (s *Session) List(filter string) error {
	results := s.engine.Results()
	if filter != "" {
		selected, err := s.engine.MatchTests(engine.GroupUnknown, filter)
		if err != nil {
			return err
		}
		results = selected
	}
	return formatting.NewTableFormatter(formatting.Options{Format: formatting.FormatTable}).FormatResults(s.out, results)
}

// RunTests queues the tests matching filter and blocks until the engine is
// idle. Cancelling ctx aborts the run.
func (s *Session) RunTests(ctx context.Context, filter string) (reporting.SuiteResult, error) {
	start := time.Now()
	queued, err := s.engine.QueueTests(engine.GroupUnknown, filter, engine.RunFlagManualRun)
	if err != nil {
		return reporting.SuiteResult{}, err
	}
	run := reporting.NewRunInfo(filter, s.engine.Speed().String(), queued, "", start)
	s.reporter.ReportStart(run)

	ticker := time.NewTicker(sessionPollInterval)
	defer ticker.Stop()
	aborted := false
	for s.engine.IsRunningTests() {
		if !aborted && ctx.Err() != nil {
			s.engine.TryAbortEngine()
			aborted = true
		}
		<-ticker.C
	}

	var ran []engine.TestResult
	for _, res := range s.engine.Results() {
		if res.Status.Terminal() && !res.StartTime.Before(start) {
			ran = append(ran, res)
		}
	}
	suite := reporting.NewSuiteResult(run, ran, time.Now())
	s.reporter.ReportSuiteResult(suite)
	if aborted {
		return suite, ctx.Err()
	}
	return suite, nil
}

// Abort drops the queue and aborts the running test. It reports whether the
// engine was idle.
func (s *Session) Abort() bool {
	return s.engine.TryAbortEngine()
}

// SetSpeed changes the speed of tests started afterwards.
func (s *Session) SetSpeed(name string) (input.Speed, error) {
	speed, err := input.ParseSpeed(name)
	if err != nil {
		return speed, err
	}
	s.engine.SetSpeed(speed)
	return speed, nil
}

// Speed is the current run speed.
func (s *Session) Speed() input.Speed {
	return s.engine.Speed()
}

package engine

import (
	"fmt"
	"strings"
	"time"

	"imtest/internal/testlog"
)

// Group separates functional tests from performance tests.
type Group int

const (
	GroupUnknown Group = iota - 1
	GroupTests
	GroupPerfs
)

func (g Group) String() string {
	switch g {
	case GroupTests:
		return "Tests"
	case GroupPerfs:
		return "Perfs"
	default:
		return "Unknown"
	}
}

// Status is the state of a test in the current or last run.
type Status int

const (
	StatusUnknown Status = iota - 1
	StatusSuccess
	StatusQueued
	StatusRunning
	StatusError
	StatusSuspended
)

func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusSuccess:
		return "Success"
	case StatusQueued:
		return "Queued"
	case StatusRunning:
		return "Running"
	case StatusError:
		return "Error"
	case StatusSuspended:
		return "Suspended"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusError
}

// canTransition lists the status changes a run may go through. Dropping a
// queued test sends it back to Unknown; suspension is the only way back to
// Running.
func canTransition(from, to Status) bool {
	switch from {
	case StatusUnknown:
		return to == StatusQueued
	case StatusQueued:
		return to == StatusRunning || to == StatusUnknown
	case StatusRunning:
		return to == StatusSuccess || to == StatusError || to == StatusSuspended
	case StatusSuspended:
		return to == StatusRunning || to == StatusError
	default:
		return false
	}
}

// TestFlags are set at registration.
type TestFlags int

const (
	TestFlagNone TestFlags = 0
	// TestFlagNoWarmUp starts the test function without warm-up GUI frames.
	TestFlagNoWarmUp TestFlags = 1 << iota
	// TestFlagNoAutoFinish keeps a GUI-only test running until Finish.
	TestFlagNoAutoFinish
	// TestFlagNoRecoverWarnings silences unbalanced-scope warnings.
	TestFlagNoRecoverWarnings
)

// RunFlags are set when a test is queued.
type RunFlags int

const (
	RunFlagNone RunFlags = 0
	// RunFlagGuiFuncDisable skips the GUI function.
	RunFlagGuiFuncDisable RunFlags = 1 << iota
	// RunFlagGuiFuncOnly runs only the GUI function until aborted or finished.
	RunFlagGuiFuncOnly
	// RunFlagNoSuccessMsg suppresses the success log line.
	RunFlagNoSuccessMsg
	// RunFlagNoStopOnError keeps the queue going after this test fails.
	RunFlagNoStopOnError
	// RunFlagNoBreakOnError skips the debug-break hook for this run.
	RunFlagNoBreakOnError
	// RunFlagEnableRawInputs lets real input through instead of simulated
	// input.
	RunFlagEnableRawInputs
	// RunFlagManualRun marks a run started by a person.
	RunFlagManualRun
	// RunFlagCommandLine marks a run started from the command line.
	RunFlagCommandLine
)

func (f RunFlags) Has(flag RunFlags) bool   { return f&flag != 0 }
func (f TestFlags) Has(flag TestFlags) bool { return f&flag != 0 }

// GuiFunc builds the test's UI. It runs inside the host's frame.
type GuiFunc func(ctx *Context)

// TestFunc drives the test. It runs as a coroutine resumed once per frame.
type TestFunc func(ctx *Context)

// RunRecord is the mutable part of a test, reset every time it is queued.
type RunRecord struct {
	Status    Status
	RunFlags  RunFlags
	StartTime time.Time
	EndTime   time.Time
	Log       testlog.Log
	Failures  []Failure
	// Frames counts the frames the test was current for.
	Frames int
}

// Duration is how long the last run took.
func (r *RunRecord) Duration() time.Duration {
	if r.StartTime.IsZero() || r.EndTime.Before(r.StartTime) {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// StartMicros is the start timestamp in microseconds since the Unix epoch.
func (r *RunRecord) StartMicros() int64 { return r.StartTime.UnixMicro() }

// EndMicros is the end timestamp in microseconds since the Unix epoch.
func (r *RunRecord) EndMicros() int64 { return r.EndTime.UnixMicro() }

func (r *RunRecord) reset(flags RunFlags) {
	*r = RunRecord{Status: StatusUnknown, RunFlags: flags}
}

// Test is a registered test. Fields other than the run record must not be
// changed once the engine has started.
type Test struct {
	Category   string
	Name       string
	SourceFile string
	SourceLine int
	Group      Group
	Flags      TestFlags
	ArgVariant int

	GuiFunc  GuiFunc
	TestFunc TestFunc

	newVars func() any

	RunRecord
}

// FullName is "category/name".
func (t *Test) FullName() string {
	return t.Category + "/" + t.Name
}

// SourceLocation is "file:line", or empty when unknown.
func (t *Test) SourceLocation() string {
	if t.SourceFile == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", t.SourceFile, t.SourceLine)
}

// String is used in log lines.
func (t *Test) String() string {
	return fmt.Sprintf("'%s' (%s)", t.Name, strings.ToLower(t.Category))
}

// TestResult is the outcome of one test for reporting.
type TestResult struct {
	Category   string
	Name       string
	Group      Group
	Status     Status
	StartTime  time.Time
	Duration   time.Duration
	Frames     int
	Failures   []Failure
	SourceFile string
	SourceLine int
	// Log is the test log up to debug verbosity.
	Log string
}

package engine

import (
	"errors"
	"fmt"
)

// FailureKind classifies why a test failed.
type FailureKind int

const (
	// FailureAssertion is a failed check.
	FailureAssertion FailureKind = iota
	// FailureTargetNotFound is an item that did not resolve in time.
	FailureTargetNotFound
	// FailureTimeout is a wait or compound action that ran out of frames.
	FailureTimeout
	// FailureWatchdog is a test killed for running too long in wall-clock time.
	FailureWatchdog
	// FailurePanic is a panic raised by a GUI or test function.
	FailurePanic
	// FailureAborted is a test stopped by an abort request.
	FailureAborted
	// FailureHostInstability is an unbalanced host scope stack. It is only
	// ever recorded as a warning.
	FailureHostInstability
)

func (k FailureKind) String() string {
	switch k {
	case FailureAssertion:
		return "assertion"
	case FailureTargetNotFound:
		return "target-not-found"
	case FailureTimeout:
		return "timeout"
	case FailureWatchdog:
		return "watchdog"
	case FailurePanic:
		return "panic"
	case FailureAborted:
		return "aborted"
	case FailureHostInstability:
		return "host-instability"
	default:
		return "unknown"
	}
}

// Failure is one recorded problem of a test run.
type Failure struct {
	Kind    FailureKind
	Frame   int
	Message string
	// Location is the file:line of the failing call, when known.
	Location string
}

func (f Failure) Error() string {
	if f.Location != "" {
		return fmt.Sprintf("%s at %s: %s", f.Kind, f.Location, f.Message)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// SuiteFailedError is returned by runners when at least one test failed.
type SuiteFailedError struct {
	Tested    int
	Succeeded int
	Failed    []string
}

func (e *SuiteFailedError) Error() string {
	return fmt.Sprintf("%d of %d tests failed", e.Tested-e.Succeeded, e.Tested)
}

var (
	// ErrNotStarted is returned by operations that need a started engine.
	ErrNotStarted = errors.New("engine not started")
	// ErrNoTestsMatched is returned when a filter selects nothing.
	ErrNoTestsMatched = errors.New("no tests matched")
)

package engine

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/assert"

	"imtest/internal/host"
	"imtest/internal/input"
	"imtest/internal/testlog"
	"imtest/pkg/logging"
	"imtest/pkg/pathhash"
)

type activeFunc int

const (
	activeNone activeFunc = iota
	activeGui
	activeTest
)

// guiAbort unwinds a GUI function stopped by a fatal check.
type guiAbort struct{}

// GenericVars is scratch storage shared by the GUI and test functions of a
// test that did not declare its own vars.
type GenericVars struct {
	Bool1  bool
	Bool2  bool
	Int1   int
	Int2   int
	Float1 float64
	Str1   string
	ID     host.ID
	Status host.ItemStatusFlags
}

// Context is handed to both functions of a running test. Methods that yield
// must only be called from the test function.
type Context struct {
	engine *Engine
	run    *testRun
	test   *Test
	sim    *input.Simulator

	ref     host.ID
	refPath string

	vars    any
	generic GenericVars

	// pins lists the registry entries pinned by this run.
	pins []host.ID

	active          activeFunc
	abort           atomic.Bool
	finishRequested bool
}

func newContext(e *Engine, run *testRun, speed input.Speed) *Context {
	ctx := &Context{engine: e, run: run, test: run.test}
	ctx.sim = input.New(e.cfg.Input, speed, e.inputs, ctx, e.registry)
	if run.test.newVars != nil {
		ctx.vars = run.test.newVars()
	}
	return ctx
}

// Vars returns the vars declared with DeclareVars. A test without declared
// vars gets a zero *T on first use.
func Vars[T any](ctx *Context) *T {
	if v, ok := ctx.vars.(*T); ok {
		return v
	}
	if ctx.vars == nil {
		v := new(T)
		ctx.vars = v
		return v
	}
	panic(fmt.Sprintf("test %s declared vars of type %T, not %T", ctx.test.FullName(), ctx.vars, (*T)(nil)))
}

// GenericVars returns the shared scratch storage.
func (ctx *Context) GenericVars() *GenericVars { return &ctx.generic }

// Test returns the running test.
func (ctx *Context) Test() *Test { return ctx.test }

// UI returns the bound host.
func (ctx *Context) UI() host.UI { return ctx.engine.ui }

// Speed returns the speed inputs are simulated at.
func (ctx *Context) Speed() input.Speed { return ctx.sim.Speed() }

// RunFlags returns the flags the test was queued with.
func (ctx *Context) RunFlags() RunFlags { return ctx.test.RunFlags }

// IsGuiFuncOnly reports whether only the GUI function is being run.
func (ctx *Context) IsGuiFuncOnly() bool { return ctx.test.RunFlags.Has(RunFlagGuiFuncOnly) }

// FrameCount is the number of the last frame the host built.
func (ctx *Context) FrameCount() int { return ctx.engine.frameCount() }

// DeltaTime is the duration of the last frame in seconds.
func (ctx *Context) DeltaTime() float64 {
	if ui := ctx.engine.ui; ui != nil {
		return ui.DeltaTime()
	}
	return 0
}

// SetRef makes path the base of relative paths. A relative path is resolved
// against the current reference.
func (ctx *Context) SetRef(path string) {
	ctx.ref = ctx.GetID(path)
	ctx.refPath = path
	ctx.LogDebug("SetRef '%s' 0x%08X", path, ctx.ref)
}

// SetRefID uses id as the base of relative paths.
func (ctx *Context) SetRefID(id host.ID) {
	ctx.ref = id
	ctx.refPath = fmt.Sprintf("0x%08X", id)
}

// GetRef returns the current reference.
func (ctx *Context) GetRef() host.ID { return ctx.ref }

// GetID hashes path relative to the reference, or from the root when path
// starts with '/'.
func (ctx *Context) GetID(path string) host.ID {
	return pathhash.Hash(path, ctx.ref)
}

// GetIDFrom hashes path relative to seed.
func (ctx *Context) GetIDFrom(path string, seed host.ID) host.ID {
	return pathhash.Hash(path, seed)
}

func (ctx *Context) logf(level testlog.Level, format string, args ...any) {
	line := ctx.test.Log.Add(level, ctx.FrameCount(), fmt.Sprintf(format, args...))
	if level > ctx.engine.verbose {
		return
	}
	name := ctx.test.FullName()
	switch level.LoggingLevel() {
	case logging.LevelError:
		logging.Error("Test", nil, "%s %s", name, line)
	case logging.LevelWarn:
		logging.Warn("Test", "%s %s", name, line)
	case logging.LevelInfo:
		logging.Info("Test", "%s %s", name, line)
	default:
		logging.Debug("Test", "%s %s", name, line)
	}
}

func (ctx *Context) LogDebug(format string, args ...any) {
	ctx.exitIfKilled()
	ctx.logf(testlog.LevelDebug, format, args...)
}

func (ctx *Context) LogInfo(format string, args ...any) {
	ctx.exitIfKilled()
	ctx.logf(testlog.LevelInfo, format, args...)
}

func (ctx *Context) LogWarning(format string, args ...any) {
	ctx.exitIfKilled()
	ctx.logf(testlog.LevelWarning, format, args...)
}

func (ctx *Context) LogError(format string, args ...any) {
	ctx.exitIfKilled()
	ctx.logf(testlog.LevelError, format, args...)
}

// Yield suspends the test function until the next frame. It stops the test
// if an abort was requested.
func (ctx *Context) Yield() {
	ctx.exitIfKilled()
	switch ctx.active {
	case activeTest:
	case activeGui:
		ctx.LogError("Yield called from the GUI function, ignored")
		return
	default:
		return
	}
	ctx.checkAbort()
	ctx.run.co.yield()
	ctx.checkAbort()
}

// Enter is called by the input simulator before it touches the shared input
// state.
func (ctx *Context) Enter() { ctx.exitIfKilled() }

// exitIfKilled ends the calling goroutine once the watchdog killed the test.
// Only a test function left running after the kill gets there: the engine
// stops calling into a killed run.
func (ctx *Context) exitIfKilled() {
	if ctx.run.killed.Load() {
		runtime.Goexit()
	}
}

func (ctx *Context) checkAbort() {
	if ctx.abort.Load() {
		ctx.recordFailure(FailureAborted, "aborted", "")
		runtime.Goexit()
	}
}

// YieldFrames yields n times.
func (ctx *Context) YieldFrames(n int) {
	for i := 0; i < n; i++ {
		ctx.Yield()
	}
}

func (ctx *Context) Sleep(d time.Duration)       { ctx.sim.Sleep(d) }
func (ctx *Context) SleepNoSkip(d time.Duration) { ctx.sim.SleepNoSkip(d) }
func (ctx *Context) SleepShort()                 { ctx.sim.SleepShort() }
func (ctx *Context) SleepStandard()              { ctx.sim.SleepStandard() }

// WaitUntil yields until cond holds, for at most frames frames. It records a
// timeout and returns false when cond never held.
func (ctx *Context) WaitUntil(cond func() bool, frames int) bool {
	for i := 0; ; i++ {
		if cond() {
			return true
		}
		if i >= frames {
			break
		}
		ctx.Yield()
	}
	ctx.recordFailure(FailureTimeout, fmt.Sprintf("condition not met within %d frames", frames), callerLocation(1))
	return false
}

// Check records an assertion failure when cond is false and lets the test
// continue. msgAndArgs is an optional format string and its arguments.
func (ctx *Context) Check(cond bool, msgAndArgs ...any) bool {
	if cond {
		return true
	}
	ctx.recordFailure(FailureAssertion, messageOr("check failed", msgAndArgs), callerLocation(1))
	return false
}

// CheckEqual records an assertion failure when expected and actual differ.
func (ctx *Context) CheckEqual(expected, actual any, msgAndArgs ...any) bool {
	if assert.ObjectsAreEqual(expected, actual) {
		return true
	}
	msg := fmt.Sprintf("expected %#v, got %#v", expected, actual)
	if len(msgAndArgs) > 0 {
		msg = messageOr("", msgAndArgs) + ": " + msg
	}
	ctx.recordFailure(FailureAssertion, msg, callerLocation(1))
	return false
}

// Require is Check that stops the test on failure.
func (ctx *Context) Require(cond bool, msgAndArgs ...any) {
	if cond {
		return
	}
	ctx.recordFailure(FailureAssertion, messageOr("requirement failed", msgAndArgs), callerLocation(1))
	ctx.stop()
}

// RequireNoError stops the test when err is not nil.
func (ctx *Context) RequireNoError(err error, msgAndArgs ...any) {
	if err == nil {
		return
	}
	msg := err.Error()
	if len(msgAndArgs) > 0 {
		msg = messageOr("", msgAndArgs) + ": " + msg
	}
	ctx.recordFailure(FailureAssertion, msg, callerLocation(1))
	ctx.stop()
}

// Errorf records a failure and continues.
func (ctx *Context) Errorf(format string, args ...any) {
	ctx.recordFailure(FailureAssertion, fmt.Sprintf(format, args...), callerLocation(1))
}

// Fatalf records a failure and stops the test.
func (ctx *Context) Fatalf(format string, args ...any) {
	ctx.recordFailure(FailureAssertion, fmt.Sprintf(format, args...), callerLocation(1))
	ctx.stop()
}

// Finish ends the test. Called from the test function it returns only to
// run deferred calls; from the GUI function the test ends after this frame.
func (ctx *Context) Finish() {
	ctx.exitIfKilled()
	ctx.finishRequested = true
	if ctx.active == activeTest {
		runtime.Goexit()
	}
}

// IsError reports whether a failure was recorded in this run.
func (ctx *Context) IsError() bool { return len(ctx.test.Failures) > 0 }

func (ctx *Context) stop() {
	switch ctx.active {
	case activeGui:
		panic(guiAbort{})
	case activeTest:
		runtime.Goexit()
	}
}

func (ctx *Context) recordFailure(kind FailureKind, msg, location string) Failure {
	ctx.exitIfKilled()
	f := Failure{Kind: kind, Frame: ctx.FrameCount(), Message: msg, Location: location}
	if ctx.run.finished {
		logging.Warn("Engine", "%s already finished, ignoring %s", ctx.test, f.Error())
		return f
	}
	ctx.test.Failures = append(ctx.test.Failures, f)
	ctx.LogError("%s", f.Error())

	e := ctx.engine
	if e.cfg.BreakOnError && e.debugBreak != nil && !ctx.test.RunFlags.Has(RunFlagNoBreakOnError) {
		e.debugBreak(ctx.test, f)
	}
	return f
}

func callerLocation(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

func messageOr(fallback string, msgAndArgs []any) string {
	switch len(msgAndArgs) {
	case 0:
		return fallback
	case 1:
		if s, ok := msgAndArgs[0].(string); ok {
			return s
		}
		return fmt.Sprintf("%+v", msgAndArgs[0])
	default:
		if format, ok := msgAndArgs[0].(string); ok {
			return fmt.Sprintf(format, msgAndArgs[1:]...)
		}
		return fmt.Sprint(msgAndArgs...)
	}
}

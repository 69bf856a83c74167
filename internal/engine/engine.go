package engine

import (
	"fmt"
	"os"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"imtest/internal/clock"
	"imtest/internal/config"
	"imtest/internal/host"
	"imtest/internal/input"
	"imtest/internal/registry"
	"imtest/internal/testlog"
	"imtest/pkg/logging"
)

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the wall clock used by the watchdogs and run records.
func WithClock(c clock.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithExitFunc replaces os.Exit for the kill-app watchdog.
func WithExitFunc(fn func(code int)) Option {
	return func(e *Engine) { e.exit = fn }
}

// WithDebugBreak installs the hook called on failures when break-on-error is
// enabled.
func WithDebugBreak(fn func(t *Test, f Failure)) Option {
	return func(e *Engine) { e.debugBreak = fn }
}

// Observer is told when tests start and finish. It is called on the host
// goroutine and must not call back into the frame methods.
type Observer interface {
	TestStarted(res TestResult)
	TestFinished(res TestResult)
}

// WithObserver adds an observer. Several may be installed.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// testRun is the state of the test currently being executed.
type testRun struct {
	test      *Test
	ctx       *Context
	co        *coroutine
	warmup    int
	guiFrames int
	finished  bool
	// killed is set once the watchdog gave up on the test function.
	killed atomic.Bool
}

// Engine schedules registered tests against a host frame loop. The frame
// methods (PreNewFrame, PostNewFrame, PostRender), Start and Stop must be
// called from the goroutine running the host. Queue and abort methods may be
// called from any goroutine.
type Engine struct {
	cfg            config.EngineConfig
	speed          input.Speed
	verbose        testlog.Level
	verboseOnError testlog.Level

	clock      clock.Clock
	exit       func(code int)
	debugBreak func(t *Test, f Failure)
	observers  []Observer

	registry *registry.Registry
	inputs   *input.State
	watchdog *watchdog

	ui      host.UI
	started bool

	mu      sync.Mutex
	tests   []*Test
	queue   []*Test
	current *testRun
	// starting is set while a dequeued test has no run yet; abortStart
	// carries an abort requested in that window.
	starting   bool
	abortStart bool

	keepGui *testRun
}

// New creates an engine. The configuration is validated first.
func New(cfg config.EngineConfig, opts ...Option) (*Engine, error) {
	if errs := cfg.Validate(); errs.HasErrors() {
		return nil, fmt.Errorf("invalid engine configuration: %w", errs)
	}
	speed, err := input.ParseSpeed(cfg.RunSpeed)
	if err != nil {
		return nil, err
	}
	verbose, err := testlog.ParseLevel(cfg.VerboseLevel)
	if err != nil {
		return nil, err
	}
	verboseOnError, err := testlog.ParseLevel(cfg.VerboseLevelOnError)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:            cfg,
		speed:          speed,
		verbose:        verbose,
		verboseOnError: verboseOnError,
		clock:          clock.RealClock{},
		exit:           os.Exit,
		registry:       registry.New(cfg.Registry.EvictionWindowFrames),
		inputs:         input.NewState(host.Vec2{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.watchdog = newWatchdog(e.clock, cfg.Watchdog)
	e.registry.Reserve(cfg.Registry.ReserveHint)
	return e, nil
}

// Config returns the configuration the engine was created with.
func (e *Engine) Config() config.EngineConfig { return e.cfg }

// Speed returns the current run speed.
func (e *Engine) Speed() input.Speed {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the run speed for tests started afterwards.
func (e *Engine) SetSpeed(s input.Speed) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = s
}

// Registry exposes the item registry.
func (e *Engine) Registry() *registry.Registry { return e.registry }

// InputState exposes the simulated input state.
func (e *Engine) InputState() *input.State { return e.inputs }

// UI returns the bound host, or nil.
func (e *Engine) UI() host.UI { return e.ui }

// Bind attaches the engine to a host instance.
func (e *Engine) Bind(ui host.UI) {
	if e.ui != nil {
		e.Unbind()
	}
	e.ui = ui
	ui.Attach(e, e)
	e.inputs.MousePos = ui.DisplaySize().Scale(0.5)
}

// Unbind detaches the engine from its host.
func (e *Engine) Unbind() {
	if e.ui == nil {
		return
	}
	e.ui.Detach()
	e.ui = nil
	e.registry.Clear()
}

// Start binds to ui and begins processing the queue on the next frame.
func (e *Engine) Start(ui host.UI) {
	e.Bind(ui)
	e.started = true
	logging.Debug("Engine", "Started (speed=%s, stop_on_error=%t)", e.speed, e.cfg.StopOnError)
}

// Stop aborts the running test, drops the queue and unbinds.
func (e *Engine) Stop() {
	if !e.started {
		return
	}
	e.dropQueue("engine stopped")
	if run := e.current; run != nil {
		run.ctx.recordFailure(FailureAborted, "engine stopped", "")
		e.finishRun(run)
	}
	e.keepGui = nil
	e.Unbind()
	e.started = false
	logging.Debug("Engine", "Stopped")
}

// IsStarted reports whether Start was called without a matching Stop.
func (e *Engine) IsStarted() bool { return e.started }

// PreNewFrame runs before the host starts a frame: it starts queued tests,
// checks the watchdogs and resumes the running test once.
func (e *Engine) PreNewFrame() {
	if !e.started || e.ui == nil {
		return
	}
	if e.current == nil {
		e.startNextTest()
	}
	run := e.current
	if run == nil || run.finished {
		return
	}
	run.test.Frames++

	if e.statusOf(run.test) == StatusSuspended {
		if !run.ctx.abort.Load() {
			e.watchdog.pause()
			return
		}
		e.setStatus(run.test, StatusRunning)
	}
	e.watchdog.unpause()

	if !e.pollWatchdog(run) {
		return
	}

	if run.ctx.abort.Load() && (run.co == nil || run.co.done) {
		run.ctx.recordFailure(FailureAborted, "aborted", "")
		e.finishRun(run)
		return
	}

	if run.test.TestFunc == nil || run.test.RunFlags.Has(RunFlagGuiFuncOnly) {
		return
	}
	if run.guiFrames < run.warmup {
		return
	}
	e.stepCoroutine(run)
}

// PostNewFrame runs once the host has begun building a frame and calls the
// running test's GUI function.
func (e *Engine) PostNewFrame() {
	if !e.started || e.ui == nil {
		return
	}
	run := e.current
	if run == nil {
		if kept := e.keepGui; kept != nil && e.IsTestQueueEmpty() {
			e.callGuiFunc(kept)
		}
		return
	}
	if run.finished {
		return
	}

	t := run.test
	if t.GuiFunc != nil && !t.RunFlags.Has(RunFlagGuiFuncDisable) {
		e.callGuiFunc(run)
		run.guiFrames++
		if run.finished {
			return
		}
	}

	if e.statusOf(t) == StatusSuspended {
		return
	}
	if run.ctx.finishRequested {
		e.finishRun(run)
		return
	}
	if t.TestFunc != nil && !t.RunFlags.Has(RunFlagGuiFuncOnly) {
		return
	}
	if t.RunFlags.Has(RunFlagGuiFuncOnly) || t.Flags.Has(TestFlagNoAutoFinish) {
		return
	}
	if run.guiFrames >= run.warmup {
		e.finishRun(run)
	}
}

// PostRender runs after the host rendered a frame and collects stale items.
func (e *Engine) PostRender() {
	if !e.started || e.ui == nil {
		return
	}
	e.registry.Collect(e.ui.FrameCount())
}

// DrainInputs hands the host the simulated events queued since the last
// frame. With raw inputs enabled for the running test, events are dropped and
// nil is returned.
func (e *Engine) DrainInputs() []host.Event {
	events := e.inputs.Drain()
	if !e.UseSimulatedInputs() {
		return nil
	}
	return events
}

// UseSimulatedInputs reports whether the host should take its input from the
// engine this frame.
func (e *Engine) UseSimulatedInputs() bool {
	run := e.current
	if run == nil {
		return false
	}
	return !run.test.RunFlags.Has(RunFlagEnableRawInputs)
}

func (e *Engine) warmupFor(t *Test) int {
	if t.GuiFunc == nil || t.Flags.Has(TestFlagNoWarmUp) || t.RunFlags.Has(RunFlagGuiFuncDisable) {
		return 0
	}
	return e.cfg.WarmupFrames
}

func (e *Engine) statusOf(t *Test) Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return t.Status
}

func (e *Engine) setStatus(t *Test, s Status) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setStatusLocked(t, s)
}

func (e *Engine) setStatusLocked(t *Test, s Status) bool {
	if !canTransition(t.Status, s) {
		logging.Warn("Engine", "Refusing status change of %s from %s to %s", t, t.Status, s)
		return false
	}
	t.Status = s
	return true
}

func (e *Engine) startNextTest() {
	e.mu.Lock()
	var t *Test
	for len(e.queue) > 0 && t == nil {
		next := e.queue[0]
		e.queue = e.queue[1:]
		if next.Status == StatusQueued {
			t = next
		}
	}
	if t == nil {
		e.mu.Unlock()
		return
	}
	e.setStatusLocked(t, StatusRunning)
	t.StartTime = e.clock.Now()
	speed := e.speed
	e.starting, e.abortStart = true, false
	e.mu.Unlock()

	run := &testRun{test: t, warmup: e.warmupFor(t)}
	run.ctx = newContext(e, run, speed)

	e.keepGui = nil
	e.watchdog.reset(speed.Human())
	e.inputs.ReleaseAll()

	e.mu.Lock()
	e.current = run
	e.starting = false
	if e.abortStart {
		run.ctx.abort.Store(true)
	}
	e.mu.Unlock()

	logging.Info("Engine", "Running %s", t)
	run.ctx.logf(testlog.LevelInfo, "Test: '%s' '%s'..", t.Category, t.Name)
	e.notify(t, Observer.TestStarted)
}

func (e *Engine) stepCoroutine(run *testRun) {
	if run.co == nil {
		ctx := run.ctx
		fn := run.test.TestFunc
		run.co = newCoroutine(func() { fn(ctx) })
		run.co.started = true
	}
	run.ctx.active = activeTest
	run.co.resume <- struct{}{}
	ev, alive := e.waitCoroutine(run)
	if !alive {
		return
	}
	run.ctx.active = activeNone
	if ev.kind == coYielded {
		return
	}

	run.co.done = true
	if ev.panicked {
		run.ctx.recordFailure(FailurePanic, ev.panicMessage(), "")
	}
	e.finishRun(run)
}

// waitCoroutine blocks until the routine yields or finishes, firing
// watchdog thresholds that expire meanwhile. alive is false if the test was
// killed.
func (e *Engine) waitCoroutine(run *testRun) (coEvent, bool) {
	for {
		var timeout <-chan time.Time
		if d, ok := e.watchdog.untilNext(); ok {
			timeout = e.clock.After(d)
		}
		select {
		case ev := <-run.co.events:
			return ev, true
		case <-timeout:
			if !e.pollWatchdog(run) {
				return coEvent{}, false
			}
		}
	}
}

// pollWatchdog applies crossed thresholds and reports whether the test is
// still alive.
func (e *Engine) pollWatchdog(run *testRun) bool {
	switch e.watchdog.poll() {
	case watchdogWarn:
		msg := fmt.Sprintf("Test running for %s, past the watchdog warning threshold", e.watchdog.elapsed().Round(time.Millisecond))
		run.ctx.logf(testlog.LevelWarning, "%s", msg)
		logging.Warn("Engine", "%s: %s", run.test, msg)
	case watchdogKillApp:
		logging.Error("Engine", nil, "%s exceeded the kill-app threshold, terminating", run.test)
		e.exit(1)
		e.killRun(run, "exceeded the kill-app threshold")
		return false
	case watchdogKillTest:
		e.killRun(run, "exceeded the kill-test threshold")
		return false
	}
	return true
}

// callGuiFunc runs the GUI function of run inside the current host frame and
// closes any scopes it left open.
func (e *Engine) callGuiFunc(run *testRun) {
	ctx := run.ctx
	prev := ctx.active
	ctx.active = activeGui
	stopped := func() (stopped bool) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			stopped = true
			if _, ok := r.(guiAbort); ok {
				return
			}
			msg := fmt.Sprintf("panic in GUI function: %v\n%s", r, debug.Stack())
			if run.finished {
				logging.Error("Engine", nil, "%s: %s", run.test, msg)
				return
			}
			ctx.recordFailure(FailurePanic, msg, "")
		}()
		run.test.GuiFunc(ctx)
		return false
	}()
	ctx.active = prev

	if n := e.ui.RecoverStack(); n > 0 && !run.test.Flags.Has(TestFlagNoRecoverWarnings) {
		msg := fmt.Sprintf("GUI function left %d scope(s) open", n)
		if !run.finished {
			ctx.logf(testlog.LevelWarning, "%s: %s", FailureHostInstability, msg)
		}
		logging.Warn("Engine", "%s: %s", run.test, msg)
	}

	if !stopped {
		return
	}
	if run.finished {
		e.keepGui = nil
		return
	}
	e.finishRun(run)
}

func (e *Engine) killRun(run *testRun, reason string) {
	msg := fmt.Sprintf("Watchdog: %s after %s", reason, e.watchdog.elapsed().Round(time.Millisecond))
	run.ctx.abort.Store(true)
	run.ctx.recordFailure(FailureWatchdog, msg, "")
	run.killed.Store(true)
	e.finishRun(run)
}

func (e *Engine) finishRun(run *testRun) {
	if run.finished {
		return
	}
	run.finished = true
	if run.co != nil && !run.co.done {
		run.co.abandon()
	}
	t := run.test
	t.EndTime = e.clock.Now()

	status := StatusSuccess
	if len(t.Failures) > 0 {
		status = StatusError
	}
	e.setStatus(t, status)
	e.inputs.ReleaseAll()
	for _, id := range run.ctx.pins {
		e.registry.Release(id)
	}
	run.ctx.pins = nil

	if status == StatusSuccess {
		if !t.RunFlags.Has(RunFlagNoSuccessMsg) {
			run.ctx.logf(testlog.LevelInfo, "Success.")
		}
		logging.Info("Engine", "%s succeeded in %s", t, t.Duration().Round(time.Millisecond))
	} else {
		run.ctx.logf(testlog.LevelError, "Test %s failed with %d error(s)", t.FullName(), len(t.Failures))
		logging.Error("Engine", t.Failures[0], "%s failed", t)
		e.dumpLogOnError(t)
		if e.cfg.StopOnError && !t.RunFlags.Has(RunFlagNoStopOnError) {
			e.dropQueue(fmt.Sprintf("stop on error after %s", t.FullName()))
		}
	}

	e.notify(t, Observer.TestFinished)
	e.mu.Lock()
	e.current = nil
	e.mu.Unlock()
	if e.cfg.KeepGuiFunc && t.GuiFunc != nil && !run.killed.Load() {
		e.keepGui = run
	}
}

func (e *Engine) notify(t *Test, fn func(Observer, TestResult)) {
	if len(e.observers) == 0 {
		return
	}
	e.mu.Lock()
	res := t.result()
	e.mu.Unlock()
	for _, o := range e.observers {
		fn(o, res)
	}
}

func (e *Engine) dumpLogOnError(t *Test) {
	if e.verboseOnError <= e.verbose {
		return
	}
	for _, line := range t.Log.Extract(e.verbose+1, e.verboseOnError) {
		logging.Info("Test", "%s %s", t.FullName(), line)
	}
}

func (e *Engine) dropQueue(reason string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return
	}
	dropped := 0
	for _, t := range e.queue {
		if e.setStatusLocked(t, StatusUnknown) {
			dropped++
		}
	}
	e.queue = nil
	logging.Info("Engine", "Dropped %d queued tests: %s", dropped, reason)
}

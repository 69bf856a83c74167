package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imtest/internal/config"
	"imtest/internal/host"
	"imtest/internal/testlog"
)

type clickVars struct {
	clicks int
}

func registerClickTest(e *Engine) *Test {
	t := e.RegisterTest("widgets", "button_click")
	DeclareVars[clickVars](t, nil)
	t.GuiFunc = func(ctx *Context) {
		ui := gui(ctx)
		ui.Begin("Test Window")
		if ui.Button("OK") {
			Vars[clickVars](ctx).clicks++
		}
		ui.End()
	}
	t.TestFunc = func(ctx *Context) {
		ctx.SetRef("Test Window")
		ctx.ItemClick("OK")
		ctx.CheckEqual(1, Vars[clickVars](ctx).clicks)
	}
	return t
}

func TestEngine_ClickScenario(t *testing.T) {
	for _, speed := range config.Speeds {
		t.Run(speed, func(t *testing.T) {
			e, ui := newTestEngine(t, func(cfg *config.EngineConfig) { cfg.RunSpeed = speed })
			test := registerClickTest(e)
			queueAll(t, e, RunFlagNone)

			runQueue(t, e, ui)

			assert.Equal(t, StatusSuccess, test.Status)
			assert.Empty(t, test.Failures)
			tested, succeeded := e.Result()
			assert.Equal(t, 1, tested)
			assert.Equal(t, 1, succeeded)
			assert.NoError(t, e.SuiteError())
			assert.False(t, e.InputState().AnyButtonDown())
		})
	}
}

func TestEngine_TargetNotFound(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	reached := false
	test := e.RegisterTest("widgets", "missing")
	test.TestFunc = func(ctx *Context) {
		ctx.ItemClick("/Nowhere/Missing")
		reached = true
	}
	queueAll(t, e, RunFlagNone)

	frames := runQueue(t, e, ui)

	assert.Equal(t, StatusError, test.Status)
	assert.False(t, reached)
	require.Equal(t, []FailureKind{FailureTargetNotFound}, kinds(test))
	assert.Contains(t, test.Failures[0].Message, "never appeared within 30 frames")
	assert.Contains(t, test.Failures[0].Location, "engine_test.go")
	assert.GreaterOrEqual(t, frames, e.Config().Input.TargetResolveFrames)
}

func TestEngine_TargetNotFound_NoError(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("widgets", "missing_allowed")
	test.TestFunc = func(ctx *Context) {
		ctx.Check(!ctx.ItemClick("/Nowhere/Missing", OpNoError))
		ctx.Check(!ctx.ItemExists("/Nowhere/Missing"))
	}
	queueAll(t, e, RunFlagNone)

	runQueue(t, e, ui)

	assert.Equal(t, StatusSuccess, test.Status)
}

func TestEngine_StopOnError(t *testing.T) {
	tests := []struct {
		name        string
		stopOnError bool
		flags       RunFlags
		wantTested  int
		wantSecond  Status
	}{
		{"stops the queue", true, RunFlagNone, 1, StatusUnknown},
		{"disabled in config", false, RunFlagNone, 2, StatusSuccess},
		{"overridden per run", true, RunFlagNoStopOnError, 2, StatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ui := newTestEngine(t, func(cfg *config.EngineConfig) { cfg.StopOnError = tt.stopOnError })
			first := e.RegisterTest("suite", "first")
			first.TestFunc = func(ctx *Context) { ctx.Errorf("boom") }
			second := e.RegisterTest("suite", "second")
			second.TestFunc = func(ctx *Context) { ctx.Yield() }
			queueAll(t, e, tt.flags)

			runQueue(t, e, ui)

			assert.Equal(t, StatusError, first.Status)
			assert.Equal(t, tt.wantSecond, second.Status)
			tested, succeeded := e.Result()
			assert.Equal(t, tt.wantTested, tested)
			assert.Equal(t, tt.wantTested-1, succeeded)

			var suiteErr *SuiteFailedError
			require.True(t, errors.As(e.SuiteError(), &suiteErr))
			assert.Equal(t, []string{"suite/first"}, suiteErr.Failed)
		})
	}
}

func TestEngine_StatusTransitions(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusUnknown, StatusQueued}:    true,
		{StatusQueued, StatusRunning}:    true,
		{StatusQueued, StatusUnknown}:    true,
		{StatusRunning, StatusSuccess}:   true,
		{StatusRunning, StatusError}:     true,
		{StatusRunning, StatusSuspended}: true,
		{StatusSuspended, StatusRunning}: true,
		{StatusSuspended, StatusError}:   true,
	}
	all := []Status{StatusUnknown, StatusSuccess, StatusQueued, StatusRunning, StatusError, StatusSuspended}
	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]Status{from, to}], canTransition(from, to), "%s -> %s", from, to)
		}
	}

	e, _ := newTestEngine(t, nil)
	test := e.RegisterTest("suite", "refused")
	assert.False(t, e.setStatus(test, StatusRunning))
	assert.Equal(t, StatusUnknown, test.Status)
}

func TestEngine_RequeueStartsNewRun(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	fail := true
	test := e.RegisterTest("suite", "flaky")
	test.TestFunc = func(ctx *Context) {
		ctx.Check(!fail, "first run fails")
	}
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)
	require.Equal(t, StatusError, test.Status)
	require.Len(t, test.Failures, 1)

	fail = false
	e.QueueTest(test, RunFlagManualRun)
	assert.Equal(t, StatusQueued, test.Status)
	assert.Empty(t, test.Failures)
	assert.Zero(t, test.Log.Len())
	assert.True(t, test.RunFlags.Has(RunFlagManualRun))

	runQueue(t, e, ui)
	assert.Equal(t, StatusSuccess, test.Status)
}

func TestEngine_WarmUp(t *testing.T) {
	for _, noWarmUp := range []bool{false, true} {
		e, ui := newTestEngine(t, nil)
		guiFrames, seen := 0, -1
		test := e.RegisterTest("suite", "warmup")
		if noWarmUp {
			test.Flags |= TestFlagNoWarmUp
		}
		test.GuiFunc = func(ctx *Context) { guiFrames++ }
		test.TestFunc = func(ctx *Context) { seen = guiFrames }
		queueAll(t, e, RunFlagNone)

		runQueue(t, e, ui)

		want := e.Config().WarmupFrames
		if noWarmUp {
			want = 0
		}
		assert.Equal(t, want, seen)
		assert.Equal(t, StatusSuccess, test.Status)
	}
}

func TestEngine_GuiOnlyTests(t *testing.T) {
	t.Run("auto finish after warm-up", func(t *testing.T) {
		e, ui := newTestEngine(t, nil)
		calls := 0
		test := e.RegisterTest("suite", "gui_only")
		test.GuiFunc = func(ctx *Context) { calls++ }
		queueAll(t, e, RunFlagNone)

		runQueue(t, e, ui)

		assert.Equal(t, StatusSuccess, test.Status)
		assert.Equal(t, e.Config().WarmupFrames, calls)
	})

	t.Run("finish from the GUI function", func(t *testing.T) {
		e, ui := newTestEngine(t, nil)
		calls := 0
		test := e.RegisterTest("suite", "gui_only_manual")
		test.Flags |= TestFlagNoAutoFinish
		test.GuiFunc = func(ctx *Context) {
			calls++
			if calls == 5 {
				ctx.Finish()
			}
		}
		queueAll(t, e, RunFlagNone)

		runQueue(t, e, ui)

		assert.Equal(t, StatusSuccess, test.Status)
		assert.Equal(t, 5, calls)
	})

	t.Run("gui func only run flag", func(t *testing.T) {
		e, ui := newTestEngine(t, nil)
		calls, ran := 0, false
		test := e.RegisterTest("suite", "gui_func_only")
		test.GuiFunc = func(ctx *Context) {
			calls++
			ctx.Check(ctx.IsGuiFuncOnly())
		}
		test.TestFunc = func(ctx *Context) { ran = true }
		queueAll(t, e, RunFlagGuiFuncOnly)

		for i := 0; i < 10; i++ {
			step(e, ui)
		}
		assert.Equal(t, StatusRunning, test.Status)
		e.AbortCurrentTest()
		runQueue(t, e, ui)

		assert.False(t, ran)
		assert.Equal(t, 10, calls)
		assert.Equal(t, StatusError, test.Status)
		assert.Equal(t, []FailureKind{FailureAborted}, kinds(test))
	})
}

func TestEngine_RequireStopsFunctions(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	guiAfter, testAfter := false, false

	inGui := e.RegisterTest("suite", "require_gui")
	inGui.GuiFunc = func(ctx *Context) {
		ctx.Require(false, "gui says %s", "no")
		guiAfter = true
	}
	inTest := e.RegisterTest("suite", "require_test")
	inTest.TestFunc = func(ctx *Context) {
		defer ctx.LogInfo("deferred calls still run")
		ctx.RequireNoError(errors.New("broken"), "setting up")
		testAfter = true
	}
	queueAll(t, e, RunFlagNone)

	runQueue(t, e, ui)

	assert.False(t, guiAfter)
	assert.False(t, testAfter)
	assert.Equal(t, StatusError, inGui.Status)
	assert.Equal(t, "gui says no", inGui.Failures[0].Message)
	assert.Equal(t, StatusError, inTest.Status)
	assert.Equal(t, "setting up: broken", inTest.Failures[0].Message)
	assert.Contains(t, inTest.Log.String(testlog.LevelInfo), "deferred calls still run")
}

func TestEngine_PanicsAreRecovered(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	inTest := e.RegisterTest("suite", "panic_test")
	inTest.TestFunc = func(ctx *Context) { panic("kaboom") }
	inGui := e.RegisterTest("suite", "panic_gui")
	inGui.GuiFunc = func(ctx *Context) { panic(errors.New("gui kaboom")) }
	after := e.RegisterTest("suite", "after")
	after.TestFunc = func(ctx *Context) {}
	queueAll(t, e, RunFlagNone)

	runQueue(t, e, ui)

	assert.Equal(t, []FailureKind{FailurePanic}, kinds(inTest))
	assert.Contains(t, inTest.Failures[0].Message, "kaboom")
	assert.Equal(t, []FailureKind{FailurePanic}, kinds(inGui))
	assert.Contains(t, inGui.Failures[0].Message, "gui kaboom")
	assert.Equal(t, StatusSuccess, after.Status)
}

func TestEngine_AbortAndSuspend(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	steps := 0
	test := e.RegisterTest("suite", "forever")
	test.TestFunc = func(ctx *Context) {
		for {
			steps++
			ctx.Yield()
		}
	}
	queueAll(t, e, RunFlagNone)

	for i := 0; i < 3; i++ {
		step(e, ui)
	}
	assert.Equal(t, 3, steps)

	require.True(t, e.Suspend())
	assert.Equal(t, StatusSuspended, test.Status)
	for i := 0; i < 3; i++ {
		step(e, ui)
	}
	assert.Equal(t, 3, steps)

	require.True(t, e.Resume())
	step(e, ui)
	assert.Equal(t, 4, steps)

	assert.False(t, e.TryAbortEngine())
	runQueue(t, e, ui)
	assert.Equal(t, StatusError, test.Status)
	assert.Equal(t, []FailureKind{FailureAborted}, kinds(test))
	assert.True(t, e.TryAbortEngine())
}

func TestEngine_SuspendedGuiOnlyTestWaitsForResume(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	calls := 0
	test := e.RegisterTest("suite", "gui_only_suspended")
	test.GuiFunc = func(ctx *Context) { calls++ }
	queueAll(t, e, RunFlagNone)

	e.PreNewFrame()
	require.True(t, e.Suspend())
	ui.NewFrame()
	e.PostNewFrame()
	ui.EndFrame()
	e.PostRender()
	for i := 0; i < 5; i++ {
		step(e, ui)
	}

	assert.Equal(t, StatusSuspended, test.Status)
	assert.True(t, e.IsRunningTests())
	assert.Equal(t, 6, calls, "the GUI is still drawn while suspended")

	require.True(t, e.Resume())
	runQueue(t, e, ui)
	assert.Equal(t, StatusSuccess, test.Status)
	assert.Empty(t, test.Failures)

	e.QueueTest(test, RunFlagNone)
	assert.Equal(t, StatusQueued, test.Status)
	runQueue(t, e, ui)
	assert.Equal(t, StatusSuccess, test.Status)
}

func TestEngine_AbortWhileSuspended(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	steps := 0
	test := e.RegisterTest("suite", "suspended_forever")
	test.TestFunc = func(ctx *Context) {
		for {
			steps++
			ctx.Yield()
		}
	}
	queueAll(t, e, RunFlagNone)
	for i := 0; i < 3; i++ {
		step(e, ui)
	}
	require.True(t, e.Suspend())

	e.AbortCurrentTest()
	step(e, ui)

	assert.False(t, e.IsRunningTests())
	assert.Equal(t, StatusError, test.Status)
	assert.Equal(t, []FailureKind{FailureAborted}, kinds(test))
	assert.Equal(t, 3, steps)
}

func TestEngine_BreakOnError(t *testing.T) {
	var broke []Failure
	e, ui := newTestEngine(t,
		func(cfg *config.EngineConfig) { cfg.BreakOnError = true },
		WithDebugBreak(func(t *Test, f Failure) { broke = append(broke, f) }),
	)
	test := e.RegisterTest("suite", "break")
	test.TestFunc = func(ctx *Context) { ctx.Errorf("first"); ctx.Errorf("second") }
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)
	require.Len(t, broke, 2)

	broke = nil
	e.QueueTest(test, RunFlagNoBreakOnError)
	runQueue(t, e, ui)
	assert.Empty(t, broke)
	assert.Len(t, test.Failures, 2)
}

func TestEngine_InputsOnlyWhileRunning(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	assert.False(t, e.UseSimulatedInputs())

	var during []host.Event
	test := e.RegisterTest("suite", "raw_inputs")
	test.TestFunc = func(ctx *Context) {
		ctx.MouseMoveToPos(host.Vec2{X: 10, Y: 10})
		during = append(during, e.DrainInputs()...)
	}
	queueAll(t, e, RunFlagEnableRawInputs)
	runQueue(t, e, ui)

	assert.Empty(t, during)
	assert.NotEqual(t, host.Vec2{X: 10, Y: 10}, ui.MousePos())
}

func TestEngine_HostLogsGoToTheRunningTest(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("suite", "host_log")
	test.GuiFunc = func(ctx *Context) {
		ui := gui(ctx)
		ui.Begin("Window")
		ui.PushID("unbalanced")
		ui.End()
	}
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)

	assert.Equal(t, StatusSuccess, test.Status)
	assert.Positive(t, test.Log.Count(testlog.LevelWarning))
	assert.Contains(t, test.Log.String(testlog.LevelTrace), "[host]")
}

func TestEngine_KeepGuiFunc(t *testing.T) {
	e, ui := newTestEngine(t, func(cfg *config.EngineConfig) { cfg.KeepGuiFunc = true })
	calls := 0
	test := e.RegisterTest("suite", "kept")
	test.GuiFunc = func(ctx *Context) { calls++ }
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)
	finished := calls

	step(e, ui)
	step(e, ui)
	assert.Equal(t, finished+2, calls)
	assert.Equal(t, StatusSuccess, test.Status)
}

func TestEngine_StopAbortsRunningTest(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("suite", "stopped")
	test.TestFunc = func(ctx *Context) {
		for {
			ctx.Yield()
		}
	}
	queueAll(t, e, RunFlagNone)
	step(e, ui)

	e.Stop()
	assert.False(t, e.IsStarted())
	assert.Equal(t, StatusError, test.Status)
	assert.Nil(t, e.UI())
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.RunSpeed = "ludicrous"
	_, err := New(cfg)
	assert.Error(t, err)
}

type recordingObserver struct {
	events []string
}

func (o *recordingObserver) TestStarted(res TestResult) {
	o.events = append(o.events, "start "+res.Name+" "+res.Status.String())
}

func (o *recordingObserver) TestFinished(res TestResult) {
	o.events = append(o.events, "end "+res.Name+" "+res.Status.String())
}

func TestEngine_Observer(t *testing.T) {
	obs := &recordingObserver{}
	e, ui := newTestEngine(t, func(cfg *config.EngineConfig) { cfg.StopOnError = false }, WithObserver(obs))
	registerClickTest(e)
	failing := e.RegisterTest("widgets", "failing")
	failing.TestFunc = func(ctx *Context) { ctx.Check(false) }
	queueAll(t, e, RunFlagNone)

	runQueue(t, e, ui)

	assert.Equal(t, []string{
		"start button_click Running",
		"end button_click Success",
		"start failing Running",
		"end failing Error",
	}, obs.events)
}

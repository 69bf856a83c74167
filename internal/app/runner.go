package app

import (
	"context"
	"errors"
	"time"

	"imtest/internal/clock"
	"imtest/internal/config"
	"imtest/internal/engine"
	"imtest/internal/headless"
	"imtest/pkg/logging"
)

// ErrMaxFrames is returned when the frame loop reaches host.max_frames with
// tests still running.
var ErrMaxFrames = errors.New("frame limit reached")

// idleFrameInterval paces the frame loop while nothing is queued.
const idleFrameInterval = 16 * time.Millisecond

// Runner is the host application's frame loop. It owns the call order the
// engine relies on:
//
//	PreNewFrame -> NewFrame -> PostNewFrame (GUI functions) -> EndFrame -> PostRender
type Runner struct {
	engine *engine.Engine
	ui     *headless.Context
	cfg    config.HostConfig
	clock  clock.Clock
	frames int
}

// NewRunner creates a frame loop for e hosted by ui.
func NewRunner(e *engine.Engine, ui *headless.Context, cfg config.HostConfig, c clock.Clock) *Runner {
	return &Runner{engine: e, ui: ui, cfg: cfg, clock: c}
}

// Frames is the number of frames run so far.
func (r *Runner) Frames() int { return r.frames }

// Step runs one host frame.
func (r *Runner) Step() {
	r.engine.PreNewFrame()
	r.ui.NewFrame()
	r.engine.PostNewFrame()
	r.ui.EndFrame()
	r.engine.PostRender()
	r.frames++
}

// Run starts the engine on the calling goroutine, runs fn and stops the
// engine. Every other Runner method must be called from within fn.
func (r *Runner) Run(fn func() error) error {
	r.engine.Start(r.ui)
	defer r.engine.Stop()
	return fn()
}

// RunUntilIdle steps frames until no test is running or queued. When ctx is
// cancelled the engine is aborted and the loop keeps stepping until the
// running test has unwound.
func (r *Runner) RunUntilIdle(ctx context.Context) error {
	aborted := false
	for r.engine.IsRunningTests() {
		if r.cfg.MaxFrames > 0 && r.frames >= r.cfg.MaxFrames {
			logging.Warn("Runner", "Stopping after %d frames with tests still running", r.frames)
			return ErrMaxFrames
		}
		if !aborted && ctx.Err() != nil {
			logging.Info("Runner", "Aborting test run: %v", ctx.Err())
			r.engine.TryAbortEngine()
			aborted = true
		}
		r.Step()
		if r.cfg.RealTime && !aborted {
			r.wait(ctx, r.frameInterval())
		}
	}
	if aborted {
		return ctx.Err()
	}
	return nil
}

// Loop steps frames until ctx is cancelled, for modes where tests are
// queued from other goroutines. Frames are paced when idle or in real time
// mode.
func (r *Runner) Loop(ctx context.Context) error {
	for ctx.Err() == nil {
		r.Step()
		switch {
		case !r.engine.IsRunningTests():
			r.wait(ctx, idleFrameInterval)
		case r.cfg.RealTime:
			r.wait(ctx, r.frameInterval())
		}
	}
	// Let an aborted test unwind before the engine is stopped.
	if !r.engine.TryAbortEngine() {
		for i := 0; i < 8 && r.engine.IsRunningTests(); i++ {
			r.Step()
		}
	}
	return nil
}

func (r *Runner) frameInterval() time.Duration {
	if r.cfg.FixedDeltaTime > 0 {
		return r.cfg.FixedDeltaTime
	}
	return idleFrameInterval
}

func (r *Runner) wait(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-r.clock.After(d):
	}
}

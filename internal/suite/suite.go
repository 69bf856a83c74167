package suite

import (
	"imtest/internal/engine"
	"imtest/internal/headless"
	"imtest/internal/host"
)

// windowPos is where every demo window is placed. Only the running test's
// window is submitted, so they never overlap on screen.
var windowPos = host.Vec2{X: 40, Y: 40}

// Register adds every demo test to e.
func Register(e *engine.Engine) {
	registerWidgetTests(e)
	registerTreeTests(e)
	registerPerfTests(e)
}

// ui returns the headless host driving ctx. Demo tests only run against it.
func ui(ctx *engine.Context) *headless.Context {
	c, ok := ctx.UI().(*headless.Context)
	if !ok {
		ctx.Fatalf("demo tests need the headless host, got %T", ctx.UI())
	}
	return c
}

// beginWindow opens a demo window at the shared position.
func beginWindow(ctx *engine.Context, name string) *headless.Context {
	c := ui(ctx)
	c.SetNextWindowPos(windowPos)
	c.Begin(name)
	return c
}

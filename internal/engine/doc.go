// Package engine schedules UI tests against an immediate-mode host.
//
// Tests are registered with RegisterTest and queued with QueueTests. Once
// started, the engine is driven by the host's frame loop: PreNewFrame starts
// queued tests and resumes the running test function for exactly one step,
// PostNewFrame calls the test's GUI function inside the frame, PostRender
// evicts stale items from the registry.
//
// Test functions run on their own goroutine in lockstep with the frame loop,
// so they can be written as straight-line code:
//
//	t := e.RegisterTest("widgets", "button")
//	t.GuiFunc = func(ctx *engine.Context) { ... }
//	t.TestFunc = func(ctx *engine.Context) {
//		ctx.SetRef("Window")
//		ctx.ItemClick("OK")
//		ctx.Check(engine.Vars[state](ctx).clicked == 1)
//	}
//
// Every input verb, Yield and sleep is a suspension point: the routine hands
// control back and continues in the next frame.
package engine

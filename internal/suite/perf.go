package suite

import (
	"fmt"

	"imtest/internal/engine"
)

const (
	perfButtons = 200
	perfFrames  = 60
)

type perfVars struct {
	Frames int
	Items  int
}

func registerPerfTests(e *engine.Engine) {
	// "perf" tests join the Perfs group.
	t := e.RegisterTest("perf", "many_buttons")
	engine.DeclareVars[perfVars](t, nil)
	t.GuiFunc = func(ctx *engine.Context) {
		v := engine.Vars[perfVars](ctx)
		c := beginWindow(ctx, "Perf")
		for i := 0; i < perfButtons; i++ {
			c.Button(fmt.Sprintf("Button %03d", i))
			v.Items++
		}
		c.End()
		v.Frames++
	}
	t.TestFunc = func(ctx *engine.Context) {
		v := engine.Vars[perfVars](ctx)
		start := v.Frames
		ctx.YieldFrames(perfFrames)
		frames := v.Frames - start
		ctx.CheckEqual(perfFrames, frames)
		ctx.Check(ctx.ItemExists("/Perf/Button 199"), "last button registered")
		ctx.LogInfo("%d frames, %d items per frame", frames, v.Items/v.Frames)
	}
}

// Package suite registers the demo tests run by the imtest binary.
//
// The tests drive the widgets of the headless host: buttons, checkboxes, text
// fields, drag fields and tree nodes. They double as executable examples of
// the test context API:
//
//	t := e.RegisterTest("widgets", "button_click")
//	engine.DeclareVars[clickVars](t, nil)
//	t.GuiFunc = func(ctx *engine.Context) { ... }
//	t.TestFunc = func(ctx *engine.Context) {
//		ctx.SetRef("Demo")
//		ctx.ItemClick("Click Me")
//	}
package suite

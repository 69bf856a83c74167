package suite

import (
	"imtest/internal/engine"
	"imtest/internal/headless"
	"imtest/internal/host"
)

type widgetVars struct {
	Clicks  int
	Repeats int
	Doubles int
	Enabled bool
	Name    string
	Value   int
	Edited  int
}

func widgetsGui(ctx *engine.Context) {
	v := engine.Vars[widgetVars](ctx)
	c := beginWindow(ctx, "Widgets")
	if c.Button("Click Me") {
		v.Clicks++
	}
	if c.ButtonEx("Repeat", headless.ButtonRepeat) {
		v.Repeats++
	}
	c.Button("Double")
	if c.IsItemDoubleClicked() {
		v.Doubles++
	}
	c.Checkbox("Enabled", &v.Enabled)
	if c.InputText("Name", &v.Name) {
		v.Edited++
	}
	c.DragInt("Value", &v.Value, 1)
	c.Text("Clicks: %d", v.Clicks)
	c.End()
}

func registerWidgetTests(e *engine.Engine) {
	t := e.RegisterTest("widgets", "button_click")
	engine.DeclareVars[widgetVars](t, nil)
	t.GuiFunc = widgetsGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Widgets")
		ctx.ItemClick("Click Me")
		ctx.CheckEqual(1, engine.Vars[widgetVars](ctx).Clicks)
		ctx.ItemClick("Click Me")
		ctx.CheckEqual(2, engine.Vars[widgetVars](ctx).Clicks)
		ctx.Check(contains(ui(ctx).FrameTexts(), "Clicks: 2"), "label shows the click count")
	}

	t = e.RegisterTest("widgets", "button_repeat")
	engine.DeclareVars[widgetVars](t, nil)
	t.GuiFunc = widgetsGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Widgets")
		ctx.ItemHoldForRepeats("Repeat", 3)
		ctx.Check(engine.Vars[widgetVars](ctx).Repeats >= 3, "held button repeated %d times", engine.Vars[widgetVars](ctx).Repeats)
	}

	t = e.RegisterTest("widgets", "button_double_click")
	engine.DeclareVars[widgetVars](t, nil)
	t.GuiFunc = widgetsGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Widgets")
		ctx.ItemDoubleClick("Double")
		ctx.CheckEqual(1, engine.Vars[widgetVars](ctx).Doubles)
	}

	t = e.RegisterTest("widgets", "checkbox_toggle")
	engine.DeclareVars[widgetVars](t, nil)
	t.GuiFunc = widgetsGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Widgets")
		v := engine.Vars[widgetVars](ctx)
		ctx.ItemCheck("Enabled")
		ctx.Check(v.Enabled)
		ctx.ItemUncheck("Enabled")
		ctx.Check(!v.Enabled)

		info, ok := ctx.ItemInfo("Enabled")
		ctx.Require(ok)
		ctx.Check(info.StatusFlags.Has(host.StatusCheckable))
		ctx.Check(!info.StatusFlags.Has(host.StatusChecked))
	}

	t = e.RegisterTest("widgets", "input_text")
	engine.DeclareVars(t, func(v *widgetVars) { v.Name = "World" })
	t.GuiFunc = widgetsGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Widgets")
		v := engine.Vars[widgetVars](ctx)
		ctx.ItemInputValue("Name", "Hello")
		ctx.CheckEqual("Hello", v.Name)

		ctx.ItemInput("Name")
		ctx.KeyCharsAppendEnter(", World")
		ctx.CheckEqual("Hello, World", v.Name)
		ctx.Check(v.Edited > 0)
	}

	t = e.RegisterTest("widgets", "drag_int")
	engine.DeclareVars[widgetVars](t, nil)
	t.GuiFunc = widgetsGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Widgets")
		ctx.ItemDragWithDelta("Value", host.Vec2{X: 30})
		ctx.CheckEqual(30, engine.Vars[widgetVars](ctx).Value)
		ctx.ItemDragWithDelta("Value", host.Vec2{X: -10})
		ctx.CheckEqual(20, engine.Vars[widgetVars](ctx).Value)
	}

	t = e.RegisterTest("widgets", "missing_item_tolerated")
	t.GuiFunc = widgetsGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Widgets")
		ctx.Check(!ctx.ItemClick("Not There", engine.OpNoError))
		ctx.Check(ctx.ItemExists("Click Me"))
	}
}

func contains(lines []string, s string) bool {
	for _, l := range lines {
		if l == s {
			return true
		}
	}
	return false
}

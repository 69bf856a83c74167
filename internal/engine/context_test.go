package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imtest/internal/headless"
	"imtest/internal/host"
	"imtest/pkg/pathhash"
)

type widgetVars struct {
	Enabled bool
	Count   int
	Name    string
	Value   int
	Double  int
}

func widgetWindow(ctx *Context) {
	ui := gui(ctx)
	v := Vars[widgetVars](ctx)
	ui.SetNextWindowPos(host.Vec2{X: 100, Y: 100})
	ui.Begin("Widgets")
	ui.Checkbox("Enabled", &v.Enabled)
	if ui.ButtonEx("Increment", headless.ButtonRepeat) {
		v.Count++
	}
	ui.InputText("Name", &v.Name)
	ui.DragInt("Value", &v.Value, 1)
	ui.Button("Twice")
	if ui.IsItemDoubleClicked() {
		v.Double++
	}
	ui.End()
}

func runWidgetTest(t *testing.T, body func(ctx *Context)) *Test {
	t.Helper()
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("context", t.Name())
	DeclareVars(test, func(v *widgetVars) { v.Name = "initial" })
	test.GuiFunc = widgetWindow
	test.TestFunc = func(ctx *Context) {
		ctx.SetRef("Widgets")
		body(ctx)
	}
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)
	return test
}

func TestContext_RefAndIDs(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		ctx.CheckEqual(pathhash.Hash("/Widgets", 0), ctx.GetRef())
		ctx.CheckEqual(pathhash.Hash("/Widgets/Enabled", 0), ctx.GetID("Enabled"))
		ctx.CheckEqual(pathhash.Hash("/Other", 0), ctx.GetID("/Other"))

		info, ok := ctx.ItemInfo("Enabled")
		ctx.Require(ok)
		ctx.CheckEqual(ctx.GetRef(), info.Parent)
		ctx.CheckEqual("Enabled", info.Label)

		ctx.SetRefID(info.ID)
		ctx.CheckEqual(info.ID, ctx.GetRef())
		ctx.CheckEqual(pathhash.HashString("x", info.ID), ctx.GetIDFrom("x", info.ID))
	})
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func TestContext_ItemCheck(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		ctx.ItemCheck("Enabled")
		ctx.Check(Vars[widgetVars](ctx).Enabled)
		ctx.ItemCheck("Enabled")
		ctx.Check(Vars[widgetVars](ctx).Enabled, "checking twice keeps it checked")
		ctx.ItemUncheck("Enabled")
		ctx.Check(!Vars[widgetVars](ctx).Enabled)
		ctx.Check(!ctx.ItemCheck("Increment", OpNoError), "a button is not checkable")
	})
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func TestContext_ItemHoldForRepeats(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		ctx.ItemHoldForRepeats("Increment", 3)
		ctx.CheckEqual(1+3, Vars[widgetVars](ctx).Count)
	})
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func TestContext_ItemInputValue(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		ctx.ItemInputValue("Name", "hello")
		ctx.CheckEqual("hello", Vars[widgetVars](ctx).Name)

		ctx.ItemInput("Name")
		ctx.KeyCharsAppendEnter(" world")
		ctx.CheckEqual("hello world", Vars[widgetVars](ctx).Name)

		ctx.ItemInput("Name")
		ctx.KeyCharsReplace("")
		ctx.KeyPress(host.KeyEscape, host.ModNone, 1)
		ctx.CheckEqual("hello world", Vars[widgetVars](ctx).Name, "escape reverts")
	})
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func TestContext_ItemDragWithDelta(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		ctx.ItemDragWithDelta("Value", host.Vec2{X: 40})
		ctx.CheckEqual(40, Vars[widgetVars](ctx).Value)
	})
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func TestContext_MouseDragWithDelta(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		ctx.MouseMove("Value")
		ctx.MouseDragWithDelta(host.Vec2{X: 25})
		ctx.Yield()
		ctx.CheckEqual(25, Vars[widgetVars](ctx).Value)
		ctx.Check(!ctx.engine.inputs.AnyButtonDown())
	})
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func treeWindow(ctx *Context) {
	ui := gui(ctx)
	ui.SetNextWindowPos(host.Vec2{X: 100, Y: 100})
	ui.Begin("Tree")
	if ui.TreeNode("Root") {
		ui.Button("Leaf")
		if ui.TreeNode("Inner") {
			ui.Button("Deep")
			ui.TreePop()
		}
		ui.TreePop()
	}
	ui.End()
}

func TestContext_ItemOpenAndClose(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("context", "open_close")
	test.GuiFunc = treeWindow
	test.TestFunc = func(ctx *Context) {
		ctx.SetRef("Tree")
		ctx.Check(ctx.ItemOpen("Root"))
		ctx.Check(ctx.ItemOpen("Root"), "opening an open node keeps it open")
		ctx.Check(ctx.ItemExists("Root/Leaf"))

		ctx.Check(ctx.ItemOpen("Root/Inner"))
		ctx.Check(ctx.ItemExists("Root/Inner/Deep"))

		ctx.Check(ctx.ItemCloseAll(""))
		ctx.Check(!ctx.ItemExists("Root/Leaf"))
		ctx.Check(ctx.ItemOpen("Root"))
		ctx.Check(!ctx.ItemExists("Root/Inner/Deep"), "nested nodes are closed too")

		ctx.Check(ctx.ItemClose("Root"))
		ctx.Check(ctx.ItemClose("Root"), "closing a closed node keeps it closed")
		ctx.Check(!ctx.ItemExists("Root/Leaf"))
	}
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func TestContext_ItemOpenRejectsPlainItems(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	var opened bool
	test := e.RegisterTest("context", "open_button")
	test.GuiFunc = widgetWindow
	DeclareVars[widgetVars](test, nil)
	test.TestFunc = func(ctx *Context) {
		ctx.SetRef("Widgets")
		opened = ctx.ItemOpen("Twice", OpNoError)
		ctx.ItemOpen("Twice")
	}
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)

	assert.False(t, opened)
	assert.Equal(t, StatusError, test.Status)
	require.Len(t, test.Failures, 1)
	assert.Contains(t, test.Failures[0].Message, "not openable")
}

func TestContext_ItemPinOutlivesEviction(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	window := e.Registry().EvictionWindow()
	show := true
	var pinnedKept, releasedKept bool
	test := e.RegisterTest("context", "pin")
	test.GuiFunc = func(ctx *Context) {
		ui := gui(ctx)
		ui.Begin("Pins")
		if show {
			ui.Button("Transient")
		}
		ui.End()
	}
	test.TestFunc = func(ctx *Context) {
		ctx.SetRef("Pins")
		id := ctx.GetID("Transient")
		ctx.Check(ctx.ItemPin("Transient"))
		show = false
		ctx.YieldFrames(window + 2)
		_, pinnedKept = e.Registry().Query(id)

		ctx.ItemRelease("Transient")
		ctx.YieldFrames(window + 2)
		_, releasedKept = e.Registry().Query(id)

		show = true
		ctx.Check(ctx.ItemPin("Transient"))
	}
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)

	require.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
	assert.True(t, pinnedKept, "pinned item survives the eviction window")
	assert.False(t, releasedKept, "released item is evicted")

	info, ok := e.Registry().QueryByPath("/Pins/Transient")
	require.True(t, ok)
	assert.Zero(t, info.RefCount, "pins are released when the test ends")
}

func TestContext_ItemDoubleClick(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		ctx.ItemDoubleClick("Twice")
		ctx.CheckEqual(1, Vars[widgetVars](ctx).Double)
	})
	assert.Equal(t, StatusSuccess, test.Status, test.Log.String(4))
}

func TestContext_WaitUntil(t *testing.T) {
	test := runWidgetTest(t, func(ctx *Context) {
		start := ctx.FrameCount()
		ctx.Check(ctx.WaitUntil(func() bool { return ctx.FrameCount() >= start+3 }, 10))
		ctx.WaitUntil(func() bool { return false }, 2)
	})
	assert.Equal(t, StatusError, test.Status)
	require.Equal(t, []FailureKind{FailureTimeout}, kinds(test))
	assert.Contains(t, test.Failures[0].Message, "within 2 frames")
}

func TestContext_VarsAreFreshPerRun(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("context", "vars")
	DeclareVars(test, func(v *widgetVars) { v.Count = 7 })
	var seen []int
	test.TestFunc = func(ctx *Context) {
		v := Vars[widgetVars](ctx)
		seen = append(seen, v.Count)
		v.Count++
		ctx.GenericVars().Int1++
		ctx.CheckEqual(1, ctx.GenericVars().Int1)
	}
	for i := 0; i < 2; i++ {
		e.QueueTest(test, RunFlagNone)
		runQueue(t, e, ui)
		require.Equal(t, StatusSuccess, test.Status)
	}
	assert.Equal(t, []int{7, 7}, seen)
}

func TestContext_VarsWithoutDeclaration(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("context", "lazy_vars")
	test.GuiFunc = func(ctx *Context) { Vars[widgetVars](ctx).Count++ }
	test.TestFunc = func(ctx *Context) {
		ctx.CheckEqual(e.Config().WarmupFrames, Vars[widgetVars](ctx).Count)
	}
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)
	assert.Equal(t, StatusSuccess, test.Status)
}

func TestContext_YieldFromGuiIsIgnored(t *testing.T) {
	e, ui := newTestEngine(t, nil)
	test := e.RegisterTest("context", "gui_yield")
	test.GuiFunc = func(ctx *Context) { ctx.Yield() }
	queueAll(t, e, RunFlagNone)
	runQueue(t, e, ui)

	assert.Equal(t, StatusSuccess, test.Status)
	assert.Positive(t, test.Log.Count(1))
}

func TestMessageOr(t *testing.T) {
	assert.Equal(t, "fallback", messageOr("fallback", nil))
	assert.Equal(t, "plain", messageOr("", []any{"plain"}))
	assert.Equal(t, "42", messageOr("", []any{42}))
	assert.Equal(t, "a=1", messageOr("", []any{"a=%d", 1}))
}

package suite

import (
	"imtest/internal/engine"
	"imtest/internal/host"
)

type treeVars struct {
	Applied int
	Reset   int
}

func treeGui(ctx *engine.Context) {
	v := engine.Vars[treeVars](ctx)
	c := beginWindow(ctx, "Tree")
	if c.TreeNode("Settings") {
		if c.Button("Apply") {
			v.Applied++
		}
		if c.TreeNode("Advanced") {
			if c.Button("Reset") {
				v.Reset++
			}
			c.TreePop()
		}
		c.TreePop()
	}
	c.End()
}

func registerTreeTests(e *engine.Engine) {
	t := e.RegisterTest("tree", "open_and_click")
	engine.DeclareVars[treeVars](t, nil)
	t.GuiFunc = treeGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Tree")
		ctx.Check(!ctx.ItemExists("Settings/Apply"), "closed node hides its children")

		ctx.ItemOpen("Settings")
		ctx.ItemClick("Settings/Apply")
		ctx.CheckEqual(1, engine.Vars[treeVars](ctx).Applied)

		ctx.ItemOpen("Settings/Advanced")
		ctx.ItemClick("Settings/Advanced/Reset")
		ctx.CheckEqual(1, engine.Vars[treeVars](ctx).Reset)
		ctx.ItemCloseAll("")
	}

	t = e.RegisterTest("tree", "ref_relative_paths")
	engine.DeclareVars[treeVars](t, nil)
	t.GuiFunc = treeGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Tree")
		ctx.ItemOpen("Settings")
		ctx.SetRef("/Tree/Settings")
		ctx.ItemClick("Apply")
		ctx.CheckEqual(1, engine.Vars[treeVars](ctx).Applied)
		ctx.CheckEqual(ctx.GetID("/Tree/Settings/Apply"), ctx.GetID("Apply"))
		ctx.SetRef("Tree")
		ctx.ItemClose("Settings")
	}

	t = e.RegisterTest("tree", "close_all")
	engine.DeclareVars[treeVars](t, nil)
	t.GuiFunc = treeGui
	t.TestFunc = func(ctx *engine.Context) {
		ctx.SetRef("Tree")
		ctx.ItemOpen("Settings")
		ctx.ItemOpen("Settings/Advanced")
		ctx.Check(ctx.ItemExists("Settings/Advanced/Reset"))

		ctx.ItemCloseAll("")
		ctx.Check(!ctx.ItemExists("Settings/Apply"), "closing the root hides its children")
		info, _ := ctx.ItemInfo("Settings")
		ctx.Check(!info.StatusFlags.Has(host.StatusOpened))

		ctx.ItemOpen("Settings")
		ctx.Check(!ctx.ItemExists("Settings/Advanced/Reset"), "nested node was closed too")
		ctx.ItemClose("Settings")
	}
}

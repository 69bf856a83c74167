package engine

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"imtest/internal/host"
	"imtest/internal/input"
	"imtest/internal/registry"
)

// OpFlags tune how an item verb reports problems.
type OpFlags int

const (
	OpNone OpFlags = 0
	// OpNoError makes a verb return false instead of failing the test when
	// its target cannot be resolved.
	OpNoError OpFlags = 1 << iota
)

func (f OpFlags) Has(flag OpFlags) bool { return f&flag != 0 }

func mergeOps(opts []OpFlags) OpFlags {
	var f OpFlags
	for _, o := range opts {
		f |= o
	}
	return f
}

// itemFailed reports err unless OpNoError is set. It stops the test for a
// missing target.
func (ctx *Context) itemFailed(err error, flags OpFlags) bool {
	if flags.Has(OpNoError) {
		ctx.LogDebug("%v", err)
		return false
	}
	kind := FailureTimeout
	var target *input.TargetError
	if errors.As(err, &target) {
		kind = FailureTargetNotFound
	}
	ctx.recordFailure(kind, err.Error(), callerLocation(2))
	ctx.stop()
	return false
}

// WaitForItem yields until path is reported by the host, for at most frames
// frames (target_resolve_frames when frames <= 0).
func (ctx *Context) WaitForItem(path string, frames int, opts ...OpFlags) bool {
	if _, err := ctx.sim.WaitForItem(ctx.GetID(path), path, frames); err != nil {
		return ctx.itemFailed(err, mergeOps(opts))
	}
	return true
}

// ItemInfo resolves path and returns what the host last reported for it.
func (ctx *Context) ItemInfo(path string, opts ...OpFlags) (registry.ItemInfo, bool) {
	info, err := ctx.sim.WaitForItem(ctx.GetID(path), path, 0)
	if err != nil {
		return info, ctx.itemFailed(err, mergeOps(opts))
	}
	return info, true
}

// ItemExists reports whether path resolves. It never fails the test.
func (ctx *Context) ItemExists(path string) bool {
	_, ok := ctx.ItemInfo(path, OpNoError)
	return ok
}

func (ctx *Context) moveToItem(path string) (registry.ItemInfo, error) {
	ctx.LogDebug("MouseMove '%s'", path)
	return ctx.sim.MoveToItem(ctx.GetID(path), path)
}

// MouseMove moves the pointer over path.
func (ctx *Context) MouseMove(path string, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	if _, err := ctx.moveToItem(path); err != nil {
		return ctx.itemFailed(err, flags)
	}
	return true
}

// MouseMoveToPos moves the pointer to pos.
func (ctx *Context) MouseMoveToPos(pos host.Vec2) {
	ctx.LogDebug("MouseMoveToPos %s", pos)
	ctx.sim.MoveTo(pos)
}

// MouseDragWithDelta drags with the left button from the pointer position
// by delta.
func (ctx *Context) MouseDragWithDelta(delta host.Vec2) {
	ctx.LogDebug("MouseDragWithDelta %s", delta)
	from := ctx.sim.State().MousePos
	ctx.sim.Drag(from, from.Add(delta), host.MouseLeft)
}

func (ctx *Context) MouseDown(b host.MouseButton) { ctx.sim.ButtonDown(b) }
func (ctx *Context) MouseUp(b host.MouseButton)   { ctx.sim.ButtonUp(b) }

// MouseClick clicks b where the pointer is.
func (ctx *Context) MouseClick(b host.MouseButton) {
	ctx.LogDebug("MouseClick %s", b)
	ctx.sim.Click(b)
}

// MouseDoubleClick double-clicks b where the pointer is.
func (ctx *Context) MouseDoubleClick(b host.MouseButton) {
	ctx.LogDebug("MouseDoubleClick %s", b)
	ctx.sim.DoubleClick(b)
}

// MouseWheelY scrolls vertically by dy.
func (ctx *Context) MouseWheelY(dy float64) {
	ctx.LogDebug("MouseWheelY %.1f", dy)
	ctx.sim.ScrollBy(input.AxisY, dy)
}

// ItemClick moves to path and clicks it with the left button.
func (ctx *Context) ItemClick(path string, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	ctx.LogDebug("ItemClick '%s'", path)
	if _, err := ctx.moveToItem(path); err != nil {
		return ctx.itemFailed(err, flags)
	}
	ctx.sim.Click(host.MouseLeft)
	ctx.Yield()
	return true
}

// ItemDoubleClick moves to path and double-clicks it.
func (ctx *Context) ItemDoubleClick(path string, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	ctx.LogDebug("ItemDoubleClick '%s'", path)
	if _, err := ctx.moveToItem(path); err != nil {
		return ctx.itemFailed(err, flags)
	}
	ctx.sim.DoubleClick(host.MouseLeft)
	ctx.Yield()
	return true
}

// ItemHold keeps the left button pressed on path for d.
func (ctx *Context) ItemHold(path string, d time.Duration, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	ctx.LogDebug("ItemHold '%s' %s", path, d)
	if _, err := ctx.moveToItem(path); err != nil {
		return ctx.itemFailed(err, flags)
	}
	ctx.sim.Hold(host.MouseLeft, d)
	ctx.Yield()
	return true
}

// ItemHoldForRepeats holds the left button on path long enough for n repeats.
func (ctx *Context) ItemHoldForRepeats(path string, n int, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	ctx.LogDebug("ItemHoldForRepeats '%s' %d", path, n)
	if _, err := ctx.moveToItem(path); err != nil {
		return ctx.itemFailed(err, flags)
	}
	ctx.sim.HoldForRepeats(host.MouseLeft, n)
	ctx.Yield()
	return true
}

// ItemDragWithDelta drags path by delta.
func (ctx *Context) ItemDragWithDelta(path string, delta host.Vec2, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	ctx.LogDebug("ItemDragWithDelta '%s' %s", path, delta)
	if _, err := ctx.moveToItem(path); err != nil {
		return ctx.itemFailed(err, flags)
	}
	from := ctx.sim.State().MousePos
	ctx.sim.Drag(from, from.Add(delta), host.MouseLeft)
	ctx.Yield()
	return true
}

// ItemDragAndDrop drags src over dst and releases it there.
func (ctx *Context) ItemDragAndDrop(src, dst string, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	ctx.LogDebug("ItemDragAndDrop '%s' -> '%s'", src, dst)
	if _, err := ctx.moveToItem(src); err != nil {
		return ctx.itemFailed(err, flags)
	}
	ctx.sim.ButtonDown(host.MouseLeft)
	ctx.sim.SleepShort()

	// Travel past the drag threshold before heading for the target.
	threshold := ctx.sim.Config().DragThreshold
	start := ctx.sim.State().MousePos
	ctx.sim.MoveTo(start.Add(host.Vec2{X: threshold + 1, Y: threshold + 1}))

	if _, err := ctx.moveToItem(dst); err != nil {
		ctx.sim.ButtonUp(host.MouseLeft)
		return ctx.itemFailed(err, flags)
	}
	ctx.sim.SleepShort()
	ctx.sim.ButtonUp(host.MouseLeft)
	ctx.Yield()
	return true
}

// ItemCheck clicks a checkable item unless it is already checked.
func (ctx *Context) ItemCheck(path string, opts ...OpFlags) bool {
	return ctx.setChecked(path, true, mergeOps(opts))
}

// ItemUncheck clicks a checkable item if it is checked.
func (ctx *Context) ItemUncheck(path string, opts ...OpFlags) bool {
	return ctx.setChecked(path, false, mergeOps(opts))
}

func (ctx *Context) setChecked(path string, checked bool, flags OpFlags) bool {
	info, err := ctx.sim.WaitForItem(ctx.GetID(path), path, 0)
	if err != nil {
		return ctx.itemFailed(err, flags)
	}
	if !info.StatusFlags.Has(host.StatusCheckable) {
		return ctx.itemFailed(fmt.Errorf("item %q is not checkable", path), flags)
	}
	if info.StatusFlags.Has(host.StatusChecked) == checked {
		return true
	}
	if !ctx.ItemClick(path, flags) {
		return false
	}
	info, err = ctx.sim.WaitForItem(ctx.GetID(path), path, 0)
	if err != nil {
		return ctx.itemFailed(err, flags)
	}
	return ctx.Check(info.StatusFlags.Has(host.StatusChecked) == checked, "item %q checked state is %t", path, !checked)
}

// ItemOpen clicks an openable item, such as a tree node, unless it is
// already open.
func (ctx *Context) ItemOpen(path string, opts ...OpFlags) bool {
	ctx.LogDebug("ItemOpen '%s'", path)
	return ctx.setOpen(ctx.GetID(path), path, true, mergeOps(opts))
}

// ItemClose clicks an openable item if it is open.
func (ctx *Context) ItemClose(path string, opts ...OpFlags) bool {
	ctx.LogDebug("ItemClose '%s'", path)
	return ctx.setOpen(ctx.GetID(path), path, false, mergeOps(opts))
}

// ItemCloseAll closes every open item below path, deepest first. An empty
// path closes everything below the reference.
func (ctx *Context) ItemCloseAll(path string, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	ctx.LogDebug("ItemCloseAll '%s'", path)
	for _, info := range ctx.openItemsUnder(ctx.GetID(path)) {
		name := info.Label
		if name == "" {
			name = fmt.Sprintf("0x%08X", info.ID)
		}
		if !ctx.setOpen(info.ID, name, false, flags) {
			return false
		}
	}
	return true
}

// openItemsUnder lists the open items shown last frame below parent, deepest
// first.
func (ctx *Context) openItemsUnder(parent host.ID) []registry.ItemInfo {
	frame := ctx.FrameCount()
	seen := map[host.ID]bool{parent: true}
	var open []registry.ItemInfo
	var walk func(id host.ID)
	walk = func(id host.ID) {
		for _, child := range ctx.engine.registry.Children(id) {
			if seen[child.ID] || child.TimestampMain < frame {
				continue
			}
			seen[child.ID] = true
			if child.StatusFlags.Has(host.StatusOpenable | host.StatusOpened) {
				open = append(open, child)
			}
			walk(child.ID)
		}
	}
	walk(parent)
	slices.SortStableFunc(open, func(a, b registry.ItemInfo) int { return b.Depth - a.Depth })
	return open
}

func (ctx *Context) setOpen(id host.ID, name string, open bool, flags OpFlags) bool {
	info, err := ctx.sim.WaitForItem(id, name, 0)
	if err != nil {
		return ctx.itemFailed(err, flags)
	}
	if !info.StatusFlags.Has(host.StatusOpenable) {
		return ctx.itemFailed(fmt.Errorf("item %q is not openable", name), flags)
	}
	if info.StatusFlags.Has(host.StatusOpened) == open {
		return true
	}
	if _, err := ctx.sim.MoveToItem(id, name); err != nil {
		return ctx.itemFailed(err, flags)
	}
	ctx.sim.Click(host.MouseLeft)
	ctx.Yield()
	info, err = ctx.sim.WaitForItem(id, name, 0)
	if err != nil {
		return ctx.itemFailed(err, flags)
	}
	return ctx.Check(info.StatusFlags.Has(host.StatusOpened) == open, "item %q open state is %t", name, !open)
}

// ItemPin keeps path in the item registry while the test runs, even after
// the host stops submitting it. Pins still held when the test ends are
// released.
func (ctx *Context) ItemPin(path string, opts ...OpFlags) bool {
	ctx.LogDebug("ItemPin '%s'", path)
	id := ctx.GetID(path)
	if _, err := ctx.sim.WaitForItem(id, path, 0); err != nil {
		return ctx.itemFailed(err, mergeOps(opts))
	}
	if !ctx.engine.registry.Pin(id) {
		return ctx.itemFailed(fmt.Errorf("item %q is not in the registry", path), mergeOps(opts))
	}
	ctx.pins = append(ctx.pins, id)
	return true
}

// ItemRelease undoes one ItemPin of path.
func (ctx *Context) ItemRelease(path string) {
	ctx.LogDebug("ItemRelease '%s'", path)
	id := ctx.GetID(path)
	i := slices.Index(ctx.pins, id)
	if i < 0 {
		ctx.LogWarning("ItemRelease '%s': item is not pinned", path)
		return
	}
	ctx.pins = slices.Delete(ctx.pins, i, i+1)
	ctx.engine.registry.Release(id)
}

// ItemInput clicks path to activate text input on it.
func (ctx *Context) ItemInput(path string, opts ...OpFlags) bool {
	flags := mergeOps(opts)
	if !ctx.ItemClick(path, flags) {
		return false
	}
	info, err := ctx.sim.WaitForItem(ctx.GetID(path), path, 0)
	if err != nil {
		return ctx.itemFailed(err, flags)
	}
	if !info.StatusFlags.Has(host.StatusActive) {
		ctx.LogWarning("ItemInput '%s': item did not become active", path)
	}
	return true
}

// ItemInputValue activates path, replaces its text with value and confirms
// with Enter.
func (ctx *Context) ItemInputValue(path, value string, opts ...OpFlags) bool {
	ctx.LogDebug("ItemInputValue '%s' '%s'", path, value)
	if !ctx.ItemInput(path, opts...) {
		return false
	}
	ctx.KeyCharsReplaceEnter(value)
	return true
}

func (ctx *Context) KeyDown(key host.Key, mods host.KeyMods) { ctx.sim.KeyDown(key, mods) }
func (ctx *Context) KeyUp(key host.Key, mods host.KeyMods)   { ctx.sim.KeyUp(key, mods) }

// KeyPress presses and releases key with mods count times.
func (ctx *Context) KeyPress(key host.Key, mods host.KeyMods, count int) {
	ctx.LogDebug("KeyPress %s+%s x%d", mods, key, count)
	ctx.sim.KeyPress(key, mods, count)
}

// KeyHold keeps key pressed for d.
func (ctx *Context) KeyHold(key host.Key, mods host.KeyMods, d time.Duration) {
	ctx.LogDebug("KeyHold %s+%s %s", mods, key, d)
	ctx.sim.KeyHold(key, mods, d)
}

// KeyChars types text into the focused item.
func (ctx *Context) KeyChars(text string) {
	ctx.LogDebug("KeyChars '%s'", text)
	ctx.sim.TypeText(text)
}

// KeyCharsAppend moves to the end of the focused text and types text.
func (ctx *Context) KeyCharsAppend(text string) {
	ctx.KeyPress(host.KeyEnd, host.ModNone, 1)
	ctx.KeyChars(text)
}

func (ctx *Context) KeyCharsAppendEnter(text string) {
	ctx.KeyCharsAppend(text)
	ctx.KeyPress(host.KeyEnter, host.ModNone, 1)
}

// KeyCharsReplace selects all of the focused text, deletes it and types text.
func (ctx *Context) KeyCharsReplace(text string) {
	ctx.KeyPress(host.KeyA, host.ModCtrl, 1)
	ctx.KeyPress(host.KeyDelete, host.ModNone, 1)
	if text != "" {
		ctx.KeyChars(text)
	}
}

func (ctx *Context) KeyCharsReplaceEnter(text string) {
	ctx.KeyCharsReplace(text)
	ctx.KeyPress(host.KeyEnter, host.ModNone, 1)
}

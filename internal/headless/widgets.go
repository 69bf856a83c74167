package headless

import (
	"fmt"
	"unicode/utf8"

	"imtest/internal/host"
	pkgstrings "imtest/pkg/strings"
)

// ButtonFlags change how a button reacts to the pointer.
type ButtonFlags int

const (
	ButtonNone ButtonFlags = 0
	// ButtonRepeat fires on press and then repeatedly while held.
	ButtonRepeat ButtonFlags = 1 << iota
)

const (
	fieldWidth    = 150
	checkboxWidth = itemHeight
)

func labelWidth(label string) float64 {
	return float64(utf8.RuneCountInString(pkgstrings.VisibleLabel(label))) * charWidth
}

// itemAdd lays out an item in the current window and reports it. ok is false
// outside of a window.
func (c *Context) itemAdd(id host.ID, size host.Vec2) (clip host.Rect, ok bool) {
	w := c.current
	if w == nil {
		c.hooks.OnLog("item 0x%08X submitted outside of a window", id)
		return host.Rect{}, false
	}
	r := host.RectFromSize(w.cursor, size)
	w.cursor.Y += size.Y + itemSpacing
	clip = r.Intersect(w.rect)

	c.lastItemID = id
	c.lastItemRect = r
	c.lastItemStatus = 0
	c.hooks.OnItemAdd(host.ItemAdd{
		Surface:  w.id,
		ID:       id,
		Parent:   c.seed(),
		Rect:     r,
		ClipRect: clip,
		Depth:    len(c.stack),
	})
	return clip, true
}

func (c *Context) itemStatus(id host.ID, label string, flags host.ItemStatusFlags) {
	c.lastItemStatus = flags
	c.hooks.OnItemStatus(c.current.id, id, pkgstrings.VisibleLabel(label), flags)
}

func (c *Context) itemHovered(clip host.Rect) bool {
	return c.current != nil && c.hoveredWindow == c.current.id && clip.Contains(c.io.mousePos)
}

// buttonBehavior implements press-on-release buttons. It returns whether the
// item was pressed this frame and the status flags to report.
func (c *Context) buttonBehavior(id host.ID, clip host.Rect, flags ButtonFlags) (bool, host.ItemStatusFlags) {
	var status host.ItemStatusFlags
	left := host.MouseLeft
	hovered := c.itemHovered(clip)
	if hovered {
		c.hoveredID = id
		status |= host.StatusHovered
		if c.io.mouseDoubleClicked[left] {
			status |= host.StatusDoubleClicked
		}
	}
	if hovered && c.io.mouseClicked[left] {
		c.activeID = id
	}

	pressed := false
	if c.activeID == id {
		c.activeWidgetSeen = true
		status |= host.StatusActive
		if flags&ButtonRepeat != 0 && hovered && c.io.mouseRepeated(left, c.opts) {
			pressed = true
		}
		if c.io.mouseReleased[left] || !c.io.mouseDown[left] {
			if hovered && flags&ButtonRepeat == 0 {
				pressed = true
			}
			c.activeID = 0
			status |= host.StatusDeactivated
		}
	}
	if pressed {
		status |= host.StatusClicked
	}
	return pressed, status
}

// Button returns true on the frame it was clicked.
func (c *Context) Button(label string) bool {
	return c.ButtonEx(label, ButtonNone)
}

// ButtonEx is Button with flags.
func (c *Context) ButtonEx(label string, flags ButtonFlags) bool {
	id := c.GetID(label)
	clip, ok := c.itemAdd(id, host.Vec2{X: labelWidth(label) + framePadding*2, Y: itemHeight})
	if !ok {
		return false
	}
	pressed, status := c.buttonBehavior(id, clip, flags)
	c.itemStatus(id, label, status)
	return pressed
}

// IsItemDoubleClicked reports whether the last item was double-clicked this
// frame.
func (c *Context) IsItemDoubleClicked() bool {
	return c.lastItemStatus.Has(host.StatusDoubleClicked)
}

// IsItemHovered reports whether the pointer is over the last item.
func (c *Context) IsItemHovered() bool {
	return c.lastItemStatus.Has(host.StatusHovered)
}

// Checkbox toggles *v when clicked and reports whether it changed.
func (c *Context) Checkbox(label string, v *bool) bool {
	id := c.GetID(label)
	clip, ok := c.itemAdd(id, host.Vec2{X: checkboxWidth + framePadding + labelWidth(label), Y: itemHeight})
	if !ok {
		return false
	}
	pressed, status := c.buttonBehavior(id, clip, ButtonNone)
	if pressed {
		*v = !*v
		status |= host.StatusEdited
	}
	status |= host.StatusCheckable
	if *v {
		status |= host.StatusChecked
	}
	c.itemStatus(id, label, status)
	return pressed
}

// TreeNode is a collapsible header. While it is open, items below it are
// scoped under its label until TreePop.
func (c *Context) TreeNode(label string) bool {
	id := c.GetID(label)
	clip, ok := c.itemAdd(id, host.Vec2{X: labelWidth(label) + itemHeight, Y: itemHeight})
	if !ok {
		return false
	}
	pressed, status := c.buttonBehavior(id, clip, ButtonNone)
	if c.openNodes == nil {
		c.openNodes = make(map[host.ID]bool)
	}
	if pressed {
		c.openNodes[id] = !c.openNodes[id]
	}
	open := c.openNodes[id]
	status |= host.StatusOpenable
	if open {
		status |= host.StatusOpened
	}
	c.itemStatus(id, label, status)
	if open {
		c.stack = append(c.stack, scope{id: id})
		if c.current != nil {
			c.current.cursor.X += itemHeight
		}
	}
	return open
}

// TreePop closes a scope opened by TreeNode.
func (c *Context) TreePop() {
	if c.current != nil {
		c.current.cursor.X -= itemHeight
	}
	c.PopID()
}

// DragInt changes *v by dragging horizontally, speed units per pixel once the
// pointer moved past the drag threshold.
func (c *Context) DragInt(label string, v *int, speed float64) bool {
	id := c.GetID(label)
	clip, ok := c.itemAdd(id, host.Vec2{X: fieldWidth, Y: itemHeight})
	if !ok {
		return false
	}
	left := host.MouseLeft
	var status host.ItemStatusFlags
	hovered := c.itemHovered(clip)
	if hovered {
		c.hoveredID = id
		status |= host.StatusHovered
	}
	if hovered && c.io.mouseClicked[left] {
		c.activeID = id
		c.drag = dragState{id: id, startValue: *v, startX: c.io.mousePos.X}
	}

	changed := false
	if c.activeID == id && c.drag.id == id {
		c.activeWidgetSeen = true
		status |= host.StatusActive
		dx := c.io.mousePos.X - c.drag.startX
		if c.drag.dragging || dx >= c.opts.DragThreshold || -dx >= c.opts.DragThreshold {
			c.drag.dragging = true
			next := c.drag.startValue + int(dx*speed)
			if next != *v {
				*v = next
				changed = true
				status |= host.StatusEdited
			}
		}
		if !c.io.mouseDown[left] {
			c.activeID = 0
			c.drag = dragState{}
			status |= host.StatusDeactivated
		}
	}
	c.itemStatus(id, label, status)
	return changed
}

// Text lays out a line of text. Text has no identifier and is not reported
// to the hooks.
func (c *Context) Text(format string, args ...any) {
	if c.current == nil {
		return
	}
	c.texts = append(c.texts, fmt.Sprintf(format, args...))
	c.current.cursor.Y += itemHeight + itemSpacing
}

// FrameTexts returns the lines laid out with Text in the current frame.
func (c *Context) FrameTexts() []string { return c.texts }

package headless

import (
	"imtest/internal/host"
)

// textEditState is the text field holding keyboard focus.
type textEditState struct {
	id        host.ID
	initial   []rune
	text      []rune
	cursor    int
	selectAll bool
}

func (t *textEditState) deleteSelection() bool {
	if !t.selectAll {
		return false
	}
	t.text = t.text[:0]
	t.cursor = 0
	t.selectAll = false
	return true
}

func (t *textEditState) insert(r rune) {
	t.deleteSelection()
	t.text = append(t.text, 0)
	copy(t.text[t.cursor+1:], t.text[t.cursor:])
	t.text[t.cursor] = r
	t.cursor++
}

// InputText edits *buf. A click gives it keyboard focus, Enter or a click
// elsewhere releases it, Escape reverts. It returns true on frames where the
// text changed.
func (c *Context) InputText(label string, buf *string) bool {
	id := c.GetID(label)
	clip, ok := c.itemAdd(id, host.Vec2{X: fieldWidth, Y: itemHeight})
	if !ok {
		return false
	}
	left := host.MouseLeft
	status := host.StatusInputable
	hovered := c.itemHovered(clip)
	if hovered {
		c.hoveredID = id
		status |= host.StatusHovered
	}

	te := &c.textEdit
	focused := te.id == id
	if c.io.mouseClicked[left] {
		switch {
		case hovered && !focused:
			text := []rune(*buf)
			*te = textEditState{id: id, initial: append([]rune(nil), text...), text: text, cursor: len(text)}
			focused = true
		case !hovered && focused:
			*te = textEditState{}
			focused = false
			status |= host.StatusDeactivated
		}
	}
	if !focused {
		c.itemStatus(id, label, status)
		return false
	}

	c.textEditSeen = true
	status |= host.StatusActive | host.StatusFocused
	changed := false
	ctrl := c.io.mods&host.ModCtrl != 0

	if ctrl && c.io.keyPressed[host.KeyA] {
		te.selectAll = true
		te.cursor = len(te.text)
	}
	if c.io.keyPressed[host.KeyHome] {
		te.cursor, te.selectAll = 0, false
	}
	if c.io.keyPressed[host.KeyEnd] {
		te.cursor, te.selectAll = len(te.text), false
	}
	if c.io.keyPressed[host.KeyLeftArrow] && te.cursor > 0 {
		te.cursor--
		te.selectAll = false
	}
	if c.io.keyPressed[host.KeyRightArrow] && te.cursor < len(te.text) {
		te.cursor++
		te.selectAll = false
	}
	if c.io.keyPressed[host.KeyBackspace] {
		if te.deleteSelection() {
			changed = true
		} else if te.cursor > 0 {
			te.text = append(te.text[:te.cursor-1], te.text[te.cursor:]...)
			te.cursor--
			changed = true
		}
	}
	if c.io.keyPressed[host.KeyDelete] {
		if te.deleteSelection() {
			changed = true
		} else if te.cursor < len(te.text) {
			te.text = append(te.text[:te.cursor], te.text[te.cursor+1:]...)
			changed = true
		}
	}
	for _, r := range c.io.chars {
		if r < 0x20 {
			continue
		}
		te.insert(r)
		changed = true
	}

	done := false
	if c.io.keyPressed[host.KeyEscape] {
		te.text = te.initial
		changed = string(te.text) != *buf
		done = true
	}
	if c.io.keyPressed[host.KeyEnter] {
		done = true
	}

	if changed {
		*buf = string(te.text)
		status |= host.StatusEdited
	}
	if done {
		*te = textEditState{}
		status &^= host.StatusActive | host.StatusFocused
		status |= host.StatusDeactivated
	}
	c.itemStatus(id, label, status)
	return changed
}

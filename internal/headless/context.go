package headless

import (
	"fmt"

	"imtest/internal/host"
	"imtest/pkg/pathhash"
)

var _ host.UI = (*Context)(nil)

const (
	defaultWindowWidth  = 300
	defaultWindowHeight = 360
	windowSpacing       = 20
	titleBarHeight      = 20
	itemHeight          = 20
	itemSpacing         = 4
	framePadding        = 4
	charWidth           = 7
)

type window struct {
	id       host.ID
	name     string
	rect     host.Rect
	cursor   host.Vec2
	lastUsed int
	order    int
}

type dragState struct {
	id         host.ID
	startValue int
	startX     float64
	dragging   bool
}

type scope struct {
	id     host.ID
	window bool
}

// Context is one headless UI instance. It is not safe for concurrent use; the
// engine and the GUI code run on the frame loop goroutine.
type Context struct {
	opts Options

	frame int
	time  float64

	hooks  host.Hooks
	inputs host.InputSource

	io io

	windows       map[host.ID]*window
	windowOrder   int
	hoveredWindow host.ID
	nextWindowPos *host.Vec2
	current       *window
	stack         []scope
	inFrame       bool

	hoveredID host.ID
	activeID  host.ID
	// activeWidgetSeen is set when the active widget was submitted this frame.
	activeWidgetSeen bool

	textEdit     textEditState
	textEditSeen bool
	drag         dragState
	openNodes    map[host.ID]bool
	texts        []string

	lastItemID     host.ID
	lastItemRect   host.Rect
	lastItemStatus host.ItemStatusFlags

	leftOpen int
}

// New returns a context with nothing attached.
func New(opts Options) *Context {
	if opts.DeltaTime <= 0 {
		opts.DeltaTime = DefaultOptions().DeltaTime
	}
	return &Context{
		opts:    opts,
		hooks:   host.NopHooks{},
		io:      newIO(),
		windows: make(map[host.ID]*window),
	}
}

// FrameCount is the number of the frame being built, or of the last frame
// built between frames.
func (c *Context) FrameCount() int        { return c.frame }
func (c *Context) DeltaTime() float64     { return c.opts.DeltaTime.Seconds() }
func (c *Context) DisplaySize() host.Vec2 { return c.opts.DisplaySize }

// Time is the simulated time at the start of the current frame in seconds.
func (c *Context) Time() float64 { return c.time }

// MousePos is where the pointer was at the start of the frame.
func (c *Context) MousePos() host.Vec2 { return c.io.mousePos }

// Attach installs hooks and the source inputs are read from every frame.
func (c *Context) Attach(hooks host.Hooks, inputs host.InputSource) {
	if hooks == nil {
		hooks = host.NopHooks{}
	}
	c.hooks = hooks
	c.inputs = inputs
}

// Detach removes the hooks and the input source.
func (c *Context) Detach() {
	c.hooks = host.NopHooks{}
	c.inputs = nil
}

// NewFrame starts a frame: it advances time and applies pending input.
func (c *Context) NewFrame() {
	if c.inFrame {
		c.hooks.OnLog("NewFrame called twice without EndFrame")
		c.EndFrame()
	}
	c.frame++
	dt := c.DeltaTime()
	if c.frame > 1 {
		c.time += dt
	}
	var events []host.Event
	if c.inputs != nil {
		events = c.inputs.DrainInputs()
	}
	c.io.beginFrame(events, c.time, dt, c.opts)
	c.updateHoveredWindow()

	c.stack = c.stack[:0]
	c.current = nil
	c.texts = c.texts[:0]
	c.activeWidgetSeen = false
	c.textEditSeen = false
	c.hoveredID = 0
	c.inFrame = true
}

// EndFrame finishes the frame. Scopes still open are closed and counted for
// RecoverStack.
func (c *Context) EndFrame() {
	if !c.inFrame {
		return
	}
	for len(c.stack) > 0 {
		c.leftOpen++
		c.stack = c.stack[:len(c.stack)-1]
	}
	c.current = nil
	if c.activeID != 0 && !c.activeWidgetSeen {
		c.activeID = 0
	}
	if c.textEdit.id != 0 && !c.textEditSeen {
		c.textEdit = textEditState{}
	}
	c.inFrame = false
}

// RecoverStack closes scopes left open and returns how many there were,
// including those EndFrame already closed.
func (c *Context) RecoverStack() int {
	n := c.leftOpen
	for len(c.stack) > 0 {
		n++
		c.popScope()
	}
	c.leftOpen = 0
	if n > 0 {
		c.hooks.OnLog("recovered %d unbalanced scope(s)", n)
	}
	return n
}

func (c *Context) updateHoveredWindow() {
	c.hoveredWindow = 0
	best := -1
	for _, w := range c.windows {
		if w.lastUsed < c.frame-1 || !w.rect.Contains(c.io.mousePos) {
			continue
		}
		if w.order > best {
			best = w.order
			c.hoveredWindow = w.id
		}
	}
}

func (c *Context) seed() host.ID {
	if len(c.stack) == 0 {
		return 0
	}
	return c.stack[len(c.stack)-1].id
}

// GetID hashes label on top of the ID stack the way widgets do.
func (c *Context) GetID(label string) host.ID {
	return pathhash.HashString(label, c.seed())
}

// PushID opens a scope so widgets below it get distinct IDs.
func (c *Context) PushID(label string) {
	c.stack = append(c.stack, scope{id: c.GetID(label)})
}

// PopID closes the scope opened by PushID.
func (c *Context) PopID() {
	if len(c.stack) == 0 || c.stack[len(c.stack)-1].window {
		c.hooks.OnLog("PopID without matching PushID")
		return
	}
	c.popScope()
}

func (c *Context) popScope() {
	c.stack = c.stack[:len(c.stack)-1]
}

// SetNextWindowPos places the next window Begin creates or moves.
func (c *Context) SetNextWindowPos(pos host.Vec2) {
	c.nextWindowPos = &pos
}

// Begin opens a window named name at the root of the ID stack. It returns
// false outside of a frame.
func (c *Context) Begin(name string) bool {
	if !c.inFrame {
		return false
	}
	id := pathhash.HashString(name, 0)
	w, ok := c.windows[id]
	if !ok {
		n := len(c.windows)
		pos := host.Vec2{X: windowSpacing + float64(n)*(defaultWindowWidth+windowSpacing), Y: windowSpacing}
		w = &window{id: id, name: name, rect: host.RectFromSize(pos, host.Vec2{X: defaultWindowWidth, Y: defaultWindowHeight})}
		c.windows[id] = w
	}
	if c.nextWindowPos != nil {
		w.rect = host.RectFromSize(*c.nextWindowPos, w.rect.Size())
		c.nextWindowPos = nil
	}
	if w.lastUsed != c.frame {
		c.windowOrder++
		w.order = c.windowOrder
	}
	w.lastUsed = c.frame
	w.cursor = w.rect.Min.Add(host.Vec2{X: framePadding * 2, Y: titleBarHeight + framePadding})

	c.stack = append(c.stack, scope{id: id, window: true})
	c.current = w
	c.hooks.OnItemAdd(host.ItemAdd{Surface: id, ID: id, Rect: w.rect, ClipRect: w.rect, Depth: 0})
	c.hooks.OnItemStatus(id, id, name, 0)
	return true
}

// End closes the window opened by Begin, along with any scope pushed inside
// it.
func (c *Context) End() {
	for len(c.stack) > 0 && !c.stack[len(c.stack)-1].window {
		c.leftOpen++
		c.popScope()
	}
	if len(c.stack) == 0 {
		c.hooks.OnLog("End without matching Begin")
		return
	}
	c.popScope()
	c.current = nil
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].window {
			c.current = c.windows[c.stack[i].id]
			break
		}
	}
}

// LastItemID returns the ID of the last submitted widget.
func (c *Context) LastItemID() host.ID { return c.lastItemID }

// LastItemStatus returns the flags reported for the last submitted widget.
func (c *Context) LastItemStatus() host.ItemStatusFlags { return c.lastItemStatus }

// ActiveID is the widget being interacted with, 0 if none.
func (c *Context) ActiveID() host.ID { return c.activeID }

func (c *Context) String() string {
	return fmt.Sprintf("headless(frame=%d, windows=%d)", c.frame, len(c.windows))
}

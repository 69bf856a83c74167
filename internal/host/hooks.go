package host

// ItemAdd is the presence report for one item. Surface, Rect and ID are
// always set; the rest is filled in by hosts that track it.
type ItemAdd struct {
	Surface  ID
	ID       ID
	Parent   ID
	Rect     Rect
	ClipRect Rect
	NavLayer int
	Depth    int
}

// Hooks receives what the host builds during a frame. The engine implements
// it and the host keeps a reference after Attach.
type Hooks interface {
	// OnItemAdd records an item's presence and geometry.
	OnItemAdd(item ItemAdd)
	// OnItemStatus records interaction flags and a debug label.
	OnItemStatus(surface ID, id ID, label string, flags ItemStatusFlags)
	// OnLog routes host diagnostics into the running test's log.
	OnLog(format string, args ...any)
}

// UI is the engine's view of a host instance.
type UI interface {
	// FrameCount is the number of the frame being built or last built.
	FrameCount() int
	// DeltaTime is the duration of the current frame in seconds.
	DeltaTime() float64
	DisplaySize() Vec2
	// Attach installs the engine's hooks and input source.
	Attach(hooks Hooks, inputs InputSource)
	Detach()
	// RecoverStack closes scopes left open by the last frame and returns how
	// many it had to close.
	RecoverStack() int
}

// NopHooks ignores everything.
type NopHooks struct{}

func (NopHooks) OnItemAdd(ItemAdd)                            {}
func (NopHooks) OnItemStatus(ID, ID, string, ItemStatusFlags) {}
func (NopHooks) OnLog(string, ...any)                         {}

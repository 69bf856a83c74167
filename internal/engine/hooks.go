package engine

import (
	"fmt"

	"imtest/internal/host"
	"imtest/internal/testlog"
	"imtest/pkg/logging"
)

var (
	_ host.Hooks       = (*Engine)(nil)
	_ host.InputSource = (*Engine)(nil)
)

// Hooks returns the observer a host reports items and logs to.
func (e *Engine) Hooks() host.Hooks { return e }

func (e *Engine) frameCount() int {
	if e.ui == nil {
		return 0
	}
	return e.ui.FrameCount()
}

// OnItemAdd records an item's presence for the frame being built.
func (e *Engine) OnItemAdd(item host.ItemAdd) {
	e.registry.RecordPresence(item, e.frameCount())
}

// OnItemStatus records an item's flags and label for the frame being built.
func (e *Engine) OnItemStatus(surface, id host.ID, label string, flags host.ItemStatusFlags) {
	e.registry.RecordStatus(surface, id, label, flags, e.frameCount())
}

// OnLog routes host diagnostics into the running test's log.
func (e *Engine) OnLog(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if run := e.current; run != nil && !run.finished {
		run.ctx.logf(testlog.LevelDebug, "[host] %s", msg)
		return
	}
	logging.Debug("Host", "%s", msg)
}

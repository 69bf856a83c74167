package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"imtest/internal/config"
	"imtest/internal/headless"
)

func newTestEngine(t *testing.T, mutate func(cfg *config.EngineConfig), opts ...Option) (*Engine, *headless.Context) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	e, err := New(cfg, opts...)
	require.NoError(t, err)
	ui := headless.New(headless.OptionsFromConfig(cfg))
	e.Start(ui)
	t.Cleanup(e.Stop)
	return e, ui
}

func step(e *Engine, ui *headless.Context) {
	e.PreNewFrame()
	ui.NewFrame()
	e.PostNewFrame()
	ui.EndFrame()
	e.PostRender()
}

// runQueue steps frames until no test is left and returns the frame count.
func runQueue(t *testing.T, e *Engine, ui *headless.Context) int {
	t.Helper()
	frames := 0
	for e.IsRunningTests() {
		require.Less(t, frames, 2000, "queue did not drain")
		step(e, ui)
		frames++
	}
	return frames
}

func queueAll(t *testing.T, e *Engine, flags RunFlags) {
	t.Helper()
	_, err := e.QueueTests(GroupUnknown, "all", flags)
	require.NoError(t, err)
}

func gui(ctx *Context) *headless.Context {
	return ctx.UI().(*headless.Context)
}

func kinds(t *Test) []FailureKind {
	var out []FailureKind
	for _, f := range t.Failures {
		out = append(out, f.Kind)
	}
	return out
}

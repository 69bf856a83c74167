package app

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"imtest/internal/config"
	"imtest/internal/reporting"
)

// newTestApplication builds an application around mutate(config.Default())
// that writes reports to the returned buffer.
func newTestApplication(t *testing.T, filter string, mutate func(cfg *config.EngineConfig)) (*Application, *bytes.Buffer) {
	t.Helper()
	engineCfg := config.Default()
	if mutate != nil {
		mutate(&engineCfg)
	}
	out := &bytes.Buffer{}
	cfg := NewConfig(false, "", filter)
	cfg.Silent = true
	cfg.Out = out
	cfg.EngineConfig = &engineCfg

	a, err := NewApplication(cfg)
	require.NoError(t, err)
	return a, out
}

// startLoop runs the frame loop on its own goroutine until the test ends.
func startLoop(t *testing.T, services *Services) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- services.Runner.Run(func() error {
			close(started)
			return services.Runner.Loop(ctx)
		})
	}()
	<-started
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})
}

// newTestSession starts a looping engine and returns a session on it.
func newTestSession(t *testing.T) (*Session, *bytes.Buffer) {
	t.Helper()
	a, out := newTestApplication(t, "", nil)
	rep := reporting.NewConsoleReporter(out, reporting.ConsoleOptions{})
	services, err := InitializeServices(a, rep)
	require.NoError(t, err)
	startLoop(t, services)
	return NewSession(services.Engine, rep, out), out
}

package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"imtest/internal/config"
	"imtest/internal/engine"
	"imtest/internal/reporting"
	"imtest/pkg/logging"
)

// runOnce executes the application in batch mode: queue, run to
// completion, report.
func runOnce(ctx context.Context, a *Application) error {
	rep := a.newReporter()
	services, err := InitializeServices(a, rep)
	if err != nil {
		return err
	}
	e := services.Engine

	var suiteErr error
	err = services.Runner.Run(func() error {
		start := time.Now()
		queued, err := e.QueueTests(engine.GroupUnknown, a.config.Filter, engine.RunFlagCommandLine)
		if err != nil {
			return err
		}
		run := reporting.NewRunInfo(a.config.Filter, a.engineCfg.RunSpeed, queued, a.config.ConfigPath, start)
		rep.ReportStart(run)

		loopErr := services.Runner.RunUntilIdle(ctx)
		if loopErr != nil {
			// Finish whatever is still running so it shows up as failed.
			e.Stop()
		}
		rep.ReportSuiteResult(reporting.NewSuiteResult(run, e.Results(), time.Now()))
		if loopErr != nil {
			return loopErr
		}
		suiteErr = e.SuiteError()
		return nil
	})
	if err != nil {
		return err
	}
	return suiteErr
}

// runWatchMode runs the suite and re-runs it whenever the configuration file
// changes. A configuration that fails to load is reported and the previous
// one is kept.
func runWatchMode(ctx context.Context, a *Application) error {
	path := a.config.ConfigPath
	if path == "" {
		path = config.DefaultFileName
	}

	changes := make(chan string, 1)
	watcher := NewConfigWatcher(path, 0)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx, changes)
	})
	g.Go(func() error {
		for {
			err := runOnce(gctx, a)
			var failed *engine.SuiteFailedError
			switch {
			case gctx.Err() != nil:
				return nil
			case err != nil && !errors.As(err, &failed):
				return err
			}

			fmt.Fprintf(a.out, "\n👀 Watching %s for changes (Ctrl+C to stop)\n", path)
			select {
			case <-gctx.Done():
				return nil
			case changed := <-changes:
				logging.Info("Watch", "Configuration changed: %s", changed)
			}
			a.reload(path)
		}
	})
	return g.Wait()
}

// reload replaces the engine configuration with the content of path.
func (a *Application) reload(path string) {
	loaded, err := config.Load(path)
	if err != nil {
		logging.Error("Watch", err, "Keeping previous configuration")
		fmt.Fprintf(a.out, "⚠️  %v\n", err)
		return
	}
	engineCfg, err := applyOverrides(loaded, a.config)
	if err != nil {
		logging.Error("Watch", err, "Keeping previous configuration")
		fmt.Fprintf(a.out, "⚠️  %v\n", err)
		return
	}
	a.engineCfg = engineCfg
}

// runInteractiveMode runs the frame loop and the REPL side by side. The
// frame loop stops when the REPL returns.
func runInteractiveMode(ctx context.Context, a *Application, in io.ReadCloser) error {
	rep := reporting.NewConsoleReporter(a.out, reporting.ConsoleOptions{Color: a.config.Color, Debug: a.config.Debug})
	services, err := InitializeServices(a, rep)
	if err != nil {
		return err
	}
	session := NewSession(services.Engine, rep, a.out)

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	g.Go(func() error {
		return services.Runner.Run(func() error {
			return services.Runner.Loop(loopCtx)
		})
	})
	g.Go(func() error {
		defer stopLoop()
		return NewREPL(session, a.out).Run(gctx, in)
	})
	return g.Wait()
}

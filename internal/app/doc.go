// Package app provides application bootstrap, lifecycle management, and the
// execution modes of imtest.
//
// The package sits between the command line and the engine. It loads the
// engine configuration, applies command line overrides, builds the headless
// host and the demo suite, and drives the frame loop for the selected mode.
//
// # Architecture Overview
//
//  1. **Configuration (`config.go`)**: command line settings for one invocation
//  2. **Bootstrap (`bootstrap.go`)**: logging setup, configuration loading and overrides
//  3. **Services (`services.go`)**: engine, headless host, demo suite and reporters
//  4. **Runner (`runner.go`)**: the host frame loop
//  5. **Modes (`modes.go`)**: batch, watch and interactive execution
//  6. **Session and REPL (`session.go`, `repl.go`)**: manual runs from a terminal
//
// # Frame Loop
//
// The engine's frame methods must be called from the goroutine that started
// it, in this order:
//
//	PreNewFrame -> NewFrame -> PostNewFrame (GUI functions) -> EndFrame -> PostRender
//
// Runner owns that order. In batch mode it steps until the queue is empty or
// host.max_frames is reached. In interactive mode it steps forever on its own
// goroutine while the REPL queues tests through the engine's goroutine-safe
// methods.
//
// # Execution Modes
//
// **Batch** (`Application.Run`): queue the tests matching the filter, run them
// to completion and print the summary. A failing suite returns
// *engine.SuiteFailedError so that the command can exit with code 2.
//
// **Watch** (`Application.Watch`): run the suite, then run it again whenever
// the configuration file changes. A configuration that fails to load is
// reported and the previous one is kept.
//
// **Interactive** (`Application.Interactive`): a readline prompt with history
// and tab completion. Ctrl+C aborts the running command only.
//
// # Usage Example
//
//	cfg := app.NewConfig(false, "imtest.yaml", "widgets")
//	cfg.Verbose = true
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
package app

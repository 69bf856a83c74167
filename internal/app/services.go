package app

import (
	"fmt"

	"imtest/internal/clock"
	"imtest/internal/engine"
	"imtest/internal/headless"
	"imtest/internal/reporting"
	"imtest/internal/suite"
	"imtest/pkg/logging"
)

// Services holds the engine, its host and the frame loop driving them for
// one execution mode.
//
// The engine is created unstarted: Runner.Run starts it on the goroutine that
// runs the frame loop, which is the only goroutine allowed to call the
// engine's frame methods.
type Services struct {
	Engine *engine.Engine
	UI     *headless.Context
	Runner *Runner
}

// InitializeServices builds an engine from the application's configuration,
// registers the demo suite and wires the reporter as an engine observer. rep
// may be nil.
func InitializeServices(a *Application, rep reporting.Reporter, opts ...engine.Option) (*Services, error) {
	if rep != nil {
		opts = append(opts, engine.WithObserver(reporting.Observe(rep)))
	}
	e, err := engine.New(a.engineCfg, opts...)
	if err != nil {
		logging.Error("Services", err, "Failed to create engine")
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	suite.Register(e)
	logging.Debug("Services", "Registered %d tests", len(e.Tests()))

	ui := headless.New(headless.OptionsFromConfig(a.engineCfg))
	return &Services{
		Engine: e,
		UI:     ui,
		Runner: NewRunner(e, ui, a.engineCfg.Host, clock.RealClock{}),
	}, nil
}

// newReporter builds the console reporter and, when a report path is set,
// the structured reporter.
func (a *Application) newReporter() reporting.Reporter {
	console := reporting.NewConsoleReporter(a.out, reporting.ConsoleOptions{
		Verbose:  a.config.Verbose,
		Debug:    a.config.Debug,
		Progress: a.config.Progress,
		Color:    a.config.Color,
	})
	if a.config.ReportPath == "" {
		return console
	}
	return reporting.Multi(console, reporting.NewStructuredReporter(a.config.ReportPath))
}

// Tests lists the registered demo tests matching filter without running
// anything. An empty filter lists every test.
func (a *Application) Tests(filter string) ([]engine.TestResult, error) {
	services, err := InitializeServices(a, nil)
	if err != nil {
		return nil, err
	}
	return services.Engine.MatchTests(engine.GroupUnknown, filter)
}

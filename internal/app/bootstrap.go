package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"imtest/internal/config"
	"imtest/internal/input"
	"imtest/pkg/logging"
)

// Application loads the configuration once and runs the demo suite in one of
// the execution modes.
//
// Example usage:
//
//	cfg := app.NewConfig(false, "imtest.yaml", "widgets")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config    *Config
	engineCfg config.EngineConfig
	out       io.Writer
}

// NewApplication configures logging, loads the engine configuration and
// applies the command line overrides. The resulting configuration is
// validated.
func NewApplication(cfg *Config) (*Application, error) {
	appLogLevel := logging.LevelInfo
	if cfg.Debug {
		appLogLevel = logging.LevelDebug
	}
	var logOutput io.Writer = os.Stderr
	if cfg.LogOutput != nil {
		logOutput = cfg.LogOutput
	}
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(appLogLevel, logOutput)

	if cfg.EngineConfig == nil {
		engineCfg, err := config.Load(cfg.ConfigPath)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.EngineConfig = &engineCfg
	}

	engineCfg, err := applyOverrides(*cfg.EngineConfig, cfg)
	if err != nil {
		return nil, err
	}

	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return &Application{config: cfg, engineCfg: engineCfg, out: out}, nil
}

// applyOverrides copies command line settings over base.
func applyOverrides(base config.EngineConfig, cfg *Config) (config.EngineConfig, error) {
	if cfg.Speed != "" {
		speed, err := input.ParseSpeed(cfg.Speed)
		if err != nil {
			return base, err
		}
		base.RunSpeed = speed.String()
	}
	if cfg.NoStopOnError {
		base.StopOnError = false
	}
	if cfg.RealTime {
		base.Host.RealTime = true
	}
	if cfg.MaxFrames > 0 {
		base.Host.MaxFrames = cfg.MaxFrames
	}
	if errs := base.Validate(); errs.HasErrors() {
		return base, &config.ConfigurationError{
			FilePath:  cfg.ConfigPath,
			ErrorType: config.ErrorTypeValidation,
			Message:   "invalid values after command line overrides",
			Err:       errs,
		}
	}
	return base, nil
}

// EngineConfig returns the effective engine configuration.
func (a *Application) EngineConfig() config.EngineConfig { return a.engineCfg }

// Run queues the tests selected by the filter, runs them to completion and
// prints the summary. It returns *engine.SuiteFailedError when a test failed.
func (a *Application) Run(ctx context.Context) error {
	return runOnce(ctx, a)
}

// Watch runs the suite, then runs it again every time the configuration
// file changes, until ctx is cancelled.
func (a *Application) Watch(ctx context.Context) error {
	return runWatchMode(ctx, a)
}

// Interactive starts the REPL reading commands from in.
func (a *Application) Interactive(ctx context.Context, in io.ReadCloser) error {
	return runInteractiveMode(ctx, a, in)
}

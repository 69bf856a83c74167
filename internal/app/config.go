package app

import (
	"io"

	"imtest/internal/config"
)

// Config holds the application configuration
type Config struct {
	// Debug settings
	Debug bool
	// Silent discards process logs.
	Silent bool

	// Path of the engine configuration file. Empty means imtest.yaml in the
	// working directory, which may be absent.
	ConfigPath string

	// Overrides applied on top of the loaded engine configuration.
	Speed         string
	NoStopOnError bool
	RealTime      bool
	MaxFrames     int

	// Filter selects the tests to queue; see engine.QueueTests.
	Filter string

	// Reporting
	Verbose    bool
	Progress   bool
	Color      bool
	ReportPath string

	// Out receives reports. Nil means os.Stdout.
	Out io.Writer
	// LogOutput receives process logs. Nil means os.Stderr.
	LogOutput io.Writer

	// Engine configuration, filled in by NewApplication when nil.
	EngineConfig *config.EngineConfig
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath, filter string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
		Filter:     filter,
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"imtest/pkg/logging"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no path is
// given.
const DefaultFileName = "imtest.yaml"

// Load reads path on top of Default() and validates the result. A missing
// file is not an error.
func Load(path string) (EngineConfig, error) {
	if path == "" {
		path = DefaultFileName
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Debug("ConfigLoader", "No config found at %s, using defaults", path)
			return cfg, nil
		}
		return EngineConfig{}, &ConfigurationError{
			FilePath:  path,
			FileName:  filepath.Base(path),
			ErrorType: ErrorTypeIO,
			Message:   "cannot read configuration",
			Err:       err,
		}
	}

	cfg, err = Parse(data)
	if err != nil {
		var cerr *ConfigurationError
		if errors.As(err, &cerr) {
			cerr.FilePath = path
			cerr.FileName = filepath.Base(path)
		}
		return EngineConfig{}, err
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	return cfg, nil
}

// Parse decodes YAML on top of Default() and validates the result.
func Parse(data []byte) (EngineConfig, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, &ConfigurationError{
			ErrorType:   ErrorTypeParse,
			Message:     "malformed YAML",
			Err:         err,
			Suggestions: []string{"durations need a unit, e.g. 150ms or 30s"},
		}
	}
	if errs := cfg.Validate(); errs.HasErrors() {
		return EngineConfig{}, &ConfigurationError{
			ErrorType: ErrorTypeValidation,
			Message:   "invalid values",
			Err:       errs,
		}
	}
	return cfg, nil
}

// Marshal renders cfg as YAML.
func Marshal(cfg EngineConfig) ([]byte, error) {
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode configuration: %w", err)
	}
	return data, nil
}

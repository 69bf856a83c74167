package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, SpeedFast, cfg.RunSpeed)
	assert.Equal(t, 600.0, cfg.Input.MouseSpeed)
	assert.Equal(t, 150*time.Millisecond, cfg.Input.ActionDelayShort)
	assert.Equal(t, 30*time.Second, cfg.Watchdog.Warning)
	assert.Equal(t, 60*time.Second, cfg.Watchdog.KillTest)
	assert.Zero(t, cfg.Watchdog.KillApp)
	assert.Equal(t, 2, cfg.WarmupFrames)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
run_speed: cinematic
stop_on_error: true
input:
  mouse_speed: 1200
  action_delay_standard: 1s
watchdog:
  kill_test: 2m
  kill_app: 5m
registry:
  eviction_window_frames: 8
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SpeedCinematic, cfg.RunSpeed)
	assert.True(t, cfg.StopOnError)
	assert.Equal(t, 1200.0, cfg.Input.MouseSpeed)
	assert.Equal(t, time.Second, cfg.Input.ActionDelayStandard)
	assert.Equal(t, 2*time.Minute, cfg.Watchdog.KillTest)
	assert.Equal(t, 5*time.Minute, cfg.Watchdog.KillApp)
	assert.Equal(t, 8, cfg.Registry.EvictionWindowFrames)

	// Untouched fields keep their defaults.
	assert.Equal(t, 0.25, cfg.Input.MouseWobble)
	assert.Equal(t, 30*time.Second, cfg.Watchdog.Warning)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "run_speed: [fast")

	_, err := Load(path)
	require.Error(t, err)

	var cerr *ConfigurationError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, ErrorTypeParse, cerr.ErrorType)
	assert.Equal(t, path, cerr.FilePath)
	assert.Contains(t, cerr.DetailedError(), "Suggestions")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, `
run_speed: warp
input:
  mouse_speed: -1
watchdog:
  warning: 2m
  kill_test: 1m
`)

	_, err := Load(path)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs))
	for _, v := range verrs {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"run_speed", "input.mouse_speed", "watchdog.warning"}, fields)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
		field  string
	}{
		{"wobble above one", func(c *EngineConfig) { c.Input.MouseWobble = 1.5 }, "input.mouse_wobble"},
		{"zero typing speed", func(c *EngineConfig) { c.Input.TypingSpeed = 0 }, "input.typing_speed"},
		{"negative warmup", func(c *EngineConfig) { c.WarmupFrames = -1 }, "warmup_frames"},
		{"eviction window zero", func(c *EngineConfig) { c.Registry.EvictionWindowFrames = 0 }, "registry.eviction_window_frames"},
		{"kill test above kill app", func(c *EngineConfig) { c.Watchdog.KillApp = time.Second }, "watchdog.kill_test"},
		{"unknown verbose level", func(c *EngineConfig) { c.VerboseLevel = "loud" }, "verbose_level"},
		{"no resolve frames", func(c *EngineConfig) { c.Input.TargetResolveFrames = 0 }, "input.target_resolve_frames"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			errs := cfg.Validate()
			require.True(t, errs.HasErrors())
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestMarshal_RoundTripsDurations(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(data), "action_delay_short: 150ms")

	cfg, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("a", "is bad")
	assert.Equal(t, "field 'a': is bad", errs.Error())

	errs.Add("b", "is worse")
	assert.Equal(t, "validation failed: field 'a': is bad; field 'b': is worse", errs.Error())
}

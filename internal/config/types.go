package config

import "time"

// EngineConfig is the complete configuration of a test engine instance.
type EngineConfig struct {
	// RunSpeed is one of "fast", "normal" or "cinematic".
	RunSpeed string `yaml:"run_speed"`
	// StopOnError drops the rest of the queue after the first failed test.
	StopOnError bool `yaml:"stop_on_error"`
	// BreakOnError invokes the debug-break hook when a check fails.
	BreakOnError bool `yaml:"break_on_error"`
	// KeepGuiFunc keeps running the last test's GUI function after the queue
	// drains, for interactive inspection.
	KeepGuiFunc bool `yaml:"keep_gui_func"`
	// VerboseLevel selects which test log lines are mirrored to the process log.
	VerboseLevel string `yaml:"verbose_level"`
	// VerboseLevelOnError is used instead of VerboseLevel for failed tests.
	VerboseLevelOnError string `yaml:"verbose_level_on_error"`
	// WarmupFrames is how many times the GUI function runs before the test
	// function starts.
	WarmupFrames int `yaml:"warmup_frames"`

	Input    InputConfig    `yaml:"input"`
	Watchdog WatchdogConfig `yaml:"watchdog"`
	Registry RegistryConfig `yaml:"registry"`
	Host     HostConfig     `yaml:"host"`
}

// InputConfig holds the timing model of the input simulator.
type InputConfig struct {
	// MouseSpeed is the pointer speed in pixels per second in human modes.
	MouseSpeed float64 `yaml:"mouse_speed"`
	// MouseWobble scales the perpendicular drift of pointer paths, 0 to 1.
	MouseWobble float64 `yaml:"mouse_wobble"`
	// ScrollSpeed is the wheel speed in pixels per second in human modes.
	ScrollSpeed float64 `yaml:"scroll_speed"`
	// TypingSpeed is in characters per second in human modes.
	TypingSpeed float64 `yaml:"typing_speed"`

	ActionDelayShort    time.Duration `yaml:"action_delay_short"`
	ActionDelayStandard time.Duration `yaml:"action_delay_standard"`

	// DragThreshold is the distance in pixels a host needs to see before it
	// turns a press into a drag.
	DragThreshold float64 `yaml:"drag_threshold"`
	// DoubleClickTime is the host's double-click window.
	DoubleClickTime time.Duration `yaml:"double_click_time"`
	// KeyRepeatDelay is the hold time before the first key repeat.
	KeyRepeatDelay time.Duration `yaml:"key_repeat_delay"`
	// KeyRepeatRate is the interval between key repeats.
	KeyRepeatRate time.Duration `yaml:"key_repeat_rate"`
	// MouseRepeatMultiplier scales the key repeat timings for repeating
	// buttons.
	MouseRepeatMultiplier float64 `yaml:"mouse_repeat_multiplier"`

	// TargetResolveFrames bounds how long a verb waits for its target item.
	TargetResolveFrames int `yaml:"target_resolve_frames"`
	// NoiseSeed seeds the pointer wobble.
	NoiseSeed int64 `yaml:"noise_seed"`
}

// WatchdogConfig holds wall-clock limits measured from a test's start.
// Zero disables a threshold.
type WatchdogConfig struct {
	Warning  time.Duration `yaml:"warning"`
	KillTest time.Duration `yaml:"kill_test"`
	KillApp  time.Duration `yaml:"kill_app"`
	// SlowMultiplier scales all thresholds in normal and cinematic speed.
	SlowMultiplier float64 `yaml:"slow_multiplier"`
}

// RegistryConfig tunes the item registry.
type RegistryConfig struct {
	EvictionWindowFrames int `yaml:"eviction_window_frames"`
	ReserveHint          int `yaml:"reserve_hint"`
}

// HostConfig configures the built-in headless host and its frame loop.
type HostConfig struct {
	DisplayWidth  float64 `yaml:"display_width"`
	DisplayHeight float64 `yaml:"display_height"`
	// FixedDeltaTime is the simulated duration of every frame.
	FixedDeltaTime time.Duration `yaml:"fixed_delta_time"`
	// RealTime paces the frame loop to FixedDeltaTime.
	RealTime bool `yaml:"real_time"`
	// MaxFrames stops the frame loop after this many frames, 0 for no limit.
	MaxFrames int `yaml:"max_frames"`
}

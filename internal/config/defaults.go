package config

import "time"

const (
	SpeedFast      = "fast"
	SpeedNormal    = "normal"
	SpeedCinematic = "cinematic"
)

// Speeds lists the accepted RunSpeed values.
var Speeds = []string{SpeedFast, SpeedNormal, SpeedCinematic}

// VerboseLevels lists the accepted verbose level names, least verbose first.
var VerboseLevels = []string{"silent", "error", "warning", "info", "debug", "trace"}

// Default returns the configuration used when nothing is overridden.
func Default() EngineConfig {
	return EngineConfig{
		RunSpeed:            SpeedFast,
		StopOnError:         false,
		VerboseLevel:        "warning",
		VerboseLevelOnError: "info",
		WarmupFrames:        2,
		Input: InputConfig{
			MouseSpeed:            600,
			MouseWobble:           0.25,
			ScrollSpeed:           1400,
			TypingSpeed:           20,
			ActionDelayShort:      150 * time.Millisecond,
			ActionDelayStandard:   400 * time.Millisecond,
			DragThreshold:         6,
			DoubleClickTime:       300 * time.Millisecond,
			KeyRepeatDelay:        275 * time.Millisecond,
			KeyRepeatRate:         50 * time.Millisecond,
			MouseRepeatMultiplier: 1.0,
			TargetResolveFrames:   30,
			NoiseSeed:             1,
		},
		Watchdog: WatchdogConfig{
			Warning:        30 * time.Second,
			KillTest:       60 * time.Second,
			KillApp:        0,
			SlowMultiplier: 4,
		},
		Registry: RegistryConfig{
			EvictionWindowFrames: 4,
			ReserveHint:          256,
		},
		Host: HostConfig{
			DisplayWidth:   1280,
			DisplayHeight:  800,
			FixedDeltaTime: time.Second / 60,
			MaxFrames:      100000,
		},
	}
}

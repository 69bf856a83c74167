package headless

import (
	"time"

	"imtest/internal/config"
	"imtest/internal/host"
)

// Options configure a headless context.
type Options struct {
	DisplaySize host.Vec2
	// DeltaTime is the simulated duration of every frame.
	DeltaTime time.Duration

	DoubleClickTime     time.Duration
	DoubleClickMaxDist  float64
	KeyRepeatDelay      time.Duration
	KeyRepeatRate       time.Duration
	MouseRepeatMultiple float64
	DragThreshold       float64
}

// OptionsFromConfig derives options that agree with the engine's input
// timings.
func OptionsFromConfig(cfg config.EngineConfig) Options {
	return Options{
		DisplaySize:         host.Vec2{X: cfg.Host.DisplayWidth, Y: cfg.Host.DisplayHeight},
		DeltaTime:           cfg.Host.FixedDeltaTime,
		DoubleClickTime:     cfg.Input.DoubleClickTime,
		DoubleClickMaxDist:  6,
		KeyRepeatDelay:      cfg.Input.KeyRepeatDelay,
		KeyRepeatRate:       cfg.Input.KeyRepeatRate,
		MouseRepeatMultiple: cfg.Input.MouseRepeatMultiplier,
		DragThreshold:       cfg.Input.DragThreshold,
	}
}

// DefaultOptions uses the default engine configuration.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

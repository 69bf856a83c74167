package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

func (ve *ValidationErrors) addIf(err error) {
	if v, ok := err.(ValidationError); ok {
		*ve = append(*ve, v)
	}
}

// Validate checks value ranges and the ordering of watchdog thresholds.
func (c EngineConfig) Validate() ValidationErrors {
	var errs ValidationErrors

	errs.addIf(ValidateOneOf("run_speed", c.RunSpeed, Speeds))
	errs.addIf(ValidateOneOf("verbose_level", c.VerboseLevel, VerboseLevels))
	errs.addIf(ValidateOneOf("verbose_level_on_error", c.VerboseLevelOnError, VerboseLevels))

	if c.WarmupFrames < 0 {
		errs.Add("warmup_frames", "must not be negative", c.WarmupFrames)
	}

	in := c.Input
	if in.MouseSpeed <= 0 {
		errs.Add("input.mouse_speed", "must be positive", in.MouseSpeed)
	}
	if in.MouseWobble < 0 || in.MouseWobble > 1 {
		errs.Add("input.mouse_wobble", "must be between 0 and 1", in.MouseWobble)
	}
	if in.ScrollSpeed <= 0 {
		errs.Add("input.scroll_speed", "must be positive", in.ScrollSpeed)
	}
	if in.TypingSpeed <= 0 {
		errs.Add("input.typing_speed", "must be positive", in.TypingSpeed)
	}
	if in.ActionDelayShort < 0 || in.ActionDelayStandard < 0 {
		errs.Add("input.action_delay_*", "must not be negative")
	}
	if in.KeyRepeatRate <= 0 {
		errs.Add("input.key_repeat_rate", "must be positive", in.KeyRepeatRate)
	}
	if in.MouseRepeatMultiplier <= 0 {
		errs.Add("input.mouse_repeat_multiplier", "must be positive", in.MouseRepeatMultiplier)
	}
	if in.TargetResolveFrames < 1 {
		errs.Add("input.target_resolve_frames", "must be at least 1", in.TargetResolveFrames)
	}

	wd := c.Watchdog
	if wd.Warning < 0 || wd.KillTest < 0 || wd.KillApp < 0 {
		errs.Add("watchdog", "thresholds must not be negative")
	}
	if wd.Warning > 0 && wd.KillTest > 0 && wd.Warning > wd.KillTest {
		errs.Add("watchdog.warning", "must not exceed kill_test", wd.Warning)
	}
	if wd.KillTest > 0 && wd.KillApp > 0 && wd.KillTest > wd.KillApp {
		errs.Add("watchdog.kill_test", "must not exceed kill_app", wd.KillTest)
	}
	if wd.SlowMultiplier < 1 {
		errs.Add("watchdog.slow_multiplier", "must be at least 1", wd.SlowMultiplier)
	}

	if c.Registry.EvictionWindowFrames < 1 {
		errs.Add("registry.eviction_window_frames", "must be at least 1", c.Registry.EvictionWindowFrames)
	}

	if c.Host.DisplayWidth <= 0 || c.Host.DisplayHeight <= 0 {
		errs.Add("host.display_*", "must be positive")
	}
	if c.Host.FixedDeltaTime <= 0 {
		errs.Add("host.fixed_delta_time", "must be positive", c.Host.FixedDeltaTime)
	}

	return errs
}

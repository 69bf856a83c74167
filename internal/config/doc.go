// Package config loads and validates the engine configuration.
//
// Configuration is a single YAML file. Every field is optional: Load starts
// from Default() and overlays whatever the file sets, so an absent file means
// "all defaults". Command line flags are applied on top by the caller.
//
// # Example
//
//	run_speed: normal
//	stop_on_error: true
//	verbose_level: info
//	warmup_frames: 2
//	input:
//	  mouse_speed: 600
//	  mouse_wobble: 0.25
//	  typing_speed: 20
//	  action_delay_short: 150ms
//	  action_delay_standard: 400ms
//	  target_resolve_frames: 30
//	watchdog:
//	  warning: 30s
//	  kill_test: 60s
//	  kill_app: 0s      # disabled
//	registry:
//	  eviction_window_frames: 4
//
// Durations use Go syntax ("150ms", "1m"). Validation problems are returned
// together as ValidationErrors; a file that cannot be read or parsed yields a
// *ConfigurationError.
package config

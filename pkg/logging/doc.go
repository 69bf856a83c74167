// Package logging provides structured, subsystem-tagged logging for imtest.
//
// It is a thin layer over log/slog. Every record carries a subsystem
// attribute so engine, input, registry and host messages can be told apart
// in the same stream.
//
// # Log Levels
//   - **Debug**: coroutine handshakes, registry collection, simulated events
//   - **Info**: test start and end, queue changes
//   - **Warn**: watchdog warnings, unbalanced host scopes
//   - **Error**: failed tests, configuration problems
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Engine", "Queued %d tests", n)
//	logging.Warn("Engine", "Test %s exceeded warning threshold", name)
//	logging.Error("Config", err, "Failed to load %s", path)
//
// # Subsystems
//
//   - **App**: bootstrap and frame loop
//   - **Config**: configuration loading and validation
//   - **Engine**: scheduler, coroutine handshake, watchdogs
//   - **Input**: simulated input
//   - **Registry**: item registry
//   - **Host**: messages forwarded by the UI host
//
// Before InitForCLI is called, warnings and errors go to stderr and
// everything else is dropped. The package is safe for concurrent use.
package logging

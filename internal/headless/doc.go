// Package headless is a minimal immediate-mode UI that renders nothing.
//
// It keeps the parts of an immediate-mode toolkit the engine relies on: an ID
// stack hashed with pathhash.HashString, windows, a handful of widgets, input
// processing with double-click and repeat detection, and item reports through
// host.Hooks. The CLI runs the demo suite against it and the engine tests use
// it as their host.
package headless

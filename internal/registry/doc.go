// Package registry keeps the per-frame snapshot of every item a host reports.
//
// Hosts rebuild their UI each frame, so nothing they draw survives on its own.
// The registry remembers, per item identifier, the last geometry reported
// through the presence path and the last flags and label reported through the
// status path, each stamped with the frame it arrived in. Tests query it to
// find where to click and what state an item is in.
//
// Entries not refreshed for EvictionWindow frames are dropped by Collect,
// unless a test pinned them with Pin.
//
// A Registry is not safe for concurrent use. The engine only touches it from
// the frame loop and from the test coroutine while the frame loop is blocked.
package registry

// Package input synthesizes mouse and keyboard activity for a host that polls
// its input once per frame.
//
// A Simulator mutates a State and queues host.Event values the host drains at
// the start of its next frame. Every verb suspends its caller through Frames
// until the host has built at least one frame with the change, so effects
// of an action issued in frame N are visible from frame N+1.
//
// # Timing
//
// In SpeedFast the pointer teleports and optional delays are skipped. In
// SpeedNormal and SpeedCinematic the pointer travels at InputConfig.MouseSpeed
// pixels per second along a path bent by Perlin noise, typing and scrolling
// are spread over frames and the short and standard delays are honoured.
// Cinematic doubles the standard delay.
//
// Compound actions (Click, DoubleClick, Drag, Hold) are built from ButtonDown,
// ButtonUp and MoveTo and always release in a later frame than they press.
package input

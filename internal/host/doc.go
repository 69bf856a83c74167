// Package host defines the boundary between the test engine and the
// immediate-mode UI it drives.
//
// The UI reports what it builds each frame through Hooks, which the engine
// implements, and pulls simulated input through InputSource. The engine only
// sees the UI through the UI interface: frame counter, frame delta time and
// scope-stack recovery. Geometry and input vocabulary (Vec2, Rect, keys,
// buttons, status flags) live here so both sides share one set of types.
package host

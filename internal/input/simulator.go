package input

import (
	"math"
	"time"

	"github.com/aquilax/go-perlin"

	"imtest/internal/config"
	"imtest/internal/host"
	"imtest/internal/registry"
	"imtest/pkg/logging"
)

// Frames is the simulator's view of the frame loop. Yield must not return
// before the host has built at least one more frame.
type Frames interface {
	Yield()
	// Enter is called before a verb touches the state. It does not return
	// when the caller no longer owns the frame loop.
	Enter()
	// DeltaTime is the duration of the last built frame in seconds.
	DeltaTime() float64
	// FrameCount is the number of the last frame the host built.
	FrameCount() int
}

// ItemLookup resolves identifiers to registry entries.
type ItemLookup interface {
	Query(id host.ID) (registry.ItemInfo, bool)
}

// Axis selects a scroll direction.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

const (
	// wobbleScale converts MouseWobble into the largest perpendicular drift
	// as a fraction of the travelled distance.
	wobbleScale     = 0.1
	wobbleFrequency = 2.0
	fallbackDelta   = 1.0 / 60.0
)

// Simulator drives a State through the frame loop.
type Simulator struct {
	cfg    config.InputConfig
	speed  Speed
	state  *State
	frames Frames
	items  ItemLookup

	noise  *perlin.Perlin
	noiseT float64
}

// New creates a simulator. items may be nil if no item verbs are used.
func New(cfg config.InputConfig, speed Speed, state *State, frames Frames, items ItemLookup) *Simulator {
	return &Simulator{
		cfg:    cfg,
		speed:  speed,
		state:  state,
		frames: frames,
		items:  items,
		noise:  perlin.NewPerlin(2, 2, 3, cfg.NoiseSeed),
	}
}

func (s *Simulator) Speed() Speed               { return s.speed }
func (s *Simulator) SetSpeed(speed Speed)       { s.speed = speed }
func (s *Simulator) State() *State              { return s.state }
func (s *Simulator) Config() config.InputConfig { return s.cfg }

func (s *Simulator) deltaTime() float64 {
	if dt := s.frames.DeltaTime(); dt > 0 {
		return dt
	}
	return fallbackDelta
}

// SleepNoSkip yields until d of frame time has elapsed, at least one frame.
func (s *Simulator) SleepNoSkip(d time.Duration) {
	target := d.Seconds()
	elapsed := 0.0
	for {
		s.frames.Yield()
		elapsed += s.deltaTime()
		if elapsed >= target {
			return
		}
	}
}

// Sleep waits d in human modes and a single frame in fast mode.
func (s *Simulator) Sleep(d time.Duration) {
	if !s.speed.Human() {
		s.frames.Yield()
		return
	}
	s.SleepNoSkip(d)
}

// SleepShort pauses for ActionDelayShort in human modes only.
func (s *Simulator) SleepShort() {
	if s.speed.Human() && s.cfg.ActionDelayShort > 0 {
		s.SleepNoSkip(s.cfg.ActionDelayShort)
	}
}

// SleepStandard pauses for ActionDelayStandard in human modes only, twice
// as long in cinematic speed.
func (s *Simulator) SleepStandard() {
	if !s.speed.Human() || s.cfg.ActionDelayStandard <= 0 {
		return
	}
	d := s.cfg.ActionDelayStandard
	if s.speed == SpeedCinematic {
		d *= 2
	}
	s.SleepNoSkip(d)
}

func (s *Simulator) setMousePos(p host.Vec2) {
	s.frames.Enter()
	s.state.MousePos = p
	s.state.push(host.Event{Kind: host.EventMousePos, Pos: p})
}

// MaxWobble is the largest perpendicular drift a human-speed move over dist
// pixels can show.
func (s *Simulator) MaxWobble(dist float64) float64 {
	return s.cfg.MouseWobble * dist * wobbleScale
}

func (s *Simulator) wobble(t float64) float64 {
	n := s.noise.Noise1D(s.noiseT + t*wobbleFrequency)
	n = math.Max(-1, math.Min(1, n))
	return n * math.Sin(math.Pi*t)
}

// MoveTo moves the pointer to target. Fast mode teleports; human modes travel
// at MouseSpeed with noise-driven drift and land exactly on target.
func (s *Simulator) MoveTo(target host.Vec2) {
	s.frames.Enter()
	start := s.state.MousePos
	delta := target.Sub(start)
	dist := delta.Len()
	logging.Debug("Input", "MoveTo %s -> %s (%.0fpx, %s)", start, target, dist, s.speed)

	if !s.speed.Human() || dist < 1 {
		s.setMousePos(target)
		s.frames.Yield()
		return
	}

	dir := delta.Scale(1 / dist)
	perp := host.Vec2{X: -dir.Y, Y: dir.X}
	amp := s.MaxWobble(dist)
	travelled := 0.0
	for {
		travelled += s.cfg.MouseSpeed * s.deltaTime()
		if travelled >= dist {
			break
		}
		t := travelled / dist
		s.setMousePos(start.Lerp(target, t).Add(perp.Scale(s.wobble(t) * amp)))
		s.frames.Yield()
	}
	s.noiseT += 1.37
	s.setMousePos(target)
	s.frames.Yield()
}

// ButtonDown presses a mouse button.
func (s *Simulator) ButtonDown(b host.MouseButton) {
	s.frames.Enter()
	s.state.Buttons[b] = true
	s.state.push(host.Event{Kind: host.EventMouseButton, Button: b, Down: true, Pos: s.state.MousePos})
	s.frames.Yield()
}

// ButtonUp releases a mouse button.
func (s *Simulator) ButtonUp(b host.MouseButton) {
	s.frames.Enter()
	s.state.Buttons[b] = false
	s.state.push(host.Event{Kind: host.EventMouseButton, Button: b, Down: false, Pos: s.state.MousePos})
	s.frames.Yield()
}

// KeyDown presses mods and key. key may be KeyNone to press modifiers only.
func (s *Simulator) KeyDown(key host.Key, mods host.KeyMods) {
	s.frames.Enter()
	s.state.Mods |= mods
	if key != host.KeyNone {
		s.state.KeysDown[key] = true
	}
	s.state.push(host.Event{Kind: host.EventKey, Key: key, Mods: s.state.Mods, Down: true})
	s.frames.Yield()
}

// KeyUp releases key and mods.
func (s *Simulator) KeyUp(key host.Key, mods host.KeyMods) {
	s.frames.Enter()
	delete(s.state.KeysDown, key)
	s.state.push(host.Event{Kind: host.EventKey, Key: key, Mods: s.state.Mods, Down: false})
	s.state.Mods &^= mods
	s.frames.Yield()
}

// TypeText queues characters. Human modes type at TypingSpeed.
func (s *Simulator) TypeText(text string) {
	if !s.speed.Human() {
		for _, r := range text {
			s.queueChar(r)
		}
		s.frames.Yield()
		return
	}
	interval := time.Duration(float64(time.Second) / s.cfg.TypingSpeed)
	for _, r := range text {
		s.queueChar(r)
		s.SleepNoSkip(interval)
	}
}

func (s *Simulator) queueChar(r rune) {
	s.frames.Enter()
	s.state.Chars = append(s.state.Chars, r)
	s.state.push(host.Event{Kind: host.EventChar, Char: r})
}

// ScrollBy scrolls delta pixels along axis. Human modes spread the amount
// over frames at ScrollSpeed.
func (s *Simulator) ScrollBy(axis Axis, delta float64) {
	remaining := delta
	for {
		chunk := remaining
		if s.speed.Human() {
			limit := s.cfg.ScrollSpeed * s.deltaTime()
			chunk = math.Copysign(math.Min(math.Abs(remaining), limit), remaining)
		}
		w := host.Vec2{}
		if axis == AxisX {
			w.X = chunk
		} else {
			w.Y = chunk
		}
		s.frames.Enter()
		s.state.Wheel = s.state.Wheel.Add(w)
		s.state.push(host.Event{Kind: host.EventMouseWheel, Wheel: w, Pos: s.state.MousePos})
		s.frames.Yield()

		remaining -= chunk
		if math.Abs(remaining) < 1e-6 {
			return
		}
	}
}

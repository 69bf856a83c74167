package headless

import (
	"imtest/internal/host"
)

const buttonCount = int(host.MouseButtonCount)

// io is the input state of one frame, built from the events of the frame.
type io struct {
	mousePos host.Vec2

	mouseDown          [buttonCount]bool
	mouseClicked       [buttonCount]bool
	mouseReleased      [buttonCount]bool
	mouseDoubleClicked [buttonCount]bool
	// mouseDownDuration is -1 while released.
	mouseDownDuration     [buttonCount]float64
	mouseDownDurationPrev [buttonCount]float64
	mouseClickedPos       [buttonCount]host.Vec2
	lastClickTime         [buttonCount]float64

	keysDown            map[host.Key]bool
	keyDownDuration     map[host.Key]float64
	keyDownDurationPrev map[host.Key]float64
	keyPressed          map[host.Key]bool
	mods                host.KeyMods

	chars []rune
	wheel host.Vec2
}

func newIO() io {
	st := io{
		keysDown:            make(map[host.Key]bool),
		keyDownDuration:     make(map[host.Key]float64),
		keyDownDurationPrev: make(map[host.Key]float64),
		keyPressed:          make(map[host.Key]bool),
	}
	for b := range st.mouseDownDuration {
		st.mouseDownDuration[b] = -1
		st.mouseDownDurationPrev[b] = -1
		st.lastClickTime[b] = -1
	}
	return st
}

// beginFrame applies events queued since the last frame. now is the time at
// the start of the frame and dt its duration, both in seconds.
func (st *io) beginFrame(events []host.Event, now, dt float64, opts Options) {
	st.chars = st.chars[:0]
	st.wheel = host.Vec2{}
	for b := 0; b < buttonCount; b++ {
		st.mouseClicked[b] = false
		st.mouseReleased[b] = false
		st.mouseDoubleClicked[b] = false
	}
	for k := range st.keyPressed {
		delete(st.keyPressed, k)
	}

	for _, ev := range events {
		switch ev.Kind {
		case host.EventMousePos:
			st.mousePos = ev.Pos
		case host.EventMouseButton:
			st.mouseButton(ev, now, opts)
		case host.EventMouseWheel:
			st.wheel = st.wheel.Add(ev.Wheel)
		case host.EventKey:
			st.mods = ev.Mods
			if ev.Key == host.KeyNone {
				continue
			}
			if ev.Down && !st.keysDown[ev.Key] {
				st.keyPressed[ev.Key] = true
			}
			st.keysDown[ev.Key] = ev.Down
		case host.EventChar:
			st.chars = append(st.chars, ev.Char)
		}
	}

	for b := 0; b < buttonCount; b++ {
		st.mouseDownDurationPrev[b] = st.mouseDownDuration[b]
		switch {
		case !st.mouseDown[b]:
			st.mouseDownDuration[b] = -1
		case st.mouseDownDuration[b] < 0 || st.mouseClicked[b]:
			st.mouseDownDuration[b] = 0
		default:
			st.mouseDownDuration[b] += dt
		}
	}

	keyDelay := opts.KeyRepeatDelay.Seconds()
	keyRate := opts.KeyRepeatRate.Seconds()
	for k, down := range st.keysDown {
		if !down {
			delete(st.keysDown, k)
			delete(st.keyDownDuration, k)
			delete(st.keyDownDurationPrev, k)
			continue
		}
		prev, held := st.keyDownDuration[k]
		if !held || st.keyPressed[k] {
			st.keyDownDurationPrev[k] = -1
			st.keyDownDuration[k] = 0
			continue
		}
		st.keyDownDurationPrev[k] = prev
		st.keyDownDuration[k] = prev + dt
		if repeatCount(prev, prev+dt, keyDelay, keyRate) > 0 {
			st.keyPressed[k] = true
		}
	}
}

func (st *io) mouseButton(ev host.Event, now float64, opts Options) {
	b := int(ev.Button)
	if b < 0 || b >= buttonCount {
		return
	}
	st.mousePos = ev.Pos
	if !ev.Down {
		if st.mouseDown[b] {
			st.mouseReleased[b] = true
		}
		st.mouseDown[b] = false
		return
	}
	if st.mouseDown[b] {
		return
	}
	st.mouseDown[b] = true
	st.mouseClicked[b] = true

	last := st.lastClickTime[b]
	if last >= 0 && now-last <= opts.DoubleClickTime.Seconds() &&
		ev.Pos.Sub(st.mouseClickedPos[b]).Len() <= opts.DoubleClickMaxDist {
		st.mouseDoubleClicked[b] = true
		st.lastClickTime[b] = -1
	} else {
		st.lastClickTime[b] = now
	}
	st.mouseClickedPos[b] = ev.Pos
}

// repeatCount is how many repeats fire while a held input goes from t0 to t1
// seconds of hold time.
func repeatCount(t0, t1, delay, rate float64) int {
	if t0 >= t1 || t1 < delay {
		return 0
	}
	if rate <= 0 {
		if t0 < delay {
			return 1
		}
		return 0
	}
	before := -1
	if t0 >= delay {
		before = int((t0 - delay) / rate)
	}
	return int((t1-delay)/rate) - before
}

// mouseRepeated reports whether a held button fires a press this frame:
// once on the initial click, then at the repeat rate after the delay.
func (st *io) mouseRepeated(b host.MouseButton, opts Options) bool {
	if st.mouseClicked[b] {
		return true
	}
	t1 := st.mouseDownDuration[b]
	t0 := st.mouseDownDurationPrev[b]
	if t1 <= 0 || t0 < 0 {
		return false
	}
	mult := opts.MouseRepeatMultiple
	if mult <= 0 {
		mult = 1
	}
	return repeatCount(t0, t1, opts.KeyRepeatDelay.Seconds()*mult, opts.KeyRepeatRate.Seconds()*mult) > 0
}

package engine

import (
	"time"

	"imtest/internal/clock"
	"imtest/internal/config"
)

type watchdogAction int

const (
	watchdogNone watchdogAction = iota
	watchdogWarn
	watchdogKillTest
	watchdogKillApp
)

// watchdog measures real time since the current test started. Time spent
// suspended does not count.
type watchdog struct {
	clock  clock.Clock
	cfg    config.WatchdogConfig
	scale  float64
	start  time.Time
	paused time.Time
	warned bool
}

func newWatchdog(c clock.Clock, cfg config.WatchdogConfig) *watchdog {
	return &watchdog{clock: c, cfg: cfg, scale: 1}
}

func (w *watchdog) reset(slow bool) {
	w.start = w.clock.Now()
	w.paused = time.Time{}
	w.warned = false
	w.scale = 1
	if slow && w.cfg.SlowMultiplier > 1 {
		w.scale = w.cfg.SlowMultiplier
	}
}

func (w *watchdog) pause() {
	if w.paused.IsZero() {
		w.paused = w.clock.Now()
	}
}

func (w *watchdog) unpause() {
	if !w.paused.IsZero() {
		w.start = w.start.Add(w.clock.Now().Sub(w.paused))
		w.paused = time.Time{}
	}
}

func (w *watchdog) elapsed() time.Duration {
	now := w.clock.Now()
	if !w.paused.IsZero() {
		now = w.paused
	}
	return now.Sub(w.start)
}

func (w *watchdog) threshold(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	return time.Duration(float64(d) * w.scale)
}

// poll returns the most severe threshold crossed so far. The warning is
// reported once per test.
func (w *watchdog) poll() watchdogAction {
	elapsed := w.elapsed()
	if t := w.threshold(w.cfg.KillApp); t > 0 && elapsed >= t {
		return watchdogKillApp
	}
	if t := w.threshold(w.cfg.KillTest); t > 0 && elapsed >= t {
		return watchdogKillTest
	}
	if t := w.threshold(w.cfg.Warning); t > 0 && elapsed >= t && !w.warned {
		w.warned = true
		return watchdogWarn
	}
	return watchdogNone
}

// untilNext returns the time left before the next threshold fires. ok is
// false when no threshold is pending.
func (w *watchdog) untilNext() (time.Duration, bool) {
	elapsed := w.elapsed()
	var next time.Duration
	found := false
	consider := func(d time.Duration, pending bool) {
		t := w.threshold(d)
		if t <= 0 || !pending {
			return
		}
		left := t - elapsed
		if left < 0 {
			left = 0
		}
		if !found || left < next {
			next, found = left, true
		}
	}
	consider(w.cfg.Warning, !w.warned)
	consider(w.cfg.KillTest, true)
	consider(w.cfg.KillApp, true)
	return next, found
}

package engine

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

type coEventKind int

const (
	coYielded coEventKind = iota
	coFinished
)

type coEvent struct {
	kind coEventKind
	// panicked is set when the routine ended with a panic.
	panicked bool
	value    any
	stack    []byte
}

// coroutine runs a function on its own goroutine in lockstep with the frame
// loop. The frame loop sends on resume and then waits for one event; the
// routine runs only between those two points.
type coroutine struct {
	resume chan struct{}
	events chan coEvent
	// cancel is closed when the frame loop gives up on the routine.
	cancel  chan struct{}
	started bool
	done    bool
}

func newCoroutine(fn func()) *coroutine {
	co := &coroutine{
		resume: make(chan struct{}),
		events: make(chan coEvent, 1),
		cancel: make(chan struct{}),
	}
	go co.run(fn)
	return co
}

func (co *coroutine) run(fn func()) {
	finished := coEvent{kind: coFinished}
	defer func() {
		if r := recover(); r != nil {
			finished.panicked = true
			finished.value = r
			finished.stack = debug.Stack()
		}
		select {
		case co.events <- finished:
		case <-co.cancel:
		}
	}()

	select {
	case <-co.resume:
	case <-co.cancel:
		runtime.Goexit()
	}
	fn()
}

// yield hands control back to the frame loop and blocks until resumed. It
// exits the goroutine if the frame loop abandoned it.
func (co *coroutine) yield() {
	select {
	case co.events <- coEvent{kind: coYielded}:
	case <-co.cancel:
		runtime.Goexit()
	}
	select {
	case <-co.resume:
	case <-co.cancel:
		runtime.Goexit()
	}
}

// abandon releases the goroutine without waiting for it. A routine stuck
// outside yield keeps running until it next reaches a suspension point.
func (co *coroutine) abandon() {
	if co.done {
		return
	}
	co.done = true
	close(co.cancel)
}

func (e coEvent) panicMessage() string {
	return fmt.Sprintf("panic: %v\n%s", e.value, e.stack)
}

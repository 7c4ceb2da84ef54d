// Package debounce delays propagation of bursty input so only the last value of a burst is applied.
package debounce

import (
	"sync"
	"time"
)

// Task is a cancellable scheduled call. At most one call is pending at a time: scheduling again
// cancels the previous one.
type Task struct {
	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// Schedule runs fn after d, cancelling any call still pending.
func (t *Task) Schedule(d time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.gen++
	gen := t.gen
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		// A Stop that lost the race with the timer firing leaves a stale generation behind.
		if gen != t.gen {
			t.mu.Unlock()
			return
		}
		t.timer = nil
		t.mu.Unlock()
		fn()
	})
}

// Cancel drops the pending call, if any. It reports whether a call was pending.
func (t *Task) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	t.gen++
	return true
}

// Pending reports whether a call is scheduled.
func (t *Task) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Debouncer records every input immediately and commits only the last input of a burst once the
// window has passed without further input.
type Debouncer struct {
	window time.Duration
	commit func(string)

	task   Task
	mu     sync.Mutex
	latest string
}

// New creates a debouncer that calls commit with the surviving value.
func New(window time.Duration, commit func(string)) *Debouncer {
	return &Debouncer{window: window, commit: commit}
}

// Input records a keystroke value and restarts the window.
func (d *Debouncer) Input(value string) {
	d.mu.Lock()
	d.latest = value
	d.mu.Unlock()

	d.task.Schedule(d.window, func() {
		d.commit(d.Latest())
	})
}

// Latest returns the most recent input, committed or not.
func (d *Debouncer) Latest() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// Pending reports whether an input is waiting to be committed.
func (d *Debouncer) Pending() bool {
	return d.task.Pending()
}

// Stop cancels the pending commit, if any.
func (d *Debouncer) Stop() {
	d.task.Cancel()
}

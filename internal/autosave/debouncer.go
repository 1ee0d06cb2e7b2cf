// Package autosave coalesces bursts of edits into single note saves.
package autosave

import (
	"sync"
	"time"
)

// Debouncer runs fn once the quiet window has passed since the last Trigger.
// Calls to fn never overlap.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	idle    *sync.Cond // signalled when running drops to zero
	timer   *time.Timer
	gen     uint64
	running int
	stopped bool
}

// NewDebouncer returns a debouncer that calls fn after delay of quiet.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	d := &Debouncer{delay: delay, fn: fn}
	d.idle = sync.NewCond(&d.mu)
	return d
}

// Trigger (re)starts the quiet window. It is a no-op after Stop.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

// fire runs fn unless a later Trigger, Flush or Stop superseded gen.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	d.waitIdle()
	if d.stopped || gen != d.gen || d.timer == nil {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.running++
	d.mu.Unlock()
	d.run()
}

// run calls fn and marks it finished. running must already be counted.
func (d *Debouncer) run() {
	defer func() {
		d.mu.Lock()
		d.running--
		if d.running == 0 {
			d.idle.Broadcast()
		}
		d.mu.Unlock()
	}()
	d.fn()
}

// waitIdle blocks until no fn call is in flight. d.mu must be held.
func (d *Debouncer) waitIdle() {
	for d.running > 0 {
		d.idle.Wait()
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Flush waits for a call already in flight, then runs a pending call
// immediately on the caller's goroutine. Returns false when nothing was
// pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	d.waitIdle()
	if d.timer == nil || d.stopped {
		d.mu.Unlock()
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	d.running++
	d.mu.Unlock()
	d.run()
	return true
}

// Stop cancels any pending call and waits for one in flight. Later
// Triggers are ignored. Stop must not be called from fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.waitIdle()
}

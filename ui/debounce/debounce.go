// Package debounce delays an action until its trigger has gone quiet.
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered callback once no trigger has
// arrived for the configured delay. Callbacks run on the timer goroutine.
type Debouncer struct {
	mu       sync.Mutex
	delay    time.Duration
	timer    *time.Timer
	callback func()
	// gen invalidates timers that fired while a newer trigger was arriving.
	gen uint64
}

func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger (re)starts the quiet period. Only the last callback runs.
func (d *Debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.callback = callback
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			d.mu.Unlock()
			return
		}
		cb := d.callback
		d.callback = nil
		d.timer = nil
		d.mu.Unlock()

		if cb != nil {
			cb()
		}
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// Flush runs the pending callback right away on the calling goroutine. It
// reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	cb := d.callback
	d.stopLocked()
	d.mu.Unlock()

	if cb == nil {
		return false
	}
	cb()
	return true
}

// SetDelay changes the quiet period for future triggers.
func (d *Debouncer) SetDelay(delay time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delay = delay
}

// IsActive reports whether a callback is waiting to run.
func (d *Debouncer) IsActive() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.callback = nil
	d.gen++
}

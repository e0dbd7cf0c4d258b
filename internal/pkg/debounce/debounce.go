// Package debounce delays a handler until a quiet window has passed since
// the last trigger.
package debounce

import (
	"sync"
	"time"

	"github.com/mrops-br/bank-products/internal/pkg/clock"
)

// Debouncer delivers only the last scheduled value, delay after it was
// scheduled. At most one timer is pending at any time.
type Debouncer[T any] struct {
	clock clock.Clock
	delay time.Duration
	fn    func(T)

	mu    sync.Mutex
	timer clock.Timer
	gen   uint64
}

// New creates a Debouncer that calls fn from the clock's timer.
func New[T any](clk clock.Clock, delay time.Duration, fn func(T)) *Debouncer[T] {
	return &Debouncer[T]{
		clock: clk,
		delay: delay,
		fn:    fn,
	}
}

// Schedule replaces any pending call with one for v.
func (d *Debouncer[T]) Schedule(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			// superseded between firing and acquiring the lock
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		d.fn(v)
	})
}

// Cancel drops the pending call, if any.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Pending reports whether a call is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

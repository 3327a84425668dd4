package session

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period after the last edit before derived
// state is recomputed.
const DefaultDebounce = 400 * time.Millisecond

// Debouncer delays work until edits stop arriving. Every Trigger starts a
// new generation and cancels the pending run; a run whose generation is no
// longer current must not publish its result.
type Debouncer struct {
	mu         sync.Mutex
	delay      time.Duration
	generation uint64
	timer      *time.Timer
	pending    func(gen uint64)
}

// NewDebouncer creates a debouncer; a non-positive delay uses DefaultDebounce
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn to run once the delay passes with no further
// triggers, and returns the generation fn will be called with.
func (d *Debouncer) Trigger(fn func(gen uint64)) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.generation++
	gen := d.generation
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
	return gen
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.generation || d.pending == nil {
		d.mu.Unlock()
		return
	}
	fn := d.pending
	d.pending = nil
	d.timer = nil
	d.mu.Unlock()

	fn(gen)
}

// Flush runs the pending work now instead of waiting. It returns false if
// nothing was pending.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.pending == nil {
		d.mu.Unlock()
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	fn, gen := d.pending, d.generation
	d.pending = nil
	d.mu.Unlock()

	fn(gen)
	return true
}

// Current returns the newest generation
func (d *Debouncer) Current() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Stale reports whether gen has been superseded by a later Trigger
func (d *Debouncer) Stale(gen uint64) bool {
	return gen != d.Current()
}

// Pending reports whether a run is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending run and invalidates its generation
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = nil
	d.generation++
}

// Package debounce collapses bursts of changes into a single delayed action.
//
// A Coordinator does not own a timer. The caller arms one (tea.Tick in the
// TUI, time.AfterFunc elsewhere) with the Ticket returned by Schedule and
// hands the ticket back to Fire when it expires. Only the most recent
// un-cancelled ticket yields a value, so superseded timers fire harmlessly.
package debounce

import (
	"sync"
	"time"
)

// Ticket identifies one Schedule call
type Ticket uint64

// Coordinator debounces values of type T for a single logical channel.
// Each call site owns its own Coordinator.
type Coordinator[T any] struct {
	mu      sync.Mutex
	delay   time.Duration
	seq     Ticket
	pending T
	armed   bool
}

// New returns a coordinator with a fixed delay
func New[T any](delay time.Duration) *Coordinator[T] {
	return &Coordinator[T]{delay: delay}
}

// Delay returns the configured delay
func (c *Coordinator[T]) Delay() time.Duration {
	return c.delay
}

// Schedule records v as the pending value and supersedes any earlier ticket
func (c *Coordinator[T]) Schedule(v T) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	c.pending = v
	c.armed = true
	return c.seq
}

// Fire returns the pending value if t is still the latest ticket.
// A successful Fire disarms the coordinator.
func (c *Coordinator[T]) Fire(t Ticket) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	if !c.armed || t != c.seq {
		return zero, false
	}
	v := c.pending
	c.pending = zero
	c.armed = false
	return v, true
}

// Cancel disarms any pending ticket. Called on teardown.
func (c *Coordinator[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	var zero T
	c.pending = zero
	c.armed = false
}

// Pending reports whether a ticket is armed
func (c *Coordinator[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.armed
}

// AfterFunc schedules v and calls fn with it once the delay passes without
// another Schedule. The returned stop function cancels the timer.
func (c *Coordinator[T]) AfterFunc(v T, fn func(T)) (stop func() bool) {
	ticket := c.Schedule(v)
	timer := time.AfterFunc(c.delay, func() {
		if v, ok := c.Fire(ticket); ok {
			fn(v)
		}
	})
	return timer.Stop
}

// Package visibility loads the next page of a list when its last row
// scrolls into view.
package visibility

import "sync"

// Observer watches a single sentinel row and reports when it becomes visible
type Observer interface {
	// Observe replaces the watched sentinel. onVisible is called on each
	// crossing into view, and right away if the sentinel is already visible.
	Observe(sentinel int, onVisible func())

	// Disconnect stops watching. No callback runs after it returns.
	Disconnect()
}

// Viewport is an Observer for a scrolling list that is told which row
// indexes are on screen.
type Viewport struct {
	mu        sync.Mutex
	first     int
	last      int // inclusive; last < first means nothing is visible
	sentinel  int
	onVisible func()
	observing bool
	visible   bool
}

// NewViewport returns an observer with an empty visible range
func NewViewport() *Viewport {
	return &Viewport{last: -1}
}

// Observe implements Observer. Re-observing the current sentinel keeps its
// visibility state and does not fire again.
func (v *Viewport) Observe(sentinel int, onVisible func()) {
	v.mu.Lock()
	if v.observing && v.sentinel == sentinel {
		v.onVisible = onVisible
		v.mu.Unlock()
		return
	}
	v.sentinel = sentinel
	v.onVisible = onVisible
	v.observing = true
	v.visible = v.inRange(sentinel)
	fire := v.visible
	v.mu.Unlock()

	if fire && onVisible != nil {
		onVisible()
	}
}

// Disconnect implements Observer
func (v *Viewport) Disconnect() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.observing = false
	v.onVisible = nil
	v.visible = false
}

// SetRange records the visible rows [first, last] and fires the callback
// if the sentinel just came into view.
func (v *Viewport) SetRange(first, last int) {
	v.mu.Lock()
	v.first, v.last = first, last
	if !v.observing {
		v.mu.Unlock()
		return
	}
	was := v.visible
	v.visible = v.inRange(v.sentinel)
	cb := v.onVisible
	fire := v.visible && !was
	v.mu.Unlock()

	if fire && cb != nil {
		cb()
	}
}

// Range returns the visible rows
func (v *Viewport) Range() (first, last int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.first, v.last
}

// Observing reports whether a sentinel is being watched
func (v *Viewport) Observing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.observing
}

func (v *Viewport) inRange(i int) bool {
	return i >= 0 && i >= v.first && i <= v.last
}

// Target is the list a Loader feeds
type Target interface {
	Busy() bool
	HasMore() bool
	LoadMore()
}

// Loader asks its target for another page when the sentinel becomes visible
type Loader struct {
	obs    Observer
	target Target
}

// NewLoader binds an observer to a target
func NewLoader(obs Observer, target Target) *Loader {
	return &Loader{obs: obs, target: target}
}

// Attach watches sentinel, normally the index of the last rendered row.
// A negative sentinel (empty list) stops watching.
func (l *Loader) Attach(sentinel int) {
	if sentinel < 0 {
		l.obs.Disconnect()
		return
	}
	l.obs.Observe(sentinel, l.trigger)
}

// Close stops watching
func (l *Loader) Close() {
	l.obs.Disconnect()
}

func (l *Loader) trigger() {
	if l.target.Busy() || !l.target.HasMore() {
		return
	}
	l.target.LoadMore()
}

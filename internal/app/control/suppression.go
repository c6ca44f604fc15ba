// Package control houses the zoom-state reconciliation engine: the
// suppression tracker, the manual-save debounce pipeline, and the
// orchestrator that ties browser events to the use cases.
package control

import (
	"sync"
	"time"
)

// DefaultSuppressionWindow covers the asynchronous round trip between a
// daemon-initiated zoom write and the echoed change event.
const DefaultSuppressionWindow = 500 * time.Millisecond

// SelfZoomTracker records daemon-initiated zoom writes per tab so the echoed
// change events can be told apart from user-driven ones. The record is a
// single slot per tab: a second self-write before the first echo arrives
// overwrites the timestamp, which is fine since both writes are ours.
type SelfZoomTracker struct {
	mu      sync.Mutex
	window  time.Duration
	pending map[int]time.Time
	now     func() time.Time
}

// NewSelfZoomTracker creates a tracker with the given suppression window.
func NewSelfZoomTracker(window time.Duration) *SelfZoomTracker {
	if window <= 0 {
		window = DefaultSuppressionWindow
	}
	return &SelfZoomTracker{
		window:  window,
		pending: make(map[int]time.Time),
		now:     time.Now,
	}
}

// MarkSelf records the current time for a tab. Call immediately before the
// zoom-set call it covers.
func (t *SelfZoomTracker) MarkSelf(tabID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending[tabID] = t.now()
}

// ShouldSuppress reports whether a zoom-change event at eventTime was caused
// by the daemon. A fresh record is consumed; a stale record is deleted and
// the event is presumed user-driven, so an old self-write can never block a
// later manual edit.
func (t *SelfZoomTracker) ShouldSuppress(tabID int, eventTime time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	marked, ok := t.pending[tabID]
	if !ok {
		return false
	}
	delete(t.pending, tabID)
	return eventTime.Sub(marked) < t.window
}

// Forget drops any pending record for a tab.
func (t *SelfZoomTracker) Forget(tabID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.pending, tabID)
}

// Reset clears all records. There is no durability requirement for this
// state; it dies with the engine.
func (t *SelfZoomTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = make(map[int]time.Time)
}

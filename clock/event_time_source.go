package clock

import (
	"sync"
	"time"
)

type (
	// EventTimeSource is a fake TimeSource. Unlike most fake clocks, firing is
	// synchronous: when Advance or Update moves time past a timer's deadline,
	// the timer's callback runs before the call returns, on the same
	// goroutine.
	EventTimeSource struct {
		mu     sync.RWMutex
		now    time.Time
		timers []*fakeTimer
	}

	fakeTimer struct {
		source   *EventTimeSource
		deadline time.Time
		callback func()
		done     bool
		index    int
	}
)

var _ TimeSource = (*EventTimeSource)(nil)

// NewEventTimeSource returns an EventTimeSource with the current time set to
// Unix zero.
func NewEventTimeSource() *EventTimeSource {
	return &EventTimeSource{
		now: time.Unix(0, 0),
	}
}

// Now returns the fake current time.
func (ts *EventTimeSource) Now() time.Time {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	return ts.now
}

// Since returns the fake time elapsed since t.
func (ts *EventTimeSource) Since(t time.Time) time.Duration {
	return ts.Now().Sub(t)
}

// AfterFunc returns a timer that fires after duration d. The time source is
// locked while the callback runs, so the callback must not call mutating
// methods on this time source directly; wrap such calls in a goroutine. A
// non-positive duration fires the callback before AfterFunc returns.
func (ts *EventTimeSource) AfterFunc(d time.Duration, f func()) Timer {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if d < 0 {
		d = 0
	}
	t := &fakeTimer{source: ts, deadline: ts.now.Add(d), callback: f}
	t.index = len(ts.timers)
	ts.timers = append(ts.timers, t)
	ts.fireTimers()

	return t
}

// Update sets the fake current time. It returns the time source so calls can
// be chained: NewEventTimeSource().Update(time.Now()).
func (ts *EventTimeSource) Update(now time.Time) *EventTimeSource {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.now = now
	ts.fireTimers()
	return ts
}

// Advance moves the fake current time forward by d.
func (ts *EventTimeSource) Advance(d time.Duration) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	ts.now = ts.now.Add(d)
	ts.fireTimers()
}

// fireTimers fires all timers whose deadline has been reached, keeping the
// remaining ones compacted in place.
func (ts *EventTimeSource) fireTimers() {
	n := 0
	for _, t := range ts.timers {
		if t.deadline.After(ts.now) {
			ts.timers[n] = t
			t.index = n
			n++
		} else {
			t.callback()
			t.done = true
		}
	}
	ts.timers = ts.timers[:n]
}

// Reset changes the timer to fire after duration d. It returns true if the
// timer had been active.
func (t *fakeTimer) Reset(d time.Duration) bool {
	t.source.mu.Lock()
	defer t.source.mu.Unlock()

	if d < 0 {
		d = 0
	}

	wasActive := !t.done
	t.deadline = t.source.now.Add(d)
	if t.done {
		t.done = false
		t.index = len(t.source.timers)
		t.source.timers = append(t.source.timers, t)
	}
	t.source.fireTimers()
	return wasActive
}

// Stop prevents the timer from firing. It returns false if the timer already
// fired or was stopped.
func (t *fakeTimer) Stop() bool {
	t.source.mu.Lock()
	defer t.source.mu.Unlock()

	if t.done {
		return false
	}

	i := t.index
	timers := t.source.timers

	timers[i] = timers[len(timers)-1]
	timers[i].index = i
	t.source.timers = timers[:len(timers)-1]

	t.done = true
	return true
}

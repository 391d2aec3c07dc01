package clock

import "time"

type (
	// TimeSource is an interface to make it easier to test code that uses time.
	TimeSource interface {
		Now() time.Time
		Since(t time.Time) time.Duration
		AfterFunc(d time.Duration, f func()) Timer
	}

	// Timer is a timer returned by TimeSource.AfterFunc. Unlike the timers
	// returned by time.NewTimer or time.After, it doesn't have a channel.
	Timer interface {
		// Reset changes the expiration time of the timer. It returns true if
		// the timer had been active.
		Reset(d time.Duration) bool
		// Stop prevents the Timer from firing. It returns true if it
		// successfully stopped the timer, false if it already expired or was
		// stopped.
		Stop() bool
	}

	realTimeSource struct{}

	realTimer struct {
		*time.Timer
	}
)

var _ TimeSource = (*realTimeSource)(nil)

// NewRealTimeSource returns a TimeSource backed by the system clock.
func NewRealTimeSource() TimeSource {
	return realTimeSource{}
}

// Now returns the current time. The returned value carries the runtime's
// monotonic clock reading, so durations computed from it do not regress when
// the wall clock is adjusted.
func (ts realTimeSource) Now() time.Time {
	return time.Now()
}

func (ts realTimeSource) Since(t time.Time) time.Duration {
	return time.Since(t)
}

func (ts realTimeSource) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}

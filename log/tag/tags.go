package tag

import "time"

// LoggingCallAtKey is the tag key used for the caller file/line.
const LoggingCallAtKey = "logging-call-at"

// Name returns a tag for a generic component or check name.
func Name(name string) Tag {
	return NewStringTag("name", name)
}

// Error returns a tag for an error value.
func Error(err error) Tag {
	return NewErrorTag(err)
}

// Timeout returns a tag for a timeout value.
func Timeout(timeout time.Duration) Tag {
	return NewDurationTag("timeout", timeout)
}

// Deadline returns a tag for an absolute deadline.
func Deadline(deadline time.Time) Tag {
	return NewTimeTag("deadline", deadline)
}

// WaiterCount returns a tag for the number of waiters on a wait-set.
func WaiterCount(count int) Tag {
	return NewInt("waiter-count", count)
}

// Elapsed returns a tag for an elapsed duration.
func Elapsed(elapsed time.Duration) Tag {
	return NewDurationTag("elapsed", elapsed)
}

// Value returns a tag for an arbitrary value.
func Value(v interface{}) Tag {
	return NewObjectTag("value", v)
}

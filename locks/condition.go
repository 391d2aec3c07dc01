package locks

import (
	"context"
	"errors"
	"time"

	"github.com/gowaitq/waitq/clock"
)

// ErrInterrupted is returned by the interruptible Await variants when the
// caller's context is cancelled before a signal is delivered.
var ErrInterrupted = errors.New("locks: wait interrupted")

type (
	// Condition is a wait-set bound to an exclusive lock, in the style of a
	// monitor condition variable. Every method requires the bound lock to be
	// held by the calling goroutine and panics with ErrNotHeld otherwise.
	//
	// The Await variants atomically release the lock, block the caller until
	// signalled, interrupted or timed out, and reacquire the lock before
	// returning. Spurious wakeups are absorbed internally, but callers should
	// still re-check their predicate in a loop after every return.
	Condition interface {
		// Await blocks until the node is signalled or ctx is cancelled.
		// Returns ErrInterrupted on cancellation. If ctx is already cancelled
		// on entry, it fails fast without ever joining the wait-set.
		Await(ctx context.Context) error

		// AwaitUninterruptibly blocks until signalled. Cancellation of any
		// surrounding context has no effect on it.
		AwaitUninterruptibly()

		// AwaitNanos is Await bounded by a relative timeout in nanoseconds.
		// It returns an estimate of the remaining time; a value <= 0 means
		// the wait timed out. The estimate is computed on the monotonic
		// clock, so wall clock adjustments cannot make it regress.
		AwaitNanos(ctx context.Context, timeoutNanos int64) (int64, error)

		// AwaitTimeout is Await bounded by a relative timeout. It returns
		// false if the wait timed out.
		AwaitTimeout(ctx context.Context, timeout time.Duration) (bool, error)

		// AwaitUntil is Await bounded by an absolute deadline on the lock's
		// time source. It returns false if the deadline passed.
		AwaitUntil(ctx context.Context, deadline time.Time) (bool, error)

		// Signal transfers the longest-waiting live waiter to the lock's
		// acquisition queue and wakes it. No-op if the wait-set is empty.
		Signal()

		// SignalAll transfers every waiter, in FIFO order.
		SignalAll()
	}

	// conditionQueue is the Condition implementation: a FIFO doubly-linked
	// wait-set whose links are mutated only while the bound lock is held.
	// Node status is the one field touched without the lock, arbitrated by
	// CAS so a racing signal and cancellation resolve each node exactly once.
	conditionQueue struct {
		lock       ExclusiveLock
		timeSource clock.TimeSource
		head       *WaitNode
		tail       *WaitNode
	}

	awaitConfig struct {
		interruptible bool
		hasDeadline   bool
		deadline      time.Time
	}
)

// NewCondition returns a condition wait-set bound to the given lock. Most
// callers should use QueueLock.NewCondition instead.
func NewCondition(lock ExclusiveLock, timeSource clock.TimeSource) Condition {
	return &conditionQueue{
		lock:       lock,
		timeSource: timeSource,
	}
}

func (c *conditionQueue) Await(ctx context.Context) error {
	_, err := c.await(ctx, awaitConfig{interruptible: true})
	return err
}

func (c *conditionQueue) AwaitUninterruptibly() {
	_, _ = c.await(context.Background(), awaitConfig{})
}

func (c *conditionQueue) AwaitNanos(ctx context.Context, timeoutNanos int64) (int64, error) {
	deadline := c.timeSource.Now().Add(time.Duration(timeoutNanos))
	timedOut, err := c.await(ctx, awaitConfig{
		interruptible: true,
		hasDeadline:   true,
		deadline:      deadline,
	})
	remaining := deadline.Sub(c.timeSource.Now()).Nanoseconds()
	if err != nil {
		return remaining, err
	}
	if timedOut && remaining > 0 {
		remaining = 0
	}
	return remaining, nil
}

func (c *conditionQueue) AwaitTimeout(ctx context.Context, timeout time.Duration) (bool, error) {
	remaining, err := c.AwaitNanos(ctx, timeout.Nanoseconds())
	if err != nil {
		return false, err
	}
	return remaining > 0, nil
}

func (c *conditionQueue) AwaitUntil(ctx context.Context, deadline time.Time) (bool, error) {
	timedOut, err := c.await(ctx, awaitConfig{
		interruptible: true,
		hasDeadline:   true,
		deadline:      deadline,
	})
	if err != nil {
		return false, err
	}
	return !timedOut, nil
}

// await is the single wait routine behind every Await variant.
//
// Protocol: append a node to the wait-set, fully release the lock, park until
// the node leaves the WAITING state, then reacquire the lock before
// returning. A transferred node reacquires through the lock's acquisition
// queue (the signaler put it there); a cancelled node reacquires through a
// fresh queue entry and is spliced out of the wait-set once the lock is held
// again.
func (c *conditionQueue) await(ctx context.Context, cfg awaitConfig) (timedOut bool, err error) {
	if !c.lock.IsHeldByCurrent() {
		panic(ErrNotHeld)
	}

	var done <-chan struct{}
	if cfg.interruptible {
		// Pending cancellation fails fast: no node joins the wait-set and
		// the lock is never released.
		if ctx.Err() != nil {
			return false, ErrInterrupted
		}
		done = ctx.Done()
	}

	n := newWaitNode()
	if cfg.hasDeadline {
		n.deadline = cfg.deadline
		n.hasDeadline = true
	}
	c.enqueue(n)

	token, err := c.lock.FullyRelease()
	if err != nil {
		// unreachable given the held check above; do not strand the node
		c.remove(n)
		panic(err)
	}

	var timeout chan struct{}
	var timer clock.Timer
	if n.hasDeadline {
		timeout = make(chan struct{})
		timer = c.timeSource.AfterFunc(n.deadline.Sub(c.timeSource.Now()), func() {
			close(timeout)
		})
	}

	for n.isWaiting() {
		select {
		case <-n.wake:
			// re-check status; a stale token just loops

		case <-done:
			if !n.tryCancel() {
				// A signal transferred the node first: deliver it. The wait
				// returns normally despite the pending cancellation, so the
				// signal is never dropped.
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			c.lock.Reacquire(token, nil)
			c.remove(n)
			return false, ErrInterrupted

		case <-timeout:
			if !n.tryCancel() {
				continue
			}
			c.lock.Reacquire(token, nil)
			c.remove(n)
			return true, nil
		}
	}

	// Transferred: the node already sits on the acquisition queue and the
	// grant arrives through it.
	if timer != nil {
		timer.Stop()
	}
	c.lock.Reacquire(token, n)
	return false, nil
}

func (c *conditionQueue) Signal() {
	if !c.lock.IsHeldByCurrent() {
		panic(ErrNotHeld)
	}
	c.signalOne()
}

func (c *conditionQueue) SignalAll() {
	if !c.lock.IsHeldByCurrent() {
		panic(ErrNotHeld)
	}
	for c.signalOne() {
	}
}

// signalOne transfers the oldest live waiter to the lock's acquisition queue.
// A node that lost its status race to a cancellation is swept out and the
// next oldest is tried, so at most one live node is transferred per call.
// Returns false once the wait-set is drained. Caller holds the lock.
func (c *conditionQueue) signalOne() bool {
	for c.head != nil {
		n := c.head
		c.remove(n)
		if n.tryTransfer() {
			c.lock.EnqueueTransferred(n)
			n.unpark()
			return true
		}
	}
	return false
}

// enqueue appends n to the wait-set tail. Caller holds the lock.
func (c *conditionQueue) enqueue(n *WaitNode) {
	n.linked = true
	n.prev = c.tail
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
}

// remove splices n out of the wait-set if it is still linked. Caller holds
// the lock. Idempotent: a cancelled node may already have been swept out by a
// signal that lost the race to it.
func (c *conditionQueue) remove(n *WaitNode) {
	if !n.linked {
		return
	}
	n.linked = false
	if n.prev == nil {
		c.head = n.next
	} else {
		n.prev.next = n.next
	}
	if n.next == nil {
		c.tail = n.prev
	} else {
		n.next.prev = n.prev
	}
	n.prev = nil
	n.next = nil
}

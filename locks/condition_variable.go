package locks

import (
	"sync"
)

type (
	// ConditionVariable is a lighter cousin of Condition for callers that
	// already manage their own sync.Locker and only need channel-based
	// interruption: no timed waits, no wait-set transfer, Mesa semantics.
	ConditionVariable interface {
		// Signal wakes up one waiting goroutine, if any.
		Signal()
		// Broadcast wakes up all waiting goroutines.
		Broadcast()
		// Wait releases the lock, blocks until woken or until interrupt
		// fires, then reacquires the lock before returning. The caller must
		// hold the lock and should re-check its predicate in a loop.
		Wait(interrupt <-chan struct{})
	}

	conditionVariableImpl struct {
		lock sync.Locker

		// guards waiters; separate from lock so Signal / Broadcast do not
		// have to block behind a waiter reacquiring the lock
		stateLock sync.Mutex
		waiters   []chan struct{}
	}
)

// NewConditionVariable creates a new condition variable bound to the given
// lock.
func NewConditionVariable(lock sync.Locker) ConditionVariable {
	return &conditionVariableImpl{
		lock: lock,
	}
}

func (c *conditionVariableImpl) Signal() {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()
	c.signalLocked()
}

func (c *conditionVariableImpl) signalLocked() {
	if len(c.waiters) == 0 {
		return
	}
	close(c.waiters[0])
	c.waiters = c.waiters[1:]
}

func (c *conditionVariableImpl) Broadcast() {
	c.stateLock.Lock()
	defer c.stateLock.Unlock()

	for _, waiter := range c.waiters {
		close(waiter)
	}
	c.waiters = nil
}

func (c *conditionVariableImpl) Wait(interrupt <-chan struct{}) {
	waiter := make(chan struct{})
	c.stateLock.Lock()
	c.waiters = append(c.waiters, waiter)
	c.stateLock.Unlock()

	c.lock.Unlock()
	defer c.lock.Lock()

	select {
	case <-waiter:
	case <-interrupt:
		c.stateLock.Lock()
		for i, w := range c.waiters {
			if w == waiter {
				c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
				c.stateLock.Unlock()
				return
			}
		}
		// A wakeup raced with the interrupt and already claimed this waiter;
		// pass it on so the notification is not lost.
		c.signalLocked()
		c.stateLock.Unlock()
	}
}

package locks

import (
	"sync/atomic"
	"time"
)

// Wait status of a node. A node starts out waiting and leaves that state
// exactly once, via a compare-and-swap owned by whichever of signal, timeout
// or interrupt wins the race.
const (
	statusWaiting int32 = iota
	statusCancelled
	statusTransferred
)

type (
	// WaitNode represents one blocked waiter. While waiting it sits on a
	// condition's wait-set; once transferred by a signal it sits on the
	// lock's acquisition queue. It is never a member of both at once.
	WaitNode struct {
		status atomic.Int32

		// Wait-set links. Owned by the bound lock: mutated only while the
		// lock is held (enqueue by the waiter, dequeue by a signaler or by
		// the cancelled waiter after it reacquired the lock).
		next   *WaitNode
		prev   *WaitNode
		linked bool

		// Park/unpark handle. Capacity 1 so unpark never blocks and repeated
		// unparks collapse into one token.
		wake chan struct{}

		// Acquisition queue grant flag, guarded by the lock's internal mutex.
		granted bool

		// Absolute deadline for timed waits.
		deadline    time.Time
		hasDeadline bool
	}
)

func newWaitNode() *WaitNode {
	return &WaitNode{
		wake: make(chan struct{}, 1),
	}
}

func (n *WaitNode) isWaiting() bool {
	return n.status.Load() == statusWaiting
}

// tryCancel resolves the node as cancelled (timeout or interrupt). It returns
// false if a signal already transferred the node.
func (n *WaitNode) tryCancel() bool {
	return n.status.CompareAndSwap(statusWaiting, statusCancelled)
}

// tryTransfer resolves the node as transferred by a signal. It returns false
// if the waiter already cancelled.
func (n *WaitNode) tryTransfer() bool {
	return n.status.CompareAndSwap(statusWaiting, statusTransferred)
}

// unpark wakes the node's goroutine if it is parked, or leaves a wakeup token
// for it to consume on its next park. Safe to call from any goroutine, with
// or without the lock.
func (n *WaitNode) unpark() {
	select {
	case n.wake <- struct{}{}:
	default:
	}
}

// park blocks until an unpark token arrives.
func (n *WaitNode) park() {
	<-n.wake
}

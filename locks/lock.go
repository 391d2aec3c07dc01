//go:generate mockgen -package locks -source lock.go -destination lock_mock.go

package locks

import (
	"errors"
	"sync"

	"github.com/gowaitq/waitq/clock"
)

var (
	// ErrNotHeld is the panic value for lock or condition operations invoked
	// by a goroutine that does not hold the lock.
	ErrNotHeld = errors.New("locks: lock not held by current goroutine")
	// ErrRecursiveLock is the panic value for a goroutine locking a lock it
	// already holds. QueueLock is not reentrant.
	ErrRecursiveLock = errors.New("locks: recursive lock acquisition")
)

type (
	// HoldToken records a released lock hold so the hold can be restored by
	// Reacquire. Opaque to callers.
	HoldToken struct {
		owner uint64
	}

	// ExclusiveLock is the contract a condition wait-set needs from the lock
	// it is bound to. QueueLock is the reference implementation.
	ExclusiveLock interface {
		sync.Locker

		// IsHeldByCurrent reports whether the calling goroutine holds the lock.
		IsHeldByCurrent() bool

		// FullyRelease gives up the caller's hold and returns a token with
		// which the hold can be restored. Fails with ErrNotHeld if the caller
		// does not hold the lock.
		FullyRelease() (HoldToken, error)

		// Reacquire blocks until the hold recorded in token is restored. If n
		// already sits on the acquisition queue (a transferred waiter) the
		// grant arrives through it; if n is nil a fresh queue entry is
		// created, contending under the lock's normal policy.
		Reacquire(token HoldToken, n *WaitNode)

		// EnqueueTransferred pushes a node transferred from a condition
		// wait-set onto the acquisition queue.
		EnqueueTransferred(n *WaitNode)

		// NewCondition returns a new condition wait-set bound to this lock.
		NewCondition() Condition
	}

	// QueueLock is a FIFO hand-off exclusive lock with an explicit
	// acquisition queue. Unlock passes ownership directly to the queue head,
	// so waiters acquire in arrival order; condition waiters transferred by
	// Signal join the same queue at the tail.
	QueueLock struct {
		mu         sync.Mutex
		locked     bool
		owner      uint64 // goroutine id of the holder, 0 when not held
		qhead      *WaitNode
		qtail      *WaitNode
		timeSource clock.TimeSource
	}

	// QueueLockOption configures a QueueLock.
	QueueLockOption func(*QueueLock)
)

var _ ExclusiveLock = (*QueueLock)(nil)

// WithTimeSource overrides the time source used by conditions created from
// this lock. Intended for tests with a fake clock.
func WithTimeSource(timeSource clock.TimeSource) QueueLockOption {
	return func(l *QueueLock) {
		l.timeSource = timeSource
	}
}

// NewQueueLock creates a new unlocked QueueLock.
func NewQueueLock(opts ...QueueLockOption) *QueueLock {
	l := &QueueLock{
		timeSource: clock.NewRealTimeSource(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// NewCondition returns a new condition wait-set bound to this lock. A lock
// can have any number of independent wait-sets.
func (l *QueueLock) NewCondition() Condition {
	return NewCondition(l, l.timeSource)
}

// Lock acquires the lock, blocking in FIFO order behind earlier waiters.
// Panics with ErrRecursiveLock if the caller already holds it.
func (l *QueueLock) Lock() {
	gid := goroutineID()

	l.mu.Lock()
	if l.owner == gid {
		l.mu.Unlock()
		panic(ErrRecursiveLock)
	}
	if !l.locked {
		l.locked = true
		l.owner = gid
		l.mu.Unlock()
		return
	}
	n := newWaitNode()
	l.pushAcquire(n)
	l.mu.Unlock()

	l.awaitGrant(n, gid)
}

// Unlock releases the lock. If the acquisition queue is non-empty the lock is
// handed directly to the queue head and never becomes free in between.
// Panics with ErrNotHeld if the caller does not hold the lock.
func (l *QueueLock) Unlock() {
	l.mu.Lock()
	if !l.locked || l.owner != goroutineID() {
		l.mu.Unlock()
		panic(ErrNotHeld)
	}
	l.releaseLocked()
	l.mu.Unlock()
}

// IsHeldByCurrent reports whether the calling goroutine holds the lock.
func (l *QueueLock) IsHeldByCurrent() bool {
	gid := goroutineID()
	l.mu.Lock()
	held := l.locked && l.owner == gid
	l.mu.Unlock()
	return held
}

// FullyRelease gives up the caller's hold, handing the lock to the next
// waiter if any, and returns the token needed to reacquire.
func (l *QueueLock) FullyRelease() (HoldToken, error) {
	gid := goroutineID()
	l.mu.Lock()
	if !l.locked || l.owner != gid {
		l.mu.Unlock()
		return HoldToken{}, ErrNotHeld
	}
	l.releaseLocked()
	l.mu.Unlock()
	return HoldToken{owner: gid}, nil
}

// Reacquire blocks until the hold recorded in token is restored. See
// ExclusiveLock.
func (l *QueueLock) Reacquire(token HoldToken, n *WaitNode) {
	if n != nil && n.status.Load() == statusTransferred {
		// The signaler puts a transferred node on the acquisition queue, so
		// the grant arrives through it. awaitGrant may park before the
		// enqueue itself lands; the unpark that follows the enqueue covers
		// that window.
		l.awaitGrant(n, token.owner)
		return
	}

	l.mu.Lock()
	if !l.locked {
		l.locked = true
		l.owner = token.owner
		l.mu.Unlock()
		return
	}
	w := newWaitNode()
	l.pushAcquire(w)
	l.mu.Unlock()

	l.awaitGrant(w, token.owner)
}

// EnqueueTransferred pushes a node transferred from a condition wait-set onto
// the acquisition queue. The transferring signaler holds the lock, so the
// node cannot be granted before this returns.
func (l *QueueLock) EnqueueTransferred(n *WaitNode) {
	l.mu.Lock()
	l.pushAcquire(n)
	l.mu.Unlock()
}

// releaseLocked drops ownership and hands the lock to the queue head, if any.
// Caller holds l.mu.
func (l *QueueLock) releaseLocked() {
	l.owner = 0
	if n := l.popAcquire(); n != nil {
		// hand-off: the lock stays marked held for the grantee
		n.granted = true
		n.unpark()
		return
	}
	l.locked = false
}

// awaitGrant parks until the lock has been handed to node n, then records the
// calling goroutine as owner.
func (l *QueueLock) awaitGrant(n *WaitNode, gid uint64) {
	for {
		l.mu.Lock()
		if n.granted {
			n.granted = false
			l.owner = gid
			l.mu.Unlock()
			return
		}
		l.mu.Unlock()
		n.park()
	}
}

// pushAcquire appends n to the acquisition queue. Caller holds l.mu.
func (l *QueueLock) pushAcquire(n *WaitNode) {
	n.next = nil
	if l.qtail == nil {
		l.qhead = n
	} else {
		l.qtail.next = n
	}
	l.qtail = n
}

// popAcquire removes and returns the queue head, or nil. Caller holds l.mu.
func (l *QueueLock) popAcquire() *WaitNode {
	n := l.qhead
	if n == nil {
		return nil
	}
	l.qhead = n.next
	if l.qhead == nil {
		l.qtail = nil
	}
	n.next = nil
	return n
}

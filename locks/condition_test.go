package locks

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	"github.com/gowaitq/waitq/clock"
)

type (
	conditionQueueSuite struct {
		*require.Assertions
		suite.Suite

		lock *QueueLock
		cond Condition
	}
)

func TestConditionQueueSuite(t *testing.T) {
	s := new(conditionQueueSuite)
	suite.Run(t, s)
}

func (s *conditionQueueSuite) SetupTest() {
	s.Assertions = require.New(s.T())
	s.lock = NewQueueLock()
	s.cond = s.lock.NewCondition()
}

// startWaiter runs wait on its own goroutine, holding the lock, and returns
// once the waiter has released the lock into its parked state. The returned
// WaitGroup completes when the waiter goroutine exits.
func (s *conditionQueueSuite) startWaiter(wait func()) *sync.WaitGroup {
	started := sync.WaitGroup{}
	started.Add(1)
	finished := &sync.WaitGroup{}
	finished.Add(1)

	go func() {
		defer finished.Done()

		s.lock.Lock()
		defer s.lock.Unlock()

		started.Done()
		wait()
	}()

	started.Wait()
	// once this lock round-trip succeeds the waiter has fully released
	s.lock.Lock()
	s.lock.Unlock()
	return finished
}

func (s *conditionQueueSuite) TestSignalWakesWaiter() {
	finished := s.startWaiter(func() {
		s.NoError(s.cond.Await(context.Background()))
		s.True(s.lock.IsHeldByCurrent())
	})

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()
	finished.Wait()
}

func (s *conditionQueueSuite) TestSignalEmptyWaitSetNoop() {
	s.lock.Lock()
	s.cond.Signal()
	s.cond.SignalAll()
	s.lock.Unlock()
}

func (s *conditionQueueSuite) TestSignalWakesExactlyOne() {
	waiters := 3
	var woken atomic.Int32

	finished := make([]*sync.WaitGroup, 0, waiters)
	for i := 0; i < waiters; i++ {
		finished = append(finished, s.startWaiter(func() {
			s.NoError(s.cond.Await(context.Background()))
			woken.Add(1)
		}))
	}

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()

	s.Eventually(func() bool { return woken.Load() == 1 }, time.Second, time.Millisecond)
	// the remaining waiters must stay queued
	time.Sleep(50 * time.Millisecond)
	s.EqualValues(1, woken.Load())

	s.lock.Lock()
	s.cond.SignalAll()
	s.lock.Unlock()
	for _, f := range finished {
		f.Wait()
	}
	s.EqualValues(waiters, woken.Load())
}

func (s *conditionQueueSuite) TestSignalOrderIsFIFO() {
	var order []int

	f1 := s.startWaiter(func() {
		s.NoError(s.cond.Await(context.Background()))
		order = append(order, 1)
	})
	f2 := s.startWaiter(func() {
		s.NoError(s.cond.Await(context.Background()))
		order = append(order, 2)
	})

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()
	f1.Wait()

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()
	f2.Wait()

	s.Equal([]int{1, 2}, order)
}

func (s *conditionQueueSuite) TestSignalAllDrains() {
	waiters := 8
	var woken atomic.Int32

	finished := make([]*sync.WaitGroup, 0, waiters)
	for i := 0; i < waiters; i++ {
		finished = append(finished, s.startWaiter(func() {
			s.NoError(s.cond.Await(context.Background()))
			woken.Add(1)
		}))
	}

	s.lock.Lock()
	s.cond.SignalAll()
	s.lock.Unlock()

	for _, f := range finished {
		f.Wait()
	}
	s.EqualValues(waiters, woken.Load())

	s.lock.Lock()
	s.Nil(s.cond.(*conditionQueue).head)
	s.lock.Unlock()
}

func (s *conditionQueueSuite) TestAwaitUninterruptibly() {
	finished := s.startWaiter(func() {
		s.cond.AwaitUninterruptibly()
		s.True(s.lock.IsHeldByCurrent())
	})

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()
	finished.Wait()
}

func (s *conditionQueueSuite) TestAwaitInterrupted() {
	ctx, cancel := context.WithCancel(context.Background())

	finished := s.startWaiter(func() {
		s.ErrorIs(s.cond.Await(ctx), ErrInterrupted)
		s.True(s.lock.IsHeldByCurrent())
	})

	cancel()
	finished.Wait()

	// the cancelled node must be gone from the wait-set
	s.lock.Lock()
	s.Nil(s.cond.(*conditionQueue).head)
	s.lock.Unlock()
}

func (s *conditionQueueSuite) TestAwaitPendingInterrupt() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.lock.Lock()
	defer s.lock.Unlock()

	s.ErrorIs(s.cond.Await(ctx), ErrInterrupted)
	s.True(s.lock.IsHeldByCurrent())
	// fails fast: nothing ever joined the wait-set
	s.Nil(s.cond.(*conditionQueue).head)
}

func (s *conditionQueueSuite) TestSignalBeatsInterrupt() {
	// A node transferred before the cancellation is observed returns
	// normally, so the signal is never dropped.
	ctx, cancel := context.WithCancel(context.Background())

	finished := s.startWaiter(func() {
		s.NoError(s.cond.Await(ctx))
		s.True(s.lock.IsHeldByCurrent())
	})

	s.lock.Lock()
	s.cond.Signal()
	cancel()
	s.lock.Unlock()
	finished.Wait()
}

func (s *conditionQueueSuite) TestAwaitNanosTimesOut() {
	timeout := 50 * time.Millisecond

	s.lock.Lock()
	defer s.lock.Unlock()

	start := time.Now()
	remaining, err := s.cond.AwaitNanos(context.Background(), timeout.Nanoseconds())
	s.NoError(err)
	s.LessOrEqual(remaining, int64(0))
	s.GreaterOrEqual(time.Since(start), timeout)
	s.True(s.lock.IsHeldByCurrent())
	s.Nil(s.cond.(*conditionQueue).head)
}

func (s *conditionQueueSuite) TestAwaitNanosSignalled() {
	var remaining int64
	var err error
	finished := s.startWaiter(func() {
		remaining, err = s.cond.AwaitNanos(context.Background(), time.Minute.Nanoseconds())
	})

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()
	finished.Wait()

	s.NoError(err)
	s.Greater(remaining, int64(0))
}

func (s *conditionQueueSuite) TestAwaitNanosFakeClock() {
	timeSource := clock.NewEventTimeSource()
	lock := NewQueueLock(WithTimeSource(timeSource))
	cond := lock.NewCondition()

	started := sync.WaitGroup{}
	started.Add(1)
	finished := sync.WaitGroup{}
	finished.Add(1)

	go func() {
		defer finished.Done()

		lock.Lock()
		defer lock.Unlock()

		started.Done()
		remaining, err := cond.AwaitNanos(context.Background(), time.Second.Nanoseconds())
		s.NoError(err)
		s.LessOrEqual(remaining, int64(0))
		s.True(lock.IsHeldByCurrent())
	}()

	started.Wait()
	lock.Lock()
	lock.Unlock()

	timeSource.Advance(time.Second)
	finished.Wait()
}

func (s *conditionQueueSuite) TestAwaitTimeout() {
	s.lock.Lock()
	ok, err := s.cond.AwaitTimeout(context.Background(), 10*time.Millisecond)
	s.NoError(err)
	s.False(ok)
	s.lock.Unlock()

	finished := s.startWaiter(func() {
		ok, err := s.cond.AwaitTimeout(context.Background(), time.Minute)
		s.NoError(err)
		s.True(ok)
	})

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()
	finished.Wait()
}

func (s *conditionQueueSuite) TestAwaitUntil() {
	s.lock.Lock()
	ok, err := s.cond.AwaitUntil(context.Background(), time.Now().Add(-time.Second))
	s.NoError(err)
	s.False(ok)
	s.True(s.lock.IsHeldByCurrent())
	s.lock.Unlock()

	finished := s.startWaiter(func() {
		ok, err := s.cond.AwaitUntil(context.Background(), time.Now().Add(time.Minute))
		s.NoError(err)
		s.True(ok)
	})

	s.lock.Lock()
	s.cond.Signal()
	s.lock.Unlock()
	finished.Wait()
}

func (s *conditionQueueSuite) TestNotHeldPanics() {
	ctx := context.Background()

	s.PanicsWithValue(ErrNotHeld, func() { _ = s.cond.Await(ctx) })
	s.PanicsWithValue(ErrNotHeld, func() { s.cond.AwaitUninterruptibly() })
	s.PanicsWithValue(ErrNotHeld, func() { _, _ = s.cond.AwaitNanos(ctx, 1) })
	s.PanicsWithValue(ErrNotHeld, func() { _, _ = s.cond.AwaitTimeout(ctx, time.Second) })
	s.PanicsWithValue(ErrNotHeld, func() { _, _ = s.cond.AwaitUntil(ctx, time.Now()) })
	s.PanicsWithValue(ErrNotHeld, func() { s.cond.Signal() })
	s.PanicsWithValue(ErrNotHeld, func() { s.cond.SignalAll() })
}

func (s *conditionQueueSuite) TestNotHeldLeavesWaitSetUntouched() {
	finished := s.startWaiter(func() {
		s.NoError(s.cond.Await(context.Background()))
	})

	// a non-holder bounces off without disturbing the parked waiter
	s.PanicsWithValue(ErrNotHeld, func() { s.cond.Signal() })
	s.lock.Lock()
	s.NotNil(s.cond.(*conditionQueue).head)
	s.cond.Signal()
	s.lock.Unlock()
	finished.Wait()
}

func (s *conditionQueueSuite) TestNotHeldWithMockLock() {
	ctrl := gomock.NewController(s.T())
	mockLock := NewMockExclusiveLock(ctrl)
	mockLock.EXPECT().IsHeldByCurrent().Return(false).Times(3)

	cond := NewCondition(mockLock, clock.NewRealTimeSource())

	// the held check must come before any release or wait-set mutation, so
	// no other lock method may be called
	s.PanicsWithValue(ErrNotHeld, func() { _ = cond.Await(context.Background()) })
	s.PanicsWithValue(ErrNotHeld, func() { cond.Signal() })
	s.PanicsWithValue(ErrNotHeld, func() { cond.SignalAll() })
}

func (s *conditionQueueSuite) TestProducerConsumer() {
	const (
		capacity    = 8
		producers   = 4
		consumers   = 4
		perProducer = 1000
		totalToMove = producers * perProducer
		perConsumer = totalToMove / consumers
	)

	lock := NewQueueLock()
	notFull := lock.NewCondition()
	notEmpty := lock.NewCondition()
	buffered := 0
	consumed := 0

	var g errgroup.Group
	for p := 0; p < producers; p++ {
		g.Go(func() error {
			for i := 0; i < perProducer; i++ {
				lock.Lock()
				for buffered == capacity {
					if err := notFull.Await(context.Background()); err != nil {
						lock.Unlock()
						return err
					}
				}
				buffered++
				notEmpty.Signal()
				lock.Unlock()
			}
			return nil
		})
	}
	for c := 0; c < consumers; c++ {
		g.Go(func() error {
			for i := 0; i < perConsumer; i++ {
				lock.Lock()
				for buffered == 0 {
					if err := notEmpty.Await(context.Background()); err != nil {
						lock.Unlock()
						return err
					}
				}
				buffered--
				consumed++
				notFull.Signal()
				lock.Unlock()
			}
			return nil
		})
	}

	s.NoError(g.Wait())
	s.Equal(totalToMove, consumed)
	s.Zero(buffered)
}

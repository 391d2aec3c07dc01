package deadlock

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gowaitq/waitq/locks"
	"github.com/gowaitq/waitq/log"
)

func TestHealthyLockNotReported(t *testing.T) {
	lock := locks.NewQueueLock()
	d := NewDetector(
		Config{Interval: 5 * time.Millisecond},
		log.NewNoopLogger(),
		LockCheck("healthy-lock", 50*time.Millisecond, lock),
	)

	require.NoError(t, d.Start())
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, d.Stop())
	d.loops.Wait()

	require.Zero(t, d.suspected.Load())
}

func TestStuckLockReported(t *testing.T) {
	lock := &sync.Mutex{}
	lock.Lock() // never released; every ping stays blocked
	d := NewDetector(
		Config{Interval: time.Minute},
		log.NewNoopLogger(),
		LockCheck("stuck-lock", 5*time.Millisecond, lock),
	)

	require.NoError(t, d.Start())
	require.Eventually(
		t,
		func() bool { return d.suspected.Load() >= 1 },
		time.Second,
		time.Millisecond,
		"a lock held past the check timeout must be reported",
	)
	require.NoError(t, d.Stop())
}

func TestConfigDefaults(t *testing.T) {
	d := NewDetector(Config{}, log.NewNoopLogger())
	require.Equal(t, defaultInterval, d.config.Interval)
}

package locks

import (
	"sync"

	"github.com/dgryski/go-farm"
)

type (
	// HashFunc represents a hash function for a string identifier.
	HashFunc func(string) uint32

	// IDMutex is an interface which can lock on a specific string identifier.
	IDMutex interface {
		LockID(identifier string)
		UnlockID(identifier string)
	}

	idMutexImpl struct {
		numShard uint32
		hashFn   HashFunc
		shards   []*idMutexShardImpl
	}

	idMutexShardImpl struct {
		sync.Mutex
		mutexInfos map[string]*mutexInfo
	}

	mutexInfo struct {
		// how many callers are using this lock info, including the
		// caller which already has the lock
		// this is guarded by the lock in idMutexShardImpl
		waitCount int

		// actual lock
		sync.Mutex
	}
)

// DefaultHashFunc hashes identifiers with farmhash.
func DefaultHashFunc(identifier string) uint32 {
	return farm.Fingerprint32([]byte(identifier))
}

// NewIDMutex creates a new IDMutex. A nil hashFn selects DefaultHashFunc.
func NewIDMutex(numShard uint32, hashFn HashFunc) IDMutex {
	if hashFn == nil {
		hashFn = DefaultHashFunc
	}
	impl := &idMutexImpl{
		numShard: numShard,
		hashFn:   hashFn,
		shards:   make([]*idMutexShardImpl, numShard),
	}
	for i := uint32(0); i < numShard; i++ {
		impl.shards[i] = &idMutexShardImpl{
			mutexInfos: make(map[string]*mutexInfo),
		}
	}

	return impl
}

// LockID locks by a specific identifier.
func (idMutex *idMutexImpl) LockID(identifier string) {
	shard := idMutex.shards[idMutex.getShardIndex(identifier)]

	shard.Lock()
	info, ok := shard.mutexInfos[identifier]
	if !ok {
		info = &mutexInfo{waitCount: 1}
		shard.mutexInfos[identifier] = info
		shard.Unlock()
		info.Lock()
		return
	}

	info.waitCount++
	shard.Unlock()
	info.Lock()
}

// UnlockID unlocks by a specific identifier.
func (idMutex *idMutexImpl) UnlockID(identifier string) {
	shard := idMutex.shards[idMutex.getShardIndex(identifier)]

	shard.Lock()
	defer shard.Unlock()
	info, ok := shard.mutexInfos[identifier]
	if !ok {
		panic("cannot find mutex for identifier")
	}
	info.Unlock()
	if info.waitCount == 1 {
		delete(shard.mutexInfos, identifier)
	} else {
		info.waitCount--
	}
}

func (idMutex *idMutexImpl) getShardIndex(key string) uint32 {
	return idMutex.hashFn(key) % idMutex.numShard
}

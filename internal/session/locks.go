package session

import "sync"

// LockRegistry hands out one mutex per room identity so that a start
// check and an end check for the same room never run their critical
// sections concurrently. Entries are created lazily and kept for the
// process lifetime; cardinality is bounded by the number of distinct
// rooms ever touched.
type LockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewLockRegistry() *LockRegistry {
	return &LockRegistry{locks: make(map[string]*sync.Mutex)}
}

// Acquire returns the lock for (guildID, roomID) without locking it.
// Repeated calls with the same identity return the same mutex.
func (r *LockRegistry) Acquire(guildID, roomID string) *sync.Mutex {
	key := roomKey(guildID, roomID)
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[key] = lock
	}
	return lock
}

func roomKey(guildID, roomID string) string {
	return guildID + ":" + roomID
}

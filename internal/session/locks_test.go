package session

import (
	"sync"
	"testing"
	"time"
)

func TestLockRegistry_SameRoomReturnsSameLock(t *testing.T) {
	registry := NewLockRegistry()

	first := registry.Acquire("guild-1", "vc-1")
	second := registry.Acquire("guild-1", "vc-1")
	if first != second {
		t.Fatal("expected the same lock for the same room identity")
	}
}

func TestLockRegistry_DifferentRoomsDoNotShareLocks(t *testing.T) {
	registry := NewLockRegistry()

	a := registry.Acquire("guild-1", "vc-1")
	b := registry.Acquire("guild-1", "vc-2")
	c := registry.Acquire("guild-2", "vc-1")
	if a == b || a == c || b == c {
		t.Fatal("expected distinct locks for distinct room identities")
	}

	a.Lock()
	defer a.Unlock()
	done := make(chan struct{})
	go func() {
		b.Lock()
		b.Unlock()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock for a different room blocked")
	}
}

func TestLockRegistry_SerializesSameRoom(t *testing.T) {
	registry := NewLockRegistry()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
	)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			lock := registry.Acquire("guild-1", "vc-1")
			lock.Lock()
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			lock.Unlock()
		}()
	}
	wg.Wait()
	if maxSeen != 1 {
		t.Fatalf("expected at most one holder in the critical section, saw %d", maxSeen)
	}
}

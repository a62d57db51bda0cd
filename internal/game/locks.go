package game

import "sync"

// roomLocks serializes all state transitions per room. Cross-room calls
// proceed in parallel; two calls touching the same room never overlap.
type roomLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[int]*sync.Mutex)}
}

// lock acquires the mutex for roomID and returns its unlock func.
// Lock entries are kept for the process lifetime; rooms are finite and
// terminal rooms stop being locked once expired.
func (l *roomLocks) lock(roomID int) func() {
	l.mu.Lock()
	m, ok := l.locks[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

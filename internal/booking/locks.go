package booking

import (
	"slices"
	"sync"
)

// playerLocks hands out one mutex per player id. Entries are dropped once
// nobody holds or waits on them.
type playerLocks struct {
	mu    sync.Mutex
	locks map[string]*playerLock
}

type playerLock struct {
	mu   sync.Mutex
	refs int
}

func newPlayerLocks() *playerLocks {
	return &playerLocks{locks: make(map[string]*playerLock)}
}

// lock acquires the locks for all ids in ascending order so that two callers
// locking the same pair cannot deadlock. The returned func releases them.
func (l *playerLocks) lock(ids ...string) func() {
	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	held := make([]*playerLock, 0, len(ids))
	for _, id := range ids {
		l.mu.Lock()
		pl, ok := l.locks[id]
		if !ok {
			pl = &playerLock{}
			l.locks[id] = pl
		}
		pl.refs++
		l.mu.Unlock()

		pl.mu.Lock()
		held = append(held, pl)
	}

	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].mu.Unlock()
			l.mu.Lock()
			held[i].refs--
			if held[i].refs == 0 {
				delete(l.locks, ids[i])
			}
			l.mu.Unlock()
		}
	}
}

func (l *playerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

package moderation

import "sync"

type activityKey struct {
	chatID int64
	userID int64
}

// keyedMutex serializes evaluations per (chat, user) pair while letting
// distinct pairs proceed in parallel. Entries are refcounted so the map does
// not grow with every pair ever seen.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[activityKey]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: map[activityKey]*keyedLock{}}
}

func (k *keyedMutex) lock(key activityKey) (unlock func()) {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &keyedLock{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

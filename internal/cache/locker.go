package cache

import (
	"context"
	"sync"
)

// Locker serializes recomputation of one key. Implementations can be
// in-process or shared between workers (see the redis adapter).
type Locker interface {
	// Lock blocks until key is held or ctx is done and returns the release func
	Lock(ctx context.Context, key string) (func(), error)
}

// LocalLocker is a per-key mutex for a single process
type LocalLocker struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

// NewLocalLocker creates new in-process locker
func NewLocalLocker() *LocalLocker {
	return &LocalLocker{slots: make(map[string]chan struct{})}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	slot := l.slot(key)

	select {
	case slot <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-slot }) }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *LocalLocker) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	return slot
}

package scheduler

import (
	"context"
	"sync"
	"time"
)

// LocalLocker is the single-process Locker used when Redis is disabled.
type LocalLocker struct {
	mu    sync.Mutex
	held  map[string]localLock
	clock func() time.Time
}

type localLock struct {
	value   string
	expires time.Time
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{held: make(map[string]localLock), clock: time.Now}
}

func (l *LocalLocker) AcquireLock(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return false, nil
	}
	l.held[key] = localLock{value: value, expires: now.Add(ttl)}
	return true, nil
}

func (l *LocalLocker) ReleaseLock(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.held[key]; ok && cur.value == value {
		delete(l.held, key)
	}
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"
)

// lockEntry is a held lock and the moment it lapses.
type lockEntry struct {
	expiresAt time.Time
}

// LockManager is the in-process LockManager used when Redis is not
// configured. The report service takes one lock per user and crime type with
// the cooldown as TTL and never releases it, so a second report of the same
// type inside the window is refused.
//
// Locks live only in this process: with several replicas behind a load
// balancer the cooldown is per replica. Set REDIS_ADDR to share it.
//
// Go Learning Note - Channels for Signaling:
// The `stop` field is a `chan struct{}` used purely for signaling. The
// pattern is: close(stop) to make every goroutine receiving on it return at
// once, because a closed channel is always ready to receive.
type LockManager struct {
	mu    sync.RWMutex
	locks map[string]*lockEntry
	now   func() time.Time
	stop  chan struct{}
}

// NewLockManager creates a LockManager and starts the background sweep that
// drops lapsed locks every interval. Call Stop on shutdown.
func NewLockManager(interval time.Duration) *LockManager {
	if interval <= 0 {
		interval = time.Second
	}
	lm := &LockManager{
		locks: make(map[string]*lockEntry),
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go lm.sweep(interval)
	return lm
}

// AcquireLock takes key for ttl. It returns false without error while the key
// is held; a lapsed lock counts as free. Equivalent to Redis SET NX PX.
func (lm *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	now := lm.now()
	if entry, exists := lm.locks[key]; exists && now.Before(entry.expiresAt) {
		return false, nil
	}
	lm.locks[key] = &lockEntry{expiresAt: now.Add(ttl)}
	return true, nil
}

func (lm *LockManager) ReleaseLock(ctx context.Context, key string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	delete(lm.locks, key)
	return nil
}

func (lm *LockManager) IsLocked(ctx context.Context, key string) (bool, error) {
	ttl, err := lm.TTL(ctx, key)
	return ttl > 0, err
}

func (lm *LockManager) TTL(ctx context.Context, key string) (time.Duration, error) {
	lm.mu.RLock()
	defer lm.mu.RUnlock()

	entry, exists := lm.locks[key]
	if !exists {
		return 0, nil
	}
	if left := entry.expiresAt.Sub(lm.now()); left > 0 {
		return left, nil
	}
	return 0, nil
}

// sweep removes lapsed entries so the map does not grow with every user who
// ever reported.
//
// Go Learning Note - select Statement:
// select blocks until one of its cases can proceed. Here it waits for either
// the ticker (do cleanup) or the stop signal (exit), the idiomatic shape of a
// cancellable periodic task. Deleting map keys inside a range loop over the
// same map is explicitly allowed by the language.
func (lm *LockManager) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lm.mu.Lock()
			now := lm.now()
			for key, entry := range lm.locks {
				if !now.Before(entry.expiresAt) {
					delete(lm.locks, key)
				}
			}
			lm.mu.Unlock()
		case <-lm.stop:
			return
		}
	}
}

// Stop ends the background sweep.
func (lm *LockManager) Stop() {
	close(lm.stop)
}

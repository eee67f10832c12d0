// Package redis implements the LockManager port on Redis so the report
// cooldown is shared by every replica.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "policeapp:lock:"

// LockManager maps each lock to a Redis key with a PX expiry.
type LockManager struct {
	client goredis.UniversalClient
}

func NewLockManager(client goredis.UniversalClient) *LockManager {
	return &LockManager{client: client}
}

// Open returns a client for addr after a successful PING.
func Open(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

func (lm *LockManager) AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := lm.client.SetNX(ctx, keyPrefix+key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (lm *LockManager) ReleaseLock(ctx context.Context, key string) error {
	if err := lm.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (lm *LockManager) IsLocked(ctx context.Context, key string) (bool, error) {
	n, err := lm.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// TTL reports the remaining expiry. PTTL answers -2 for a missing key and -1
// for a key without expiry; both are reported as 0.
func (lm *LockManager) TTL(ctx context.Context, key string) (time.Duration, error) {
	d, err := lm.client.PTTL(ctx, keyPrefix+key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis pttl: %w", err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

package cache

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const lockRetries = 32

// PlanLocker serialises edits to one flight plan across service instances.
type PlanLocker struct {
	rs  *redsync.Redsync
	ttl time.Duration
}

func NewPlanLocker(client *redis.Client, ttl time.Duration) *PlanLocker {
	return &PlanLocker{
		rs:  redsync.New(goredis.NewPool(client)),
		ttl: ttl,
	}
}

// Lock blocks until the plan's mutex is held or the retries run out. The
// returned func releases it.
func (l *PlanLocker) Lock(ctx context.Context, flightPlanID int64) (func(), error) {
	key := planLockKey(flightPlanID)
	mutex := l.rs.NewMutex(
		key,
		redsync.WithExpiry(l.ttl),
		redsync.WithTries(lockRetries),
		redsync.WithRetryDelay(50*time.Millisecond),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, err
	}

	return func() {
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil {
			log.Printf("WARNING: failed to unlock %s: %v", key, err)
		}
	}, nil
}

func planLockKey(flightPlanID int64) string {
	return fmt.Sprintf("lock:flightplan:%d", flightPlanID)
}

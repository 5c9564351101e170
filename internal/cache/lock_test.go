package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanLocker_LockAndRelease(t *testing.T) {
	mr, client := newTestClient(t)
	locker := NewPlanLocker(client, 10*time.Second)

	unlock, err := locker.Lock(context.Background(), 5)
	require.NoError(t, err)
	require.NotNil(t, unlock)

	assert.True(t, mr.Exists("lock:flightplan:5"))
	assert.Positive(t, mr.TTL("lock:flightplan:5"))

	unlock()
	assert.False(t, mr.Exists("lock:flightplan:5"))
}

func TestPlanLocker_SecondLockWaits(t *testing.T) {
	_, client := newTestClient(t)
	locker := NewPlanLocker(client, 10*time.Second)

	unlock, err := locker.Lock(context.Background(), 5)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, 5)
	require.Error(t, err)
	// The planner names the plan when it wraps this error.
	assert.NotContains(t, err.Error(), "lock flight plan")

	// Other plans are not blocked.
	unlockOther, err := locker.Lock(context.Background(), 6)
	require.NoError(t, err)
	unlockOther()

	unlock()
	unlockAgain, err := locker.Lock(context.Background(), 5)
	require.NoError(t, err)
	unlockAgain()
}

func TestPlanLocker_ExpiredLockCanBeTaken(t *testing.T) {
	mr, client := newTestClient(t)
	locker := NewPlanLocker(client, time.Second)

	_, err := locker.Lock(context.Background(), 9)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)
	assert.False(t, mr.Exists("lock:flightplan:9"))

	unlock, err := locker.Lock(context.Background(), 9)
	require.NoError(t, err)
	unlock()
}

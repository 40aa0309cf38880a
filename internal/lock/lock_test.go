package lock

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type recordingLocker struct {
	mu       sync.Mutex
	acquired []string
	released []string
	failOn   string
}

func (r *recordingLocker) Lock(_ context.Context, key string) (func(), error) {
	if key == r.failOn {
		return nil, context.DeadlineExceeded
	}
	r.mu.Lock()
	r.acquired = append(r.acquired, key)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		r.released = append(r.released, key)
		r.mu.Unlock()
	}, nil
}

func TestLockAll_SortedAndDeduplicated(t *testing.T) {
	rec := &recordingLocker{}
	release, err := LockAll(context.Background(), rec, []string{"c", "a", "b", "a"})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, rec.acquired)

	release()
	require.Equal(t, []string{"c", "b", "a"}, rec.released)
}

func TestLockAll_ReleasesOnFailure(t *testing.T) {
	rec := &recordingLocker{failOn: "c"}
	_, err := LockAll(context.Background(), rec, []string{"b", "c", "a"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, []string{"a", "b"}, rec.acquired)
	require.Equal(t, []string{"b", "a"}, rec.released)
}

func TestLocal_MutualExclusion(t *testing.T) {
	locker := NewLocal()

	var (
		inside  atomic.Int32
		maxSeen atomic.Int32
		wg      sync.WaitGroup
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(context.Background(), "op-1")
			if err != nil {
				t.Error(err)
				return
			}
			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
			release()
		}()
	}
	wg.Wait()
	require.Equal(t, int32(1), maxSeen.Load())
}

func TestLocal_ContextTimeout(t *testing.T) {
	locker := NewLocal()
	release, err := locker.Lock(context.Background(), "op-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, "op-1")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	other, err := locker.Lock(context.Background(), "op-2")
	require.NoError(t, err)
	other()
}

func TestNop(t *testing.T) {
	release, err := Nop{}.Lock(context.Background(), "x")
	require.NoError(t, err)
	release()
}

func TestRedis_Lock(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()

	locker := NewRedis(client, 2*time.Second, nil)
	key := "test-" + time.Now().Format("150405.000000000")

	release, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(ctx, key)
	require.ErrorIs(t, err, context.DeadlineExceeded)

	release()
	release2, err := locker.Lock(context.Background(), key)
	require.NoError(t, err)
	release2()
}

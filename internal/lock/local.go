package lock

import (
	"context"
	"fmt"

	"github.com/puzpuzpuz/xsync/v4"
)

// Local holds one in-process mutex per key.
type Local struct {
	slots *xsync.Map[string, chan struct{}]
}

// NewLocal creates an in-process locker.
func NewLocal() *Local {
	return &Local{slots: xsync.NewMap[string, chan struct{}]()}
}

// Lock blocks until the key is free or ctx is done.
func (l *Local) Lock(ctx context.Context, key string) (func(), error) {
	slot, _ := l.slots.LoadOrStore(key, make(chan struct{}, 1))
	select {
	case slot <- struct{}{}:
		return func() { <-slot }, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("lock %s: %w", key, ctx.Err())
	}
}

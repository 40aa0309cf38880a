// Package lock serializes distribution decisions per operator so that
// concurrent contact creation cannot push an operator past capacity.
package lock

import (
	"context"
	"slices"
)

// Locker acquires a named exclusive lock. The returned function releases it.
type Locker interface {
	Lock(ctx context.Context, key string) (release func(), err error)
}

// LockAll acquires every key in ascending order and returns a function that
// releases them in reverse. Duplicate keys are locked once. If any key cannot
// be acquired, already held keys are released before returning the error.
func LockAll(ctx context.Context, locker Locker, keys []string) (func(), error) {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	releases := make([]func(), 0, len(sorted))
	releaseAll := func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for _, key := range sorted {
		release, err := locker.Lock(ctx, key)
		if err != nil {
			releaseAll()
			return nil, err
		}
		releases = append(releases, release)
	}
	return releaseAll, nil
}

// Nop never blocks.
type Nop struct{}

// Lock returns immediately.
func (Nop) Lock(context.Context, string) (func(), error) {
	return func() {}, nil
}

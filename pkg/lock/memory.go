package lock

import (
	"context"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryLock is a single-process ProjectLock used when Redis is not reachable.
type MemoryLock struct {
	cache *cache.Cache
	ttl   time.Duration
}

func NewMemoryLock(ttl time.Duration) *MemoryLock {
	return &MemoryLock{
		cache: cache.New(ttl, 10*time.Minute),
		ttl:   ttl,
	}
}

func (l *MemoryLock) Acquire(ctx context.Context, projectId string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := key(projectId)
	// Add fails when a live entry exists
	if err := l.cache.Add(k, struct{}{}, l.ttl); err != nil {
		return nil, ErrBusy
	}

	var once sync.Once
	return func() {
		once.Do(func() { l.cache.Delete(k) })
	}, nil
}

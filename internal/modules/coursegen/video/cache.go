package video

import (
	"context"
	"time"
)

// JSONStore is the key/value surface of the redis cache.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
}

type storeCache struct {
	store JSONStore
}

// NewStoreCache adapts a JSON store to Cache. A nil store yields a nil Cache.
func NewStoreCache(store JSONStore) Cache {
	if store == nil {
		return nil
	}
	return &storeCache{store: store}
}

func (c *storeCache) Get(ctx context.Context, key string) (*Candidate, error) {
	var cand Candidate
	ok, err := c.store.GetJSON(ctx, key, &cand)
	if err != nil || !ok {
		return nil, err
	}
	return &cand, nil
}

func (c *storeCache) Set(ctx context.Context, key string, cand *Candidate, ttl time.Duration) error {
	if cand == nil {
		return nil
	}
	return c.store.SetJSON(ctx, key, cand, ttl)
}

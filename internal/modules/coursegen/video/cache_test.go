package video

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type mapStore map[string][]byte

func (m mapStore) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := m[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (m mapStore) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m[key] = raw
	return nil
}

func TestStoreCache(t *testing.T) {
	if NewStoreCache(nil) != nil {
		t.Fatalf("nil store: want nil cache")
	}
	c := NewStoreCache(mapStore{})
	ctx := context.Background()
	if got, err := c.Get(ctx, "k"); got != nil || err != nil {
		t.Fatalf("miss: want nil,nil got %v,%v", got, err)
	}
	in := &Candidate{VideoID: "abc", URL: WatchURL("abc"), RelevanceScore: 0.85}
	if err := c.Set(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got == nil || got.URL != in.URL {
		t.Fatalf("hit: want=%+v got=%+v err=%v", in, got, err)
	}
}

package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

func TestNewCacheWithoutAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	c, err := NewCache(logger.NewNop())
	if err != nil || c != nil {
		t.Fatalf("want nil,nil got %v,%v", c, err)
	}
}

func TestCacheRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	c, err := NewCacheWithAddr(logger.NewNop(), addr)
	if err != nil {
		t.Fatalf("NewCacheWithAddr: %v", err)
	}
	defer c.Close()

	type payload struct {
		URL   string  `json:"url"`
		Score float64 `json:"score"`
	}
	ctx := context.Background()
	key := "coursegen:test:" + uuid.NewString()

	var got payload
	if ok, err := c.GetJSON(ctx, key, &got); err != nil || ok {
		t.Fatalf("miss: want false,nil got %v,%v", ok, err)
	}
	in := payload{URL: "https://www.youtube.com/watch?v=abc", Score: 0.85}
	if err := c.SetJSON(ctx, key, in, time.Minute); err != nil {
		t.Fatalf("SetJSON: %v", err)
	}
	ok, err := c.GetJSON(ctx, key, &got)
	if err != nil || !ok {
		t.Fatalf("GetJSON: %v %v", ok, err)
	}
	if got != in {
		t.Fatalf("cached: want=%+v got=%+v", in, got)
	}
}

package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/coursegen-backend/internal/platform/envutil"
	"github.com/yungbote/coursegen-backend/internal/platform/logger"
)

// JSONCache stores JSON-encoded values under string keys.
type JSONCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error
	Close() error
}

type jsonCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewCache connects to REDIS_ADDR. It returns nil, nil when the address is unset.
func NewCache(log *logger.Logger) (JSONCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(envutil.String("REDIS_ADDR", ""))
	if addr == "" {
		log.Info("REDIS_ADDR not set; video search results will not be cached")
		return nil, nil
	}
	return NewCacheWithAddr(log, addr)
}

func NewCacheWithAddr(log *logger.Logger, addr string) (JSONCache, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &jsonCache{
		log: log.With("client", "RedisCache"),
		rdb: rdb,
	}, nil
}

// GetJSON reports false on a miss. A payload that no longer decodes counts as a miss.
func (c *jsonCache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis get: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("bad cached payload", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

func (c *jsonCache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *jsonCache) Close() error {
	return c.rdb.Close()
}

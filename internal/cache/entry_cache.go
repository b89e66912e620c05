package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	dom "github.com/andradm/Journal-project/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyFeed         = "entries:feed"
	keyStreamPrefix = "entries:stream:"
)

// EntryCache caches the global feed and per-user streams in Redis.
type EntryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewEntryCache returns a new EntryCache.
func NewEntryCache(rdb *redis.Client, ttl time.Duration) *EntryCache {
	return &EntryCache{rdb: rdb, ttl: ttl}
}

// GetFeed returns the cached feed or nil if miss.
func (c *EntryCache) GetFeed(ctx context.Context) ([]dom.Entry, error) {
	return c.get(ctx, keyFeed)
}

// SetFeed stores the feed in cache.
func (c *EntryCache) SetFeed(ctx context.Context, list []dom.Entry) error {
	return c.set(ctx, keyFeed, list)
}

// GetStream returns the cached stream for the user or nil if miss.
func (c *EntryCache) GetStream(ctx context.Context, userID int64) ([]dom.Entry, error) {
	return c.get(ctx, streamKey(userID))
}

// SetStream stores the user's stream in cache.
func (c *EntryCache) SetStream(ctx context.Context, userID int64, list []dom.Entry) error {
	return c.set(ctx, streamKey(userID), list)
}

// Invalidate removes the feed and the user's stream (cache invalidation on write).
func (c *EntryCache) Invalidate(ctx context.Context, userID int64) error {
	return c.rdb.Del(ctx, keyFeed, streamKey(userID)).Err()
}

func (c *EntryCache) get(ctx context.Context, key string) ([]dom.Entry, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Entry
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *EntryCache) set(ctx context.Context, key string, list []dom.Entry) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}

func streamKey(userID int64) string {
	return keyStreamPrefix + strconv.FormatInt(userID, 10)
}

// Package cache provides a Redis-backed query-result cache for the searcher
// service. Concurrent identical queries collapse into a single computation
// via singleflight; any cache failure degrades to computing the result
// directly.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gutensearch/gutensearch/internal/search"
	"github.com/gutensearch/gutensearch/pkg/logger"
	pkgredis "github.com/gutensearch/gutensearch/pkg/redis"
)

const keyPrefix = "gutensearch:query:"

// Entry is the cached payload for one query.
type Entry struct {
	Results []search.RankedDoc `json:"results"`
}

// QueryCache caches ranked results keyed by the full query shape.
type QueryCache struct {
	client *pkgredis.Client
	ttl    time.Duration
	group  singleflight.Group
	logger *slog.Logger
}

// New creates a QueryCache with the given TTL.
func New(client *pkgredis.Client, ttl time.Duration) *QueryCache {
	return &QueryCache{
		client: client,
		ttl:    ttl,
		logger: logger.WithComponent("query-cache"),
	}
}

// Key derives a stable cache key from everything that shapes a result set.
func Key(query, emotionName string, w search.Weights, limit int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%g|%g|%d|%d",
		query, emotionName, w.Text, w.Emotion, w.MinCount, limit)))
	return keyPrefix + fmt.Sprintf("%x", sum[:16])
}

// GetOrCompute returns the cached entry for key, or runs compute exactly
// once per in-flight key and stores the result. The boolean reports whether
// the entry came from the cache.
func (c *QueryCache) GetOrCompute(ctx context.Context, key string, compute func() (Entry, error)) (Entry, bool, error) {
	if entry, ok := c.lookup(ctx, key); ok {
		return entry, true, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if entry, ok := c.lookup(ctx, key); ok {
			return entry, nil
		}
		entry, err := compute()
		if err != nil {
			return Entry{}, err
		}
		c.store(ctx, key, entry)
		return entry, nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return v.(Entry), false, nil
}

func (c *QueryCache) lookup(ctx context.Context, key string) (Entry, bool) {
	data, err := c.client.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		return Entry{}, false
	}
	var entry Entry
	if err := json.Unmarshal([]byte(data), &entry); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		return Entry{}, false
	}
	return entry, true
}

func (c *QueryCache) store(ctx context.Context, key string, entry Entry) {
	data, err := json.Marshal(entry)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// Package cache holds short-lived read-through caches in front of slow
// lookups. A cache miss is (nil, nil); callers treat cache errors as misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/receivable"
	"github.com/redis/go-redis/v9"
)

const defaultReceivableKeyPrefix = "qd:receivable:"

// RedisReceivableCache stores payment links as JSON with a TTL
type RedisReceivableCache struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// NewRedisReceivableCache creates a cache over an existing client
func NewRedisReceivableCache(client redis.Cmdable, ttl time.Duration) *RedisReceivableCache {
	return &RedisReceivableCache{
		client:    client,
		keyPrefix: defaultReceivableKeyPrefix,
		ttl:       ttl,
	}
}

// Key returns the cache key of a sales note's link
func (c *RedisReceivableCache) Key(tenantID, salesNoteID uuid.UUID) string {
	return c.keyPrefix + tenantID.String() + ":" + salesNoteID.String()
}

// Get returns the cached link, or nil on a miss
func (c *RedisReceivableCache) Get(ctx context.Context, tenantID, salesNoteID uuid.UUID) (*receivable.Link, error) {
	raw, err := c.client.Get(ctx, c.Key(tenantID, salesNoteID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read receivable link: %w", err)
	}
	var link receivable.Link
	if err := json.Unmarshal(raw, &link); err != nil {
		return nil, fmt.Errorf("failed to decode receivable link: %w", err)
	}
	return &link, nil
}

// Set stores the link until the TTL expires
func (c *RedisReceivableCache) Set(ctx context.Context, tenantID uuid.UUID, link receivable.Link) error {
	raw, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to encode receivable link: %w", err)
	}
	if err := c.client.Set(ctx, c.Key(tenantID, link.SalesNoteID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write receivable link: %w", err)
	}
	return nil
}

var _ receivable.Cache = (*RedisReceivableCache)(nil)

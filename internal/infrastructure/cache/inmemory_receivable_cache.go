package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quotedesk/backend/internal/domain/receivable"
)

type linkKey struct {
	tenantID    uuid.UUID
	salesNoteID uuid.UUID
}

type linkEntry struct {
	link      receivable.Link
	expiresAt time.Time
}

// InMemoryReceivableCache is the single-instance fallback used when Redis
// is disabled. Expired entries are dropped on read.
type InMemoryReceivableCache struct {
	mu      sync.RWMutex
	entries map[linkKey]linkEntry
	ttl     time.Duration
	clock   func() time.Time
}

// NewInMemoryReceivableCache creates an empty cache
func NewInMemoryReceivableCache(ttl time.Duration) *InMemoryReceivableCache {
	return &InMemoryReceivableCache{
		entries: make(map[linkKey]linkEntry),
		ttl:     ttl,
		clock:   time.Now,
	}
}

// Get returns the cached link, or nil on a miss
func (c *InMemoryReceivableCache) Get(_ context.Context, tenantID, salesNoteID uuid.UUID) (*receivable.Link, error) {
	key := linkKey{tenantID, salesNoteID}
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !c.clock().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, nil
	}
	link := e.link
	return &link, nil
}

// Set stores the link until the TTL expires
func (c *InMemoryReceivableCache) Set(_ context.Context, tenantID uuid.UUID, link receivable.Link) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[linkKey{tenantID, link.SalesNoteID}] = linkEntry{
		link:      link,
		expiresAt: c.clock().Add(c.ttl),
	}
	return nil
}

var _ receivable.Cache = (*InMemoryReceivableCache)(nil)

package dictionary

import (
	"context"
	"sync"
	"time"
)

// CachedClient keeps successful lookups for a fixed time. Failures are not cached
// so a word whose lookup failed is retried on its next card.
type CachedClient struct {
	next Client
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result  *LookupResult
	expires time.Time
}

// NewCachedClient wraps next with a TTL cache
func NewCachedClient(next Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		next:    next,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CachedClient) Name() string {
	return c.next.Name() + "+cache"
}

// Lookup returns the cached result for word or asks the wrapped client
func (c *CachedClient) Lookup(ctx context.Context, word string) (*LookupResult, error) {
	now := c.now()

	c.mu.Lock()
	entry, ok := c.entries[word]
	c.mu.Unlock()
	if ok && now.Before(entry.expires) {
		return entry.result, nil
	}

	result, err := c.next.Lookup(ctx, word)
	if err != nil {
		return nil, err
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[word] = cacheEntry{result: result, expires: now.Add(c.ttl)}
		c.mu.Unlock()
	}
	return result, nil
}

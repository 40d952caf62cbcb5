package fetch

import (
	"context"
	"sync"
	"time"
)

// DefaultCacheTTL is how long a fetched page is reused
const DefaultCacheTTL = 15 * time.Minute

// Getter fetches a page by URL
type Getter interface {
	Fetch(ctx context.Context, urlStr string) (*Result, error)
}

type cacheEntry struct {
	result    Result
	fetchedAt time.Time
}

// CachedFetcher reuses successful fetches for a TTL. Failures are not cached.
type CachedFetcher struct {
	inner Getter
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCachedFetcher wraps inner. A non-positive ttl uses DefaultCacheTTL.
func NewCachedFetcher(inner Getter, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedFetcher{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch implements Getter
func (c *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*Result, error) {
	if res, ok := c.lookup(urlStr); ok {
		return res, nil
	}

	res, err := c.inner.Fetch(ctx, urlStr)
	if err != nil {
		return res, err
	}

	c.mu.Lock()
	c.entries[urlStr] = cacheEntry{result: *res, fetchedAt: c.now()}
	c.mu.Unlock()

	out := *res
	return &out, nil
}

func (c *CachedFetcher) lookup(urlStr string) (*Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[urlStr]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.fetchedAt) >= c.ttl {
		delete(c.entries, urlStr)
		return nil, false
	}
	out := entry.result
	return &out, true
}

// Invalidate drops any cached copy of urlStr
func (c *CachedFetcher) Invalidate(urlStr string) {
	c.mu.Lock()
	delete(c.entries, urlStr)
	c.mu.Unlock()
}

var (
	_ Getter = (*Fetcher)(nil)
	_ Getter = (*CachedFetcher)(nil)
)

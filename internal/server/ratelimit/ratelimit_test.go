package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(cfg *Config) (*Limiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)}
	cfg.CleanupInterval = 0
	l := NewLimiter(cfg)
	l.now = clock.now
	return l, clock
}

func TestTokenBucket(t *testing.T) {
	start := time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC)
	b := newTokenBucket(3, 1, start)

	for i := 0; i < 3; i++ {
		assert.True(t, b.take(start), "request %d", i+1)
	}
	assert.False(t, b.take(start))
	assert.Equal(t, time.Second, b.untilNext())

	assert.True(t, b.take(start.Add(1100*time.Millisecond)))
	assert.False(t, b.take(start.Add(1100*time.Millisecond)))

	b.refill(start.Add(time.Hour))
	assert.Equal(t, 3.0, b.tokens, "refill is capped at capacity")
}

func TestLimiter_DefaultLimit(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 5, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := l.Allow("10.0.0.1", "/resumes", "GET")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 5, info.Limit)
		assert.Equal(t, 4-i, info.Remaining)
	}

	allowed, info := l.Allow("10.0.0.1", "/resumes/abc", "GET")
	assert.False(t, allowed, "default bucket is shared across paths")
	assert.Equal(t, 12*time.Second, info.RetryAfter)

	allowed, _ = l.Allow("10.0.0.2", "/resumes", "GET")
	assert.True(t, allowed, "clients are independent")

	clock.advance(12 * time.Second)
	allowed, _ = l.Allow("10.0.0.1", "/resumes", "GET")
	assert.True(t, allowed)
}

func TestLimiter_EndpointLimit(t *testing.T) {
	l, _ := newTestLimiter(ConfigFor(60))
	defer l.Stop()

	allowed := 0
	for i := 0; i < 10; i++ {
		if ok, _ := l.Allow("c", "/drafts", "POST"); ok {
			allowed++
		}
	}
	assert.Equal(t, 5, allowed, "burst is half of a sixth of the budget")

	ok, _ := l.Allow("c", "/drafts", "GET")
	assert.True(t, ok, "reads use the default bucket")
}

func TestLimiter_DisabledAndWhitelist(t *testing.T) {
	l := NewLimiter(ConfigFor(0))
	defer l.Stop()
	for i := 0; i < 100; i++ {
		ok, _ := l.Allow("c", "/drafts", "POST")
		require.True(t, ok)
	}

	cfg := ConfigFor(1)
	cfg.Whitelist["trusted"] = true
	wl, _ := newTestLimiter(cfg)
	defer wl.Stop()
	for i := 0; i < 10; i++ {
		ok, _ := wl.Allow("trusted", "/resumes", "GET")
		require.True(t, ok)
	}
}

func TestLimiter_HealthIsUnlimited(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		ok, _ := l.Allow("c", "/health", "GET")
		require.True(t, ok)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	l, clock := newTestLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, IdleTTL: time.Minute})
	defer l.Stop()

	l.Allow("c", "/resumes", "GET")
	require.Len(t, l.buckets, 1)

	clock.advance(2 * time.Minute)
	l.cleanup()
	assert.Empty(t, l.buckets)
}

func TestLimiter_Concurrent(t *testing.T) {
	l, _ := newTestLimiter(&Config{Enabled: true, DefaultLimit: 50, DefaultWindow: time.Minute})
	defer l.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := l.Allow("c", "/resumes", "GET"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, allowed)
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/drafts", Method: "POST", Limit: 1},
		{Path: "/drafts/", Method: "PUT", Limit: 2},
	}

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/drafts", "POST", 1, false},
		{"/drafts/abc/suggestions/1", "PUT", 2, false},
		{"/drafts", "GET", 0, true},
		{"/health", "GET", 0, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s %s", tt.method, tt.path), func(t *testing.T) {
			got := MatchEndpoint(tt.path, tt.method, configs)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLimit, got.Limit)
		})
	}
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(ConfigFor(60))
	l.Stop()
	l.Stop()
}

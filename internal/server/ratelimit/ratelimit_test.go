package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestTokenBucket(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	bucket := newTokenBucket(10, 1.0, start)

	for i := 0; i < 10; i++ {
		allowed, remaining, _ := bucket.take(start)
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 9-i, remaining)
	}

	allowed, _, reset := bucket.take(start)
	assert.False(t, allowed)
	assert.Equal(t, start.Add(10*time.Second), reset)

	allowed, _, _ = bucket.take(start.Add(1100 * time.Millisecond))
	assert.True(t, allowed, "one token refilled")
	allowed, _, _ = bucket.take(start.Add(1100 * time.Millisecond))
	assert.False(t, allowed)

	allowed, remaining, _ := bucket.take(start.Add(time.Hour))
	assert.True(t, allowed)
	assert.Equal(t, 9, remaining, "refill is capped at capacity")
}

func TestLimiter_TenPerMinute(t *testing.T) {
	clock := newFakeClock()
	limiter := newLimiter(NewConfig(10), clock.Now)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/process", "POST")
		require.True(t, allowed, "request %d", i+1)
		assert.Equal(t, 10, info.Limit)
	}

	allowed, info := limiter.Allow("10.0.0.1", "/process", "POST")
	assert.False(t, allowed)
	assert.Equal(t, 0, info.Remaining)
	assert.Equal(t, 6*time.Second, info.RetryAfter)

	allowed, _ = limiter.Allow("10.0.0.2", "/process", "POST")
	assert.True(t, allowed, "other clients have their own bucket")

	allowed, _ = limiter.Allow("10.0.0.1", "/validate", "POST")
	assert.True(t, allowed, "each endpoint has its own bucket")

	clock.Advance(6 * time.Second)
	allowed, _ = limiter.Allow("10.0.0.1", "/process", "POST")
	assert.True(t, allowed)
}

func TestLimiter_UnlimitedRequests(t *testing.T) {
	limiter := newLimiter(NewConfig(1), newFakeClock().Now)
	defer limiter.Stop()

	tests := []struct {
		path   string
		method string
	}{
		{path: "/health", method: "GET"},
		{path: "/reports", method: "GET"},
		{path: "/template", method: "GET"},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			for i := 0; i < 5; i++ {
				allowed, info := limiter.Allow("10.0.0.1", tt.path, tt.method)
				assert.True(t, allowed)
				assert.Equal(t, 0, info.Limit)
			}
		})
	}
	assert.Equal(t, 0, limiter.size())
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(NewConfig(0))
	defer limiter.Stop()

	for i := 0; i < 20; i++ {
		allowed, _ := limiter.Allow("10.0.0.1", "/process", "POST")
		assert.True(t, allowed)
	}
}

func TestLimiter_WhitelistAndBlacklist(t *testing.T) {
	config := NewConfig(1)
	config.Whitelist = ParseIPList("10.0.0.9, ")
	config.Blacklist = ParseIPList("10.0.0.66")
	limiter := newLimiter(config, newFakeClock().Now)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("10.0.0.9", "/process", "POST")
		assert.True(t, allowed)
	}
	allowed, _ := limiter.Allow("10.0.0.66", "/health", "GET")
	assert.False(t, allowed)
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	clock := newFakeClock()
	limiter := newLimiter(NewConfig(10), clock.Now)
	defer limiter.Stop()

	limiter.Allow("old", "/process", "POST")
	clock.Advance(2 * time.Hour)
	limiter.Allow("new", "/process", "POST")
	require.Equal(t, 2, limiter.size())

	limiter.cleanupBuckets(clock.Now().Add(-time.Hour))
	assert.Equal(t, 1, limiter.size())
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(NewConfig(50))
	defer limiter.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowedCount := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("10.0.0.1", "/validate", "POST"); ok {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, allowedCount, 50)
	assert.LessOrEqual(t, allowedCount, 51, "at most one token refills during the test")
}

func TestLimiter_PathVariantsShareBucket(t *testing.T) {
	limiter := newLimiter(NewConfig(2), newFakeClock().Now)
	defer limiter.Stop()

	allowed, _ := limiter.Allow("10.0.0.1", "/validate", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "/validate/", "POST")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("10.0.0.1", "//validate", "post")
	assert.False(t, allowed)

	assert.Equal(t, Key("10.0.0.1", "/validate", "POST"), Key("10.0.0.1", "/x/../validate/", "post"))
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	limiter := NewLimiter(NewConfig(10))
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := append(DefaultEndpointConfigs(10), EndpointConfig{Path: "/reports/", Method: "DELETE", Limit: 3, Window: time.Minute})

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{path: "/process", method: "POST", wantLimit: 10},
		{path: "/validate", method: "POST", wantLimit: 10},
		{path: "/reports/abc", method: "DELETE", wantLimit: 3},
		{path: "/health", method: "GET", wantLimit: 0},
		{path: "/process", method: "GET", wantNil: true},
		{path: "/unknown", method: "POST", wantNil: true},
		{path: "/validate/", method: "POST", wantLimit: 10},
		{path: "//process", method: "post", wantLimit: 10},
		{path: "/reports/../validate", method: "POST", wantLimit: 10},
		{path: "/reports", method: "DELETE", wantNil: true},
		{path: "/health/", method: "GET", wantLimit: 0},
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

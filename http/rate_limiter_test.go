package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, capacity int, refill time.Duration) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(capacity, refill)
	t.Cleanup(rl.Stop)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiter_AllowsUpToCapacity(t *testing.T) {
	rl, _ := newTestLimiter(t, 3, time.Minute)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "clients have separate buckets")
}

func TestRateLimiter_Refills(t *testing.T) {
	rl, now := newTestLimiter(t, 1, time.Minute)

	require.True(t, rl.Allow("a"))
	wait, ok := rl.allow("a")
	require.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	*now = now.Add(30 * time.Second)
	wait, ok = rl.allow("a")
	require.False(t, ok)
	assert.Equal(t, 30*time.Second, wait)

	*now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("a"))
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	rl, now := newTestLimiter(t, 2, time.Minute)

	rl.Allow("old")
	*now = now.Add(2 * time.Hour)
	rl.Allow("new")

	rl.cleanup()
	assert.Equal(t, 1, rl.clientCount())
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Second)
	rl.Stop()
	rl.Stop()
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 1, time.Minute)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RateLimitMiddleware(rl, nil, next)

	req := httptest.NewRequest(http.MethodPost, "/prequal", nil)
	req.RemoteAddr = "192.0.2.7:5000"

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":429,"message":"rate limit exceeded"}`, w.Body.String())
}

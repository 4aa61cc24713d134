package ratelimiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bootstrap/pkg/clientip"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/ratelimiter"
)

func newBucket(t *testing.T, cfg ratelimiter.Config) *ratelimiter.Bucket {
	t.Helper()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(func() { _ = store.Close() })
	b, err := ratelimiter.NewBucket(store, cfg)
	require.NoError(t, err)
	return b
}

func TestNewBucketValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  ratelimiter.Config
	}{
		{"zero capacity", ratelimiter.Config{RefillRate: 1, RefillInterval: time.Second}},
		{"zero rate", ratelimiter.Config{Capacity: 1, RefillInterval: time.Second}},
		{"zero interval", ratelimiter.Config{Capacity: 1, RefillRate: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0)), tt.cfg)
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
		})
	}
}

func TestBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("burst then reject", func(t *testing.T) {
		t.Parallel()
		b := newBucket(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Hour})

		for want := 1; want >= 0; want-- {
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.True(t, res.Allowed())
			assert.Equal(t, want, res.Remaining)
		}

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.False(t, res.Allowed())
		assert.Positive(t, res.RetryAfter())

		res, err = b.Allow(ctx, "other")
		require.NoError(t, err)
		assert.True(t, res.Allowed(), "keys are independent")
	})

	t.Run("rejections do not drain the bucket", func(t *testing.T) {
		t.Parallel()
		b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: 50 * time.Millisecond})

		_, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		for range 5 {
			res, err := b.Allow(ctx, "k")
			require.NoError(t, err)
			assert.False(t, res.Allowed())
		}

		require.Eventually(t, func() bool {
			res, err := b.Allow(ctx, "k")
			return err == nil && res.Allowed()
		}, time.Second, 20*time.Millisecond)
	})

	t.Run("reset", func(t *testing.T) {
		t.Parallel()
		b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
		_, _ = b.Allow(ctx, "k")
		require.NoError(t, b.Reset(ctx, "k"))

		res, err := b.Allow(ctx, "k")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	})

	t.Run("invalid token count", func(t *testing.T) {
		t.Parallel()
		b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
		_, err := b.AllowN(ctx, "k", 0)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := errorpage.New().Middleware(
		clientip.New().Middleware(ratelimiter.Middleware(b, ratelimiter.ByClientIP)(ok)),
	)

	do := func(method, remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(method, "/", nil)
		r.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	w := do(http.MethodPost, "192.0.2.1:1000")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(http.MethodPost, "192.0.2.1:2000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusNoContent, do(http.MethodGet, "192.0.2.1:3000").Code, "safe methods pass")
	assert.Equal(t, http.StatusNoContent, do(http.MethodPost, "192.0.2.2:1000").Code, "other clients pass")
}

func TestMiddlewareAllMethods(t *testing.T) {
	t.Parallel()

	b := newBucket(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	h := ratelimiter.Middleware(b, func(*http.Request) string { return "all" }, ratelimiter.WithMethods())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }),
	)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code, "plain text fallback without an error handler")
}

func TestMemoryStoreSweep(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(10 * time.Millisecond))
	t.Cleanup(func() { _ = store.Close() })

	_, _, err := store.ConsumeTokens(context.Background(), "k", 1, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())
}

func TestMemoryStoreSweepWaitsForRefill(t *testing.T) {
	t.Parallel()
	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(5*time.Millisecond),
		ratelimiter.WithStaleAfter(time.Millisecond),
	)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	slow := ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour}
	fast := ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Millisecond}

	remaining, _, err := store.ConsumeTokens(ctx, "slow", 1, slow)
	require.NoError(t, err)
	require.Zero(t, remaining)
	_, _, err = store.ConsumeTokens(ctx, "fast", 1, fast)
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	require.Eventually(t, func() bool { return store.Len() == 1 }, time.Second, 5*time.Millisecond,
		"the refilled bucket is swept")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, 1, store.Len())

	remaining, _, err = store.ConsumeTokens(ctx, "slow", 1, slow)
	require.NoError(t, err)
	assert.Negative(t, remaining, "an exhausted bucket stays exhausted after idling")
}

package ratelimiter

import (
	"errors"
	"math"
	"net"
	"net/http"
	"slices"
	"strconv"

	"github.com/dmitrymomot/bootstrap/pkg/clientip"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
)

// KeyFunc extracts the bucket key of a request; "" skips limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys requests on the address stored by clientip.Resolver,
// falling back to the peer address.
func ByClientIP(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type middlewareConfig struct {
	methods []string
}

type MiddlewareOption func(*middlewareConfig)

// WithMethods limits only requests with these methods. Without methods every
// request is limited.
func WithMethods(methods ...string) MiddlewareOption {
	return func(c *middlewareConfig) { c.methods = methods }
}

// Middleware consumes one token per matching request and rejects requests
// once the bucket is empty.
func Middleware(b *Bucket, key KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	cfg := middlewareConfig{
		methods: []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(cfg.methods) > 0 && !slices.Contains(cfg.methods, r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := b.Allow(r.Context(), k)
			if err != nil {
				errorpage.Report(w, r, errors.Join(errorpage.ErrInternal, err))
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, res.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter().Seconds()))))
				errorpage.Report(w, r, errorpage.ErrTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

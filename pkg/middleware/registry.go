package middleware

import (
	"net/http"
	"sync"
)

// Registry is an ordered, growable middleware list mounted as a single
// middleware. Additions apply to requests that start after them.
type Registry struct {
	mu  sync.RWMutex
	mws []func(http.Handler) http.Handler
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Use appends middleware in order. Nil entries are ignored.
func (r *Registry) Use(mws ...func(http.Handler) http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, mw := range mws {
		if mw != nil {
			r.mws = append(r.mws, mw)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mws)
}

// Middleware runs the registered middleware, first added outermost.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		r.mu.RLock()
		mws := r.mws
		r.mu.RUnlock()

		h := next
		for i := len(mws) - 1; i >= 0; i-- {
			h = mws[i](h)
		}
		h.ServeHTTP(w, req)
	})
}

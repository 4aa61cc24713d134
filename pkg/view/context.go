package view

import (
	"context"
	"maps"
	"net/http"
)

// TranslateFunc resolves a translation key for the language bound to ctx.
type TranslateFunc func(ctx context.Context, key string, args ...string) string

// Locals are values exposed to every rendered page of a request.
type Locals map[string]any

type (
	translatorKey struct{}
	localsKey     struct{}
)

func WithTranslator(ctx context.Context, fn TranslateFunc) context.Context {
	return context.WithValue(ctx, translatorKey{}, fn)
}

// T translates key with the request translator, returning key itself when
// no translator is installed or the key is missing.
func T(ctx context.Context, key string, args ...string) string {
	if ctx == nil {
		return key
	}
	if fn, ok := ctx.Value(translatorKey{}).(TranslateFunc); ok && fn != nil {
		return fn(ctx, key, args...)
	}
	return key
}

// WithLocals returns a context whose locals are the current ones plus kv.
// The stored map is never mutated in place.
func WithLocals(ctx context.Context, kv Locals) context.Context {
	next := make(Locals, len(kv))
	maps.Copy(next, LocalsFrom(ctx))
	maps.Copy(next, kv)
	return context.WithValue(ctx, localsKey{}, next)
}

// LocalsFrom returns the request locals, never nil.
func LocalsFrom(ctx context.Context) Locals {
	if ctx != nil {
		if l, ok := ctx.Value(localsKey{}).(Locals); ok {
			return l
		}
	}
	return Locals{}
}

// Middleware installs the translator and the static locals on every request.
func Middleware(translate TranslateFunc, locals Locals) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if translate != nil {
				ctx = WithTranslator(ctx, translate)
			}
			if len(locals) > 0 {
				ctx = WithLocals(ctx, locals)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

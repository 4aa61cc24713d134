package errorpage

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/bootstrap/pkg/logger"
	"github.com/dmitrymomot/bootstrap/pkg/requestid"
	"github.com/dmitrymomot/bootstrap/pkg/view"
)

// HandlerFunc is an http handler that may fail. A returned error is passed to
// the Handler installed in the request context.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

func (f HandlerFunc) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := f(w, r); err != nil {
		Report(w, r, err)
	}
}

// Handler renders error pages for failed requests.
type Handler struct {
	log    *slog.Logger
	debug  bool
	layout view.Layout
	page   func(Params) templ.Component
}

type Option func(*Handler)

func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// WithDebug exposes error messages and panic stacks in rendered pages.
func WithDebug(debug bool) Option {
	return func(h *Handler) { h.debug = debug }
}

func WithLayout(l view.Layout) Option {
	return func(h *Handler) {
		if l != nil {
			h.layout = l
		}
	}
}

func WithPage(page func(Params) templ.Component) Option {
	return func(h *Handler) {
		if page != nil {
			h.page = page
		}
	}
}

func New(opts ...Option) *Handler {
	h := &Handler{
		log:    logger.Noop(),
		layout: view.Bare,
		page:   DefaultPage,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle logs err and writes the matching error page.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	status := StatusCode(err)

	level := slog.LevelError
	if status < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	h.log.LogAttrs(ctx, level, "request error",
		logger.Error(err),
		logger.Status(status),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Component("errorpage"),
	)

	params := Params{
		StatusCode: status,
		Title:      translate(ctx, "errors."+key(err)+".title", http.StatusText(status)),
		Message:    translate(ctx, "errors."+key(err)+".message", ""),
		RequestID:  requestid.FromContext(ctx),
	}
	if h.debug {
		params.Detail = err.Error()
	}

	page := view.Page(h.layout, params.Title, h.page(params))
	if renderErr := view.Render(w, r, status, page); renderErr != nil {
		h.log.ErrorContext(ctx, "failed to render error page", logger.Error(renderErr))
		http.Error(w, http.StatusText(status), status)
	}
}

// NotFound is the handler for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r, ErrNotFound)
}

func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.Handle(w, r, ErrMethodNotAllowed)
}

// Middleware installs h as the request error sink and turns panics into 500 pages.
func (h *Handler) Middleware(next http.Handler) http.Handler {
	return h.Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithHandler(r.Context(), h)))
	}))
}

// Recover turns panics in next into 500 pages rendered with the request
// context seen at this point of the chain.
func (h *Handler) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer h.recoverPanic(w, r)
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) recoverPanic(w http.ResponseWriter, r *http.Request) {
	rec := recover()
	if rec == nil {
		return
	}
	if rec == http.ErrAbortHandler {
		panic(rec)
	}
	err := fmt.Errorf("panic: %v", rec)
	if h.debug {
		err = fmt.Errorf("panic: %v\n%s", rec, debug.Stack())
	}
	h.Handle(w, r, err)
}

type handlerKey struct{}

func WithHandler(ctx context.Context, h *Handler) context.Context {
	return context.WithValue(ctx, handlerKey{}, h)
}

// Report forwards err to the Handler in the request context, falling back to
// a plain text response.
func Report(w http.ResponseWriter, r *http.Request, err error) {
	if h, ok := r.Context().Value(handlerKey{}).(*Handler); ok && h != nil {
		h.Handle(w, r, err)
		return
	}
	status := StatusCode(err)
	http.Error(w, http.StatusText(status), status)
}

func translate(ctx context.Context, k, fallback string) string {
	if v := view.T(ctx, k); v != k {
		return v
	}
	return fallback
}

package consent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrymomot/bootstrap/pkg/cookie"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/logger"
	"github.com/dmitrymomot/bootstrap/pkg/view"
)

const (
	// CookieName holds the signed consent preferences.
	CookieName = "cookie_consent"
	// Path is where the preferences form posts to.
	Path = "/cookies"
	// Field is the form field carrying "yes" or "no".
	Field = "analytics"
)

const (
	localBanner  = "cookieBanner"
	localConsent = "cookieConsent"
)

// Preferences is the recorded choice of a visitor.
type Preferences struct {
	Analytics bool      `json:"analytics"`
	DecidedAt time.Time `json:"decided_at"`
}

// Decided reports whether the visitor made a choice.
func (p Preferences) Decided() bool { return !p.DecidedAt.IsZero() }

type contextKey struct{}

// FromContext returns the preferences read by Middleware.
func FromContext(ctx context.Context) Preferences {
	p, _ := ctx.Value(contextKey{}).(Preferences)
	return p
}

// Manager reads and stores consent preferences in a signed cookie.
type Manager struct {
	cookies *cookie.Manager
	maxAge  time.Duration
	secure  bool
	log     *slog.Logger
}

type Option func(*Manager)

func WithMaxAge(d time.Duration) Option {
	return func(m *Manager) { m.maxAge = d }
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.secure = secure }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

func New(cookies *cookie.Manager, opts ...Option) *Manager {
	m := &Manager{
		cookies: cookies,
		maxAge:  365 * 24 * time.Hour,
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the stored preferences. A missing or tampered cookie counts as
// undecided.
func (m *Manager) Get(r *http.Request) Preferences {
	var p Preferences
	if err := m.cookies.GetJSON(r, CookieName, &p); err != nil {
		if !errors.Is(err, cookie.ErrCookieNotFound) {
			m.log.DebugContext(r.Context(), "invalid consent cookie", logger.Error(err), logger.Component("consent"))
		}
		return Preferences{}
	}
	return p
}

func (m *Manager) Save(w http.ResponseWriter, p Preferences) error {
	return m.cookies.SetJSON(w, CookieName, p,
		cookie.WithMaxAge(int(m.maxAge.Seconds())),
		cookie.WithSecure(m.secure),
	)
}

// Middleware exposes the preferences to handlers and the banner flag to views.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := m.Get(r)
		ctx := context.WithValue(r.Context(), contextKey{}, p)
		ctx = view.WithLocals(ctx, view.Locals{
			localBanner:  !p.Decided(),
			localConsent: p,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Submit stores the choice posted in Field and redirects back to the page the
// form was posted from, or to Path.
func (m *Manager) Submit(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return errors.Join(errorpage.ErrBadRequest, err)
	}

	var p Preferences
	switch r.PostForm.Get(Field) {
	case "yes":
		p.Analytics = true
	case "no":
	default:
		return errorpage.ErrBadRequest
	}
	p.DecidedAt = time.Now().UTC()

	if err := m.Save(w, p); err != nil {
		return err
	}
	http.Redirect(w, r, redirectTarget(r), http.StatusSeeOther)
	return nil
}

// redirectTarget keeps redirects on the same host and rejects paths a
// browser would read as protocol-relative.
func redirectTarget(r *http.Request) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Path == "" {
		return Path
	}
	if ref.Host != "" && ref.Host != r.Host {
		return Path
	}
	target := ref.Path
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return Path
	}
	if ref.RawQuery != "" {
		target += "?" + ref.RawQuery
	}
	return target
}

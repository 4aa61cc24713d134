package session

import (
	"time"

	"github.com/dmitrymomot/bootstrap/pkg/cookie"
)

type Option func(*Manager)

func WithStore(store Store) Option {
	return func(m *Manager) { m.store = store }
}

func WithTransport(transport Transport) Option {
	return func(m *Manager) { m.transport = transport }
}

func WithConfig(config Config) Option {
	return func(m *Manager) { m.config = config }
}

func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.config.CookieName = name
		}
	}
}

func WithSecureCookies(secure bool) Option {
	return func(m *Manager) { m.config.SecureCookies = secure }
}

func WithIdleTimeout(d time.Duration) Option {
	return func(m *Manager) { m.config.IdleTimeout = d }
}

func WithMaxLifetime(d time.Duration) Option {
	return func(m *Manager) { m.config.MaxLifetime = d }
}

// WithCookieManager enables the default encrypted cookie transport.
func WithCookieManager(cookies *cookie.Manager) Option {
	return func(m *Manager) { m.cookies = cookies }
}

package bootstrap

import (
	"log/slog"

	"github.com/dmitrymomot/bootstrap/pkg/httpserver"
	"github.com/dmitrymomot/bootstrap/pkg/theme"
)

// Option customizes an App beyond what configuration options can express.
type Option func(*App)

// WithThemes resolves the "theme" option against reg instead of a registry
// holding only the basic theme.
func WithThemes(reg *theme.Registry) Option {
	return func(a *App) {
		if reg != nil {
			a.themes = reg
		}
	}
}

// WithLogger replaces the logger built from the "logs" and "env" options.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.log = l }
}

// WithServerOptions passes extra options to every server created by Start.
func WithServerOptions(opts ...httpserver.Option) Option {
	return func(a *App) { a.serverOpts = append(a.serverOpts, opts...) }
}

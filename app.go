package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/bootstrap/pkg/config"
	"github.com/dmitrymomot/bootstrap/pkg/consent"
	"github.com/dmitrymomot/bootstrap/pkg/environment"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/httpserver"
	"github.com/dmitrymomot/bootstrap/pkg/i18n"
	"github.com/dmitrymomot/bootstrap/pkg/logger"
	"github.com/dmitrymomot/bootstrap/pkg/metrics"
	"github.com/dmitrymomot/bootstrap/pkg/middleware"
	"github.com/dmitrymomot/bootstrap/pkg/pages"
	"github.com/dmitrymomot/bootstrap/pkg/session"
	"github.com/dmitrymomot/bootstrap/pkg/static"
	"github.com/dmitrymomot/bootstrap/pkg/theme"
	"github.com/dmitrymomot/bootstrap/pkg/view"
	"github.com/dmitrymomot/bootstrap/pkg/wizard"
)

type state int

const (
	unstarted state = iota
	started
	stopped
)

// App is an assembled application with a start/stop lifecycle.
type App struct {
	provider   *config.Provider
	options    config.Options
	cfg        config.Config
	env        environment.Environment
	log        *slog.Logger
	serverOpts []httpserver.Option

	themes       *theme.Registry
	theme        *theme.Theme
	translations *i18n.Loader
	sessions     *session.Manager
	consent      *consent.Manager
	registry     *middleware.Registry
	metrics      *metrics.Metrics
	errors       *errorpage.Handler
	renderer     *view.Renderer
	wizards      []*wizard.Wizard
	handler      http.Handler

	// ctx scopes background work (translation loading and watching).
	ctx     context.Context
	cancel  context.CancelFunc
	closers []func() error

	mu        sync.Mutex
	state     state
	server    *httpserver.Server
	closeOnce sync.Once
	closeErr  error
}

// New assembles an application from the provider's effective configuration
// with options applied on top, then starts it unless the "start" option is
// false. A nil provider uses config.DefaultProvider.
//
// Any failure, including a failed automatic start, releases what was built
// and returns a nil App.
func New(ctx context.Context, provider *config.Provider, options config.Options, opts ...Option) (*App, error) {
	if provider == nil {
		p, err := config.DefaultProvider()
		if err != nil {
			return nil, err
		}
		provider = p
	}

	app := &App{
		provider: provider,
		themes:   theme.NewRegistry(),
		registry: middleware.NewRegistry(),
	}
	for _, opt := range opts {
		opt(app)
	}
	app.ctx, app.cancel = context.WithCancel(context.WithoutCancel(ctx))

	a := &assembly{ctx: ctx, app: app, options: options, mux: chi.NewRouter()}
	if err := a.run(); err != nil {
		_ = app.Close()
		return nil, err
	}

	if app.cfg.Start {
		if err := app.Start(ctx); err != nil {
			_ = app.Close()
			return nil, err
		}
	}
	return app, nil
}

// Start opens the listener using the resolved configuration with startOpts
// merged over it. Only the server keys (protocol, host, port, cert, key,
// shutdownTimeout) are read from startOpts.
func (a *App) Start(ctx context.Context, startOpts ...config.Options) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case started:
		return ErrAlreadyStarted
	case stopped:
		return ErrStopped
	}

	cfg, err := config.Decode(config.Merge(append([]config.Options{a.options}, startOpts...)...))
	if err != nil {
		return err
	}

	var hc httpserver.Config
	if err := config.Load(&hc); err != nil {
		a.log.ErrorContext(ctx, "failed to load server config", logger.Error(err))
		return ErrStart
	}
	hc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	if cfg.ShutdownTimeout > 0 {
		hc.ShutdownTimeout = cfg.ShutdownTimeout
	}

	switch strings.ToLower(cfg.Protocol) {
	case "", "http":
	case "https":
		hc.CertFile, hc.KeyFile = cfg.Cert, cfg.Key
		if hc.CertFile == "" || hc.KeyFile == "" {
			a.log.ErrorContext(ctx, "https requires cert and key", logger.Error(httpserver.ErrMissingCertificate))
			return ErrStart
		}
	default:
		return fmt.Errorf("%w: unsupported protocol %q", config.ErrInvalidOption, cfg.Protocol)
	}

	srv := httpserver.NewFromConfig(hc, append([]httpserver.Option{httpserver.WithLogger(a.log)}, a.serverOpts...)...)
	if err := srv.Start(a.handler); err != nil {
		a.log.ErrorContext(ctx, "failed to start server",
			logger.Error(err),
			logger.Addr(hc.Addr),
			slog.String("protocol", cfg.Protocol),
		)
		return ErrStart
	}

	a.server = srv
	a.state = started
	return nil
}

// Stop shuts the server down gracefully. Stopping twice is a no-op; an App
// cannot be started again once stopped.
func (a *App) Stop(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	switch a.state {
	case unstarted:
		return ErrNotStarted
	case stopped:
		return nil
	}

	a.state = stopped
	if err := a.server.Shutdown(ctx); err != nil {
		a.log.ErrorContext(ctx, "failed to stop server", logger.Error(err))
		return ErrStop
	}
	return nil
}

// Use appends middleware to the user registry. It applies to requests that
// arrive afterwards, before or after Start.
func (a *App) Use(mws ...func(http.Handler) http.Handler) *App {
	a.registry.Use(mws...)
	return a
}

// Run starts the App if needed and blocks until ctx is done, the process
// receives SIGINT or SIGTERM, or the server stops serving. It then stops the
// App.
func (a *App) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil && !errors.Is(err, ErrAlreadyStarted) {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case <-ctx.Done():
	case s := <-sig:
		a.log.Info("shutdown signal received", slog.String("signal", s.String()))
	case <-a.serverDone():
	}
	return a.Stop(context.WithoutCancel(ctx))
}

func (a *App) serverDone() <-chan struct{} {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server == nil {
		return nil
	}
	return a.server.Done()
}

// Close stops the server if it is running and releases sessions, stores and
// background translation work.
func (a *App) Close() error {
	a.closeOnce.Do(func() {
		var errs []error
		if err := a.Stop(context.Background()); err != nil && !errors.Is(err, ErrNotStarted) {
			errs = append(errs, err)
		}
		if a.cancel != nil {
			a.cancel()
		}
		for _, c := range slices.Backward(a.closers) {
			if err := c(); err != nil {
				errs = append(errs, err)
			}
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// Server returns the running http.Server, nil before Start.
func (a *App) Server() *http.Server {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server == nil {
		return nil
	}
	return a.server.HTTPServer()
}

// Addr returns the bound listener address, empty before Start.
func (a *App) Addr() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server == nil {
		return ""
	}
	return a.server.Addr()
}

// Handler returns the assembled handler, for use with httptest.
func (a *App) Handler() http.Handler { return a.handler }

// Config returns the resolved configuration.
func (a *App) Config() config.Config { return a.cfg }

func (a *App) Logger() *slog.Logger { return a.log }

// Translations returns the translation loader.
func (a *App) Translations() *i18n.Loader { return a.translations }

// Metrics is nil unless the "metrics" option is set.
func (a *App) Metrics() *metrics.Metrics { return a.metrics }

// Routes lists the "METHOD path" pairs the App serves.
func (a *App) Routes() []string {
	out := []string{
		http.MethodGet + " " + httpserver.HealthCheckPath,
		http.MethodGet + " " + static.Prefix + "/*",
		http.MethodPost + " " + consent.Path,
	}
	if a.cfg.GetCookies {
		out = append(out, http.MethodGet+" "+pages.CookiesPath)
	}
	if a.cfg.GetTerms {
		out = append(out, http.MethodGet+" "+pages.TermsPath)
	}
	if a.metrics != nil {
		out = append(out, http.MethodGet+" "+metrics.Path)
	}
	for _, wz := range a.wizards {
		out = append(out, wz.Paths()...)
	}
	return out
}

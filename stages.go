package bootstrap

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/bootstrap/pkg/clientip"
	"github.com/dmitrymomot/bootstrap/pkg/config"
	"github.com/dmitrymomot/bootstrap/pkg/consent"
	"github.com/dmitrymomot/bootstrap/pkg/cookie"
	"github.com/dmitrymomot/bootstrap/pkg/environment"
	"github.com/dmitrymomot/bootstrap/pkg/errorpage"
	"github.com/dmitrymomot/bootstrap/pkg/httpserver"
	"github.com/dmitrymomot/bootstrap/pkg/i18n"
	"github.com/dmitrymomot/bootstrap/pkg/logger"
	"github.com/dmitrymomot/bootstrap/pkg/metrics"
	"github.com/dmitrymomot/bootstrap/pkg/middleware"
	"github.com/dmitrymomot/bootstrap/pkg/pages"
	"github.com/dmitrymomot/bootstrap/pkg/ratelimiter"
	"github.com/dmitrymomot/bootstrap/pkg/redis"
	"github.com/dmitrymomot/bootstrap/pkg/requestid"
	"github.com/dmitrymomot/bootstrap/pkg/session"
	"github.com/dmitrymomot/bootstrap/pkg/static"
	"github.com/dmitrymomot/bootstrap/pkg/theme"
	"github.com/dmitrymomot/bootstrap/pkg/view"
	"github.com/dmitrymomot/bootstrap/pkg/wizard"
)

// Stage names, in the order they run.
const (
	StageConfig      = "config"
	StageTheme       = "theme"
	StageI18n        = "i18n"
	StageSecurity    = "security"
	StageHealthcheck = "healthcheck"
	StageValidate    = "validate"
	StageLogger      = "logger"
	StageMiddleware  = "middleware"
	StageStatic      = "static"
	StageSession     = "session"
	StageSettings    = "settings"
	StagePages       = "pages"
	StageRegistry    = "registry"
	StageConsent     = "consent"
	StageMetrics     = "metrics"
	StageRoutes      = "routes"
	StageErrors      = "errors"
)

type stage struct {
	name string
	run  func(*assembly) error
}

// pipeline is the fixed assembly order.
var pipeline = []stage{
	{StageConfig, (*assembly).config},
	{StageTheme, (*assembly).theme},
	{StageI18n, (*assembly).i18n},
	{StageSecurity, (*assembly).security},
	{StageHealthcheck, (*assembly).healthcheck},
	{StageValidate, (*assembly).validate},
	{StageLogger, (*assembly).logger},
	{StageMiddleware, (*assembly).middleware},
	{StageStatic, (*assembly).static},
	{StageSession, (*assembly).session},
	{StageSettings, (*assembly).settings},
	{StagePages, (*assembly).pages},
	{StageRegistry, (*assembly).registry},
	{StageConsent, (*assembly).consent},
	{StageMetrics, (*assembly).metrics},
	{StageRoutes, (*assembly).routes},
	{StageErrors, (*assembly).errors},
}

// Stages returns the stage names in assembly order.
func Stages() []string {
	names := make([]string, len(pipeline))
	for i, s := range pipeline {
		names[i] = s.name
	}
	return names
}

// assembly builds the router of an App. Middleware added with use applies to
// routes added after it, and to the not-found and method-not-allowed
// handlers, which see the whole chain.
type assembly struct {
	ctx     context.Context
	app     *App
	options config.Options
	mux     *chi.Mux
	chain   []func(http.Handler) http.Handler
}

func (a *assembly) run() error {
	for _, s := range pipeline {
		if err := s.run(a); err != nil {
			return err
		}
		if a.app.log != nil {
			a.app.log.Debug("stage done", logger.Stage(s.name), logger.Component("bootstrap"))
		}
	}
	return nil
}

func (a *assembly) use(mws ...func(http.Handler) http.Handler) {
	for _, mw := range mws {
		if mw != nil {
			a.chain = append(a.chain, mw)
		}
	}
}

// route registers routes behind the middleware added so far.
func (a *assembly) route(fn func(r chi.Router)) {
	fn(a.mux.With(a.chain...))
}

func (a *assembly) config() error {
	app := a.app
	app.options = app.provider.Effective(a.options)

	cfg, err := config.Decode(app.options)
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.env = environment.Parse(cfg.Env)

	if app.log == nil {
		app.log = newLogger(cfg, app.env)
	}
	return nil
}

func newLogger(cfg config.Config, env environment.Environment) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(env, cfg.AppName),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if cfg.Logs.Level != "" {
		if lvl, err := logger.ParseLevel(cfg.Logs.Level); err == nil {
			opts = append(opts, logger.WithLevel(lvl))
		}
	}
	if cfg.Logs.Format != "" {
		opts = append(opts, logger.WithFormat(logger.Format(cfg.Logs.Format)))
	}
	return logger.New(opts...)
}

func (a *assembly) theme() error {
	t, err := a.app.themes.Resolve(a.app.cfg.Theme)
	if err != nil {
		return err
	}
	a.app.theme = t
	return nil
}

func (a *assembly) i18n() error {
	app := a.app
	dir := filepath.Join(app.cfg.Root, app.cfg.Translations)
	app.translations = i18n.NewLoader(dir,
		i18n.WithLoaderLogger(app.log),
		i18n.WithLoaderDefaultLanguage(app.cfg.DefaultLang),
	)
	app.translations.Start(app.ctx)
	app.closers = append(app.closers, app.translations.Close)

	if app.env == environment.Development {
		if err := app.translations.Watch(app.ctx); err != nil {
			app.log.Warn("translations will not reload", logger.Error(err), logger.Component("i18n"))
		}
	}
	return nil
}

func (a *assembly) security() error {
	cfg := middleware.SecurityPreset(a.app.cfg.Security)
	cfg.IsDevelopment = a.app.env == environment.Development
	a.use(
		middleware.SecurityHeaders(cfg),
		clientip.New(clientip.WithTrustedProxy(a.app.cfg.TrustProxy)).Middleware,
	)
	return nil
}

func (a *assembly) healthcheck() error {
	a.route(func(r chi.Router) {
		r.Get(httpserver.HealthCheckPath, httpserver.HealthCheckHandler())
	})
	return nil
}

func (a *assembly) validate() error {
	if len(a.app.cfg.Routes) == 0 {
		return ErrNoRoutes
	}
	for _, r := range a.app.cfg.Routes {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (a *assembly) logger() error {
	app := a.app
	app.errors = errorpage.New(
		errorpage.WithLogger(app.log),
		errorpage.WithDebug(environment.Environment(app.cfg.Env).Debug()),
		errorpage.WithLayout(app.theme.Layout),
	)
	if !app.env.Quiet() {
		a.use(requestid.Middleware, middleware.Logging(app.log))
	}
	// Panics in later middleware are rendered inside the request log.
	a.use(app.errors.Recover)
	return nil
}

func (a *assembly) middleware() error {
	if rl := a.app.cfg.RateLimit; rl.Requests > 0 {
		interval := rl.Interval
		if interval <= 0 {
			interval = time.Minute
		}
		store := ratelimiter.NewMemoryStore()
		a.app.closers = append(a.app.closers, store.Close)

		bucket, err := ratelimiter.NewBucket(store, ratelimiter.Config{
			Capacity:       rl.Requests,
			RefillRate:     rl.Requests,
			RefillInterval: interval,
		})
		if err != nil {
			return err
		}
		a.use(ratelimiter.Middleware(bucket, ratelimiter.ByClientIP))
	}
	a.use(a.app.cfg.Middleware...)
	return nil
}

func (a *assembly) static() error {
	app := a.app
	h := static.Handler(
		[]fs.FS{static.Dir(filepath.Join(app.cfg.Root, app.cfg.Public)), app.theme.Assets},
		static.WithStripPrefix(static.Prefix),
		static.WithNotFound(errorpage.HandlerFunc(func(http.ResponseWriter, *http.Request) error {
			return errorpage.ErrNotFound
		})),
	)
	a.route(func(r chi.Router) {
		r.Method(http.MethodGet, static.Prefix+"/*", h)
		r.Method(http.MethodHead, static.Prefix+"/*", h)
	})
	return nil
}

func (a *assembly) session() error {
	app := a.app
	sc := app.cfg.Session

	secret := sc.Secret
	if secret == "" {
		generated, err := cookie.GenerateSecret()
		if err != nil {
			return err
		}
		secret = generated
		app.log.Warn("no session secret configured, sessions will not survive a restart", logger.Component("session"))
	}
	cookies, err := cookie.New([]string{secret}, cookie.WithSecure(sc.Secure))
	if err != nil {
		return err
	}

	opts := []session.Option{
		session.WithCookieManager(cookies),
		session.WithCookieName(sc.CookieName),
		session.WithSecureCookies(sc.Secure),
	}
	if sc.RedisURL != "" {
		client, err := redis.Connect(a.ctx, redis.DefaultConfig(sc.RedisURL))
		if err != nil {
			return err
		}
		opts = append(opts, session.WithStore(session.NewRedisStore(redis.NewStorage(client, "session:"))))
	}

	app.sessions, err = session.New(opts...)
	if err != nil {
		return err
	}
	app.closers = append(app.closers, app.sessions.Close)
	a.use(app.sessions.Middleware)

	app.consent = consent.New(cookies,
		consent.WithSecure(sc.Secure),
		consent.WithLogger(app.log),
	)
	return nil
}

func (a *assembly) settings() error {
	app := a.app

	dirs := make([]fs.FS, 0, len(app.cfg.Views)+1)
	for _, v := range app.cfg.Views {
		dirs = append(dirs, static.Dir(filepath.Join(app.cfg.Root, v)))
	}
	dirs = append(dirs, app.theme.Views)

	var ropts []view.RendererOption
	if app.env == environment.Development {
		ropts = append(ropts, view.WithoutCache())
	}
	app.renderer = view.NewRenderer(dirs, ropts...)

	a.use(
		environment.Middleware(app.env),
		i18n.Middleware(app.translations),
		view.Middleware(nil, view.Locals{
			"appName": app.cfg.AppName,
			"env":     app.env.String(),
			"theme":   app.theme.Name,

			theme.LocalCookiesPage: app.cfg.GetCookies,
			theme.LocalTermsPage:   app.cfg.GetTerms,
		}),
	)
	return nil
}

func (a *assembly) pages() error {
	app := a.app
	// The consent banner posts here whether or not the cookies page is served.
	a.route(func(r chi.Router) {
		r.Method(http.MethodPost, consent.Path, errorpage.HandlerFunc(app.consent.Submit))
	})
	if !app.cfg.GetCookies && !app.cfg.GetTerms {
		return nil
	}

	p := pages.New(
		pages.WithLayout(app.theme.Layout),
		pages.WithRenderer(app.renderer),
		pages.WithWaiter(app.translations, app.cfg.I18nTimeout),
	)
	a.route(func(r chi.Router) {
		if app.cfg.GetCookies {
			r.With(app.consent.Middleware).Method(http.MethodGet, pages.CookiesPath, p.Cookies())
		}
		if app.cfg.GetTerms {
			r.Method(http.MethodGet, pages.TermsPath, p.Terms())
		}
	})
	return nil
}

func (a *assembly) registry() error {
	a.use(a.app.registry.Middleware)
	return nil
}

func (a *assembly) consent() error {
	a.use(a.app.consent.Middleware)
	return nil
}

var metricNamespace = regexp.MustCompile(`[^a-zA-Z0-9_]+`)

func (a *assembly) metrics() error {
	if !a.app.cfg.Metrics {
		return nil
	}
	ns := strings.Trim(metricNamespace.ReplaceAllString(a.app.cfg.AppName, "_"), "_")
	if ns == "" || (ns[0] >= '0' && ns[0] <= '9') {
		ns = "app"
	}
	m := metrics.New(ns)
	a.app.metrics = m
	a.use(m.Middleware)
	a.route(func(r chi.Router) {
		r.Method(http.MethodGet, metrics.Path, m.Handler())
	})
	return nil
}

func (a *assembly) routes() error {
	app := a.app
	// Step panics are rendered inside the metrics middleware too.
	a.use(app.errors.Recover)
	for i, route := range app.cfg.Routes {
		var dirs []fs.FS
		for _, v := range route.Views {
			dirs = append(dirs, static.Dir(filepath.Join(app.cfg.Root, v)))
		}

		wz, err := wizard.New(route, wizard.Config{
			Renderer: app.renderer.With(dirs...),
			Layout:   app.theme.Layout,
			Sessions: app.sessions,
			Options:  config.Merge(app.cfg.Raw, route.Options),
			Logger:   app.log,
		})
		if err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}

		var mountErr error
		a.route(func(r chi.Router) {
			defer func() {
				if rec := recover(); rec != nil {
					mountErr = fmt.Errorf("%w: %s: %v", wizard.ErrInvalidStep, route.Base(), rec)
				}
			}()
			wz.Register(r)
		})
		if mountErr != nil {
			return mountErr
		}
		app.wizards = append(app.wizards, wz)
	}
	return nil
}

func (a *assembly) errors() error {
	app := a.app
	chain := chi.Chain(a.chain...)
	a.mux.NotFound(chain.HandlerFunc(app.errors.NotFound).ServeHTTP)
	a.mux.MethodNotAllowed(chain.HandlerFunc(app.errors.MethodNotAllowed).ServeHTTP)

	app.handler = app.errors.Middleware(a.mux)
	return nil
}

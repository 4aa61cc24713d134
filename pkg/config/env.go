package config

import "time"

// Option keys understood by the bootstrap layer.
const (
	KeyRoutes          = "routes"
	KeyTheme           = "theme"
	KeyRoot            = "root"
	KeyTranslations    = "translations"
	KeyViews           = "views"
	KeyPublic          = "public"
	KeyEnv             = "env"
	KeyMiddleware      = "middleware"
	KeyGetCookies      = "getCookies"
	KeyGetTerms        = "getTerms"
	KeyStart           = "start"
	KeyProtocol        = "protocol"
	KeyHost            = "host"
	KeyPort            = "port"
	KeyCert            = "cert"
	KeyKey             = "key"
	KeyAppName         = "appName"
	KeyLogs            = "logs"
	KeySession         = "session"
	KeyI18nTimeout     = "i18nTimeout"
	KeyDefaultLang     = "defaultLang"
	KeyMetrics         = "metrics"
	KeySecurity        = "security"
	KeyShutdownTimeout = "shutdownTimeout"
	KeyTrustProxy      = "trustProxy"
	KeyRateLimit       = "rateLimit"
)

// EnvConfig is the part of the defaults that can be tuned through the
// process environment.
type EnvConfig struct {
	Env             string        `env:"APP_ENV" envDefault:"development"`
	AppName         string        `env:"APP_NAME" envDefault:"app"`
	Root            string        `env:"APP_ROOT" envDefault:"."`
	Protocol        string        `env:"HTTP_PROTOCOL" envDefault:"http"`
	Host            string        `env:"HTTP_HOST" envDefault:"localhost"`
	Port            int           `env:"HTTP_PORT" envDefault:"3000"`
	Cert            string        `env:"HTTP_TLS_CERT"`
	Key             string        `env:"HTTP_TLS_KEY"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
	LogLevel        string        `env:"LOG_LEVEL"`
	LogFormat       string        `env:"LOG_FORMAT"`
	SessionSecret   string        `env:"SESSION_SECRET"`
	SessionCookie   string        `env:"SESSION_COOKIE_NAME" envDefault:"sid"`
	RedisURL        string        `env:"REDIS_URL"`
	TrustProxy      bool          `env:"HTTP_TRUST_PROXY"`
	RateLimit       int           `env:"RATE_LIMIT_REQUESTS"`
	RateInterval    time.Duration `env:"RATE_LIMIT_INTERVAL" envDefault:"1m"`
}

// Options converts the environment config into default options.
func (e EnvConfig) Options() Options {
	return Options{
		KeyRoutes:          nil,
		KeyRoot:            e.Root,
		KeyTranslations:    "locales",
		KeyViews:           []string{"views"},
		KeyPublic:          "public",
		KeyEnv:             e.Env,
		KeyGetCookies:      true,
		KeyGetTerms:        true,
		KeyStart:           true,
		KeyProtocol:        e.Protocol,
		KeyHost:            e.Host,
		KeyPort:            e.Port,
		KeyCert:            e.Cert,
		KeyKey:             e.Key,
		KeyAppName:         e.AppName,
		KeyI18nTimeout:     30 * time.Second,
		KeyDefaultLang:     "en",
		KeySecurity:        "balanced",
		KeyShutdownTimeout: e.ShutdownTimeout,
		KeyTrustProxy:      e.TrustProxy,
		KeyRateLimit: map[string]any{
			"requests": e.RateLimit,
			"interval": e.RateInterval,
		},
		KeyLogs: map[string]any{
			"level":  e.LogLevel,
			"format": e.LogFormat,
		},
		KeySession: map[string]any{
			"secret":     e.SessionSecret,
			"cookieName": e.SessionCookie,
			"redisUrl":   e.RedisURL,
		},
	}
}

// Defaults returns the built-in default options with environment overrides applied.
func Defaults() (Options, error) {
	var e EnvConfig
	if err := Load(&e); err != nil {
		return nil, err
	}
	return e.Options(), nil
}

// DefaultProvider builds a provider seeded with Defaults.
func DefaultProvider() (*Provider, error) {
	defaults, err := Defaults()
	if err != nil {
		return nil, err
	}
	return NewProvider(defaults), nil
}

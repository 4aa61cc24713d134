package config

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-viper/mapstructure/v2"

	"github.com/dmitrymomot/bootstrap/pkg/wizard"
)

// Config is the typed view of an effective Options set.
type Config struct {
	Routes     []wizard.Route                    `mapstructure:"-"`
	Middleware []func(http.Handler) http.Handler `mapstructure:"-"`
	// Theme is either a registered theme name or a theme value.
	Theme any `mapstructure:"-"`
	// Raw keeps the merged options the config was decoded from.
	Raw Options `mapstructure:"-"`

	AppName         string        `mapstructure:"appName"`
	Root            string        `mapstructure:"root"`
	Translations    string        `mapstructure:"translations"`
	Views           []string      `mapstructure:"views"`
	Public          string        `mapstructure:"public"`
	Env             string        `mapstructure:"env"`
	GetCookies      bool          `mapstructure:"getCookies"`
	GetTerms        bool          `mapstructure:"getTerms"`
	Start           bool          `mapstructure:"start"`
	Protocol        string        `mapstructure:"protocol"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Cert            string        `mapstructure:"cert"`
	Key             string        `mapstructure:"key"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	I18nTimeout     time.Duration `mapstructure:"i18nTimeout"`
	DefaultLang     string        `mapstructure:"defaultLang"`
	Metrics         bool          `mapstructure:"metrics"`
	Security        string        `mapstructure:"security"`
	TrustProxy      bool          `mapstructure:"trustProxy"`
	RateLimit       RateLimit     `mapstructure:"rateLimit"`
	Logs            LogConfig     `mapstructure:"logs"`
	Session         SessionConfig `mapstructure:"session"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimit throttles form submissions per client. Zero Requests disables it.
type RateLimit struct {
	Requests int           `mapstructure:"requests"`
	Interval time.Duration `mapstructure:"interval"`
}

// SessionConfig configures session storage.
type SessionConfig struct {
	Secret     string `mapstructure:"secret"`
	CookieName string `mapstructure:"cookieName"`
	RedisURL   string `mapstructure:"redisUrl"`
	Secure     bool   `mapstructure:"secure"`
}

// Decode converts merged options into a Config.
// Unset keys keep their zero value, except Start which defaults to true.
func Decode(o Options) (Config, error) {
	cfg := Config{Start: true, Raw: o.Clone()}

	scalars := o.Clone()
	delete(scalars, KeyRoutes)
	delete(scalars, KeyMiddleware)
	delete(scalars, KeyTheme)

	if err := decodeInto(scalars, &cfg); err != nil {
		return Config{}, err
	}

	routes, err := decodeRoutes(o[KeyRoutes])
	if err != nil {
		return Config{}, err
	}
	cfg.Routes = routes

	mws, err := decodeMiddleware(o[KeyMiddleware])
	if err != nil {
		return Config{}, err
	}
	cfg.Middleware = mws

	switch t := o[KeyTheme].(type) {
	case nil:
	case string:
		if t != "" {
			cfg.Theme = t
		}
	default:
		cfg.Theme = t
	}

	return cfg, nil
}

func decodeInto(input any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return errors.Join(ErrInvalidOption, err)
	}
	if err := dec.Decode(input); err != nil {
		return errors.Join(ErrInvalidOption, err)
	}
	return nil
}

func decodeRoutes(v any) ([]wizard.Route, error) {
	switch routes := v.(type) {
	case nil:
		return nil, nil
	case []wizard.Route:
		return append([]wizard.Route(nil), routes...), nil
	case []*wizard.Route:
		out := make([]wizard.Route, 0, len(routes))
		for _, r := range routes {
			if r != nil {
				out = append(out, *r)
			}
		}
		return out, nil
	case []map[string]any:
		out := make([]wizard.Route, 0, len(routes))
		for i, m := range routes {
			r, err := decodeRoute(i, m)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	case []any:
		out := make([]wizard.Route, 0, len(routes))
		for i, item := range routes {
			r, err := decodeRoute(i, item)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: routes must be a list, got %T", ErrInvalidOption, v)
	}
}

func decodeRoute(i int, item any) (wizard.Route, error) {
	switch r := item.(type) {
	case wizard.Route:
		return r, nil
	case *wizard.Route:
		if r == nil {
			return wizard.Route{}, fmt.Errorf("%w: route %d is nil", ErrInvalidOption, i)
		}
		return *r, nil
	case map[string]any:
		var route wizard.Route
		if err := decodeInto(r, &route); err != nil {
			return wizard.Route{}, fmt.Errorf("route %d: %w", i, err)
		}
		return route, nil
	default:
		return wizard.Route{}, fmt.Errorf("%w: route %d has type %T", ErrInvalidOption, i, item)
	}
}

func decodeMiddleware(v any) ([]func(http.Handler) http.Handler, error) {
	switch mws := v.(type) {
	case nil:
		return nil, nil
	case func(http.Handler) http.Handler:
		return []func(http.Handler) http.Handler{mws}, nil
	case []func(http.Handler) http.Handler:
		return append([]func(http.Handler) http.Handler(nil), mws...), nil
	case []any:
		out := make([]func(http.Handler) http.Handler, 0, len(mws))
		for i, item := range mws {
			mw, ok := item.(func(http.Handler) http.Handler)
			if !ok {
				return nil, fmt.Errorf("%w: middleware %d has type %T", ErrInvalidOption, i, item)
			}
			out = append(out, mw)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: middleware must be a list, got %T", ErrInvalidOption, v)
	}
}

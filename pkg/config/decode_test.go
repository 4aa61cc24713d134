package config_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bootstrap/pkg/config"
	"github.com/dmitrymomot/bootstrap/pkg/wizard"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("scalars with weak typing", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Decode(config.Options{
			"port":            "8080",
			"host":            "127.0.0.1",
			"env":             "production",
			"getCookies":      "true",
			"i18nTimeout":     "2s",
			"shutdownTimeout": 3 * time.Second,
			"views":           "a,b",
			"logs":            map[string]any{"level": "debug", "format": "text"},
			"session":         map[string]any{"secret": "s", "redisUrl": "redis://localhost:6379/0"},
		})
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.Port)
		assert.Equal(t, "127.0.0.1", cfg.Host)
		assert.Equal(t, "production", cfg.Env)
		assert.True(t, cfg.GetCookies)
		assert.Equal(t, 2*time.Second, cfg.I18nTimeout)
		assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
		assert.Equal(t, []string{"a", "b"}, cfg.Views)
		assert.Equal(t, "debug", cfg.Logs.Level)
		assert.Equal(t, "s", cfg.Session.Secret)
		assert.Equal(t, "redis://localhost:6379/0", cfg.Session.RedisURL)
	})

	t.Run("start defaults to true", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Decode(config.Options{})
		require.NoError(t, err)
		assert.True(t, cfg.Start)

		cfg, err = config.Decode(config.Options{"start": false})
		require.NoError(t, err)
		assert.False(t, cfg.Start)
	})

	t.Run("routes from maps", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Decode(config.Options{
			"routes": []any{
				map[string]any{
					"name":    "apply",
					"baseUrl": "/apply",
					"views":   []any{"views/apply"},
					"steps": []any{
						map[string]any{"path": "/start", "next": "name"},
						map[string]any{"path": "/name", "template": "name"},
					},
					"checkJourney": true,
				},
			},
		})
		require.NoError(t, err)
		require.Len(t, cfg.Routes, 1)

		r := cfg.Routes[0]
		assert.Equal(t, "apply", r.Name)
		assert.Equal(t, "/apply", r.BaseURL)
		assert.Equal(t, []string{"views/apply"}, r.Views)
		require.Len(t, r.Steps, 2)
		assert.Equal(t, "/start", r.Steps[0].Path)
		assert.Equal(t, "name", r.Steps[0].Next)
		assert.Equal(t, "name", r.Steps[1].Template)
		assert.Equal(t, true, r.Options["checkJourney"])
	})

	t.Run("routes from typed values", func(t *testing.T) {
		t.Parallel()
		routes := []wizard.Route{{BaseURL: "/a", Steps: []wizard.Step{{Path: "/"}}}}
		cfg, err := config.Decode(config.Options{"routes": routes})
		require.NoError(t, err)
		assert.Equal(t, routes, cfg.Routes)
	})

	t.Run("empty routes decode to empty list", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Decode(config.Options{"routes": []any{}})
		require.NoError(t, err)
		assert.Empty(t, cfg.Routes)
	})

	t.Run("invalid routes type", func(t *testing.T) {
		t.Parallel()
		_, err := config.Decode(config.Options{"routes": "nope"})
		require.Error(t, err)
		assert.ErrorIs(t, err, config.ErrInvalidOption)
	})

	t.Run("middleware list", func(t *testing.T) {
		t.Parallel()
		mw := func(next http.Handler) http.Handler { return next }
		cfg, err := config.Decode(config.Options{"middleware": []any{mw, mw}})
		require.NoError(t, err)
		assert.Len(t, cfg.Middleware, 2)

		_, err = config.Decode(config.Options{"middleware": []any{"nope"}})
		assert.ErrorIs(t, err, config.ErrInvalidOption)
	})

	t.Run("theme keeps name or value", func(t *testing.T) {
		t.Parallel()
		cfg, err := config.Decode(config.Options{"theme": "basic"})
		require.NoError(t, err)
		assert.Equal(t, "basic", cfg.Theme)

		cfg, err = config.Decode(config.Options{"theme": ""})
		require.NoError(t, err)
		assert.Nil(t, cfg.Theme)
	})

	t.Run("raw options are kept", func(t *testing.T) {
		t.Parallel()
		opts := config.Options{"custom": "value"}
		cfg, err := config.Decode(opts)
		require.NoError(t, err)
		assert.Equal(t, "value", cfg.Raw["custom"])
	})
}

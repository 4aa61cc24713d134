package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bootstrap/pkg/config"
)

const appFile = `
appName: apply
getTerms: false
routes:
  - baseUrl: /apply
    steps:
      - path: /
        next: name
      - path: /name
`

func TestReadOptions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(appFile), 0o600))

	t.Run("parses file", func(t *testing.T) {
		opts, err := readOptions(path, true)
		require.NoError(t, err)
		assert.Equal(t, "apply", opts["appName"])

		cfg, err := config.Decode(opts)
		require.NoError(t, err)
		require.Len(t, cfg.Routes, 1)
		assert.Equal(t, "/apply", cfg.Routes[0].BaseURL)
		assert.Len(t, cfg.Routes[0].Steps, 2)
		assert.False(t, cfg.GetTerms)
	})

	t.Run("missing default file is empty", func(t *testing.T) {
		opts, err := readOptions(filepath.Join(dir, "none.yaml"), false)
		require.NoError(t, err)
		assert.Empty(t, opts)
	})

	t.Run("missing explicit file fails", func(t *testing.T) {
		_, err := readOptions(filepath.Join(dir, "none.yaml"), true)
		assert.Error(t, err)
	})

	t.Run("invalid yaml fails", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(bad, []byte("routes: [\n"), 0o600))
		_, err := readOptions(bad, true)
		assert.Error(t, err)
	})
}

func TestRoutesCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(appFile), 0o600))
	t.Setenv("APP_ENV", "test")
	t.Setenv("SESSION_SECRET", "0123456789abcdef0123456789abcdef")
	config.ResetCache()
	t.Cleanup(config.ResetCache)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"routes", "--config", path})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "GET /apply\n")
	assert.Contains(t, out.String(), "POST /apply\n")
	assert.Contains(t, out.String(), "GET /apply/name\n")
	assert.NotContains(t, out.String(), "terms-and-conditions")
}

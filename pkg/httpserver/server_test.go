package httpserver_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"log/slog"
	"math/big"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bootstrap/pkg/httpserver"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
})

func get(t *testing.T, client *http.Client, url string) string {
	t.Helper()
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestStartAndShutdown(t *testing.T) {
	t.Parallel()
	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithShutdownTimeout(100*time.Millisecond))
	assert.Nil(t, srv.HTTPServer())

	require.NoError(t, srv.Start(okHandler))
	assert.NotEqual(t, "127.0.0.1:0", srv.Addr())
	assert.NotNil(t, srv.HTTPServer())

	assert.Equal(t, "ok", get(t, http.DefaultClient, "http://"+srv.Addr()))

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, srv.Shutdown(context.Background()), "second shutdown")

	select {
	case <-srv.Done():
	case <-time.After(time.Second):
		require.Fail(t, "serving did not end")
	}
	assert.NoError(t, srv.Err())

	_, err := net.DialTimeout("tcp", srv.Addr(), 100*time.Millisecond)
	assert.Error(t, err, "listener closed")
}

func TestShutdownBeforeStart(t *testing.T) {
	t.Parallel()
	assert.NoError(t, httpserver.New().Shutdown(context.Background()))
}

func TestStartError(t *testing.T) {
	t.Parallel()

	t.Run("invalid address", func(t *testing.T) {
		t.Parallel()
		err := httpserver.New(httpserver.WithAddr(":invalid")).Start(okHandler)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("address in use", func(t *testing.T) {
		t.Parallel()
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		t.Cleanup(func() { _ = ln.Close() })

		err = httpserver.New(httpserver.WithAddr(ln.Addr().String())).Start(okHandler)
		assert.ErrorIs(t, err, httpserver.ErrStart)
	})

	t.Run("already running", func(t *testing.T) {
		t.Parallel()
		srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"))
		require.NoError(t, srv.Start(okHandler))
		t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

		err := srv.Start(okHandler)
		assert.ErrorIs(t, err, httpserver.ErrStart)
		assert.ErrorIs(t, err, httpserver.ErrRunning)
	})

	t.Run("tls without key", func(t *testing.T) {
		t.Parallel()
		err := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithTLS("cert.pem", "")).Start(okHandler)
		assert.ErrorIs(t, err, httpserver.ErrStart)
		assert.ErrorIs(t, err, httpserver.ErrMissingCertificate)
	})
}

func TestRun(t *testing.T) {
	t.Parallel()
	var started, stopped atomic.Bool
	ready := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithShutdownTimeout(100*time.Millisecond),
		httpserver.WithStartHook(func(_ *slog.Logger) {
			started.Store(true)
			close(ready)
		}),
		httpserver.WithStopHook(func(_ *slog.Logger) { stopped.Store(true) }),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx, okHandler) }()

	<-ready
	assert.Equal(t, "ok", get(t, http.DefaultClient, "http://"+srv.Addr()))
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "run did not finish")
	}
	assert.True(t, started.Load(), "start hook not executed")
	assert.True(t, stopped.Load(), "stop hook not executed")
}

func TestRunManualShutdown(t *testing.T) {
	t.Parallel()
	ready := make(chan struct{})
	srv := httpserver.New(
		httpserver.WithAddr("127.0.0.1:0"),
		httpserver.WithStartHook(func(_ *slog.Logger) { close(ready) }),
	)

	done := make(chan error, 1)
	go func() { done <- srv.Run(context.Background(), okHandler) }()
	<-ready
	require.NoError(t, srv.Shutdown(context.Background()))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		require.Fail(t, "run did not finish")
	}
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()
	hs := &http.Server{ReadTimeout: time.Second}
	srv := httpserver.NewFromConfig(httpserver.Config{
		Addr:         "127.0.0.1:0",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 2 * time.Second,
		IdleTimeout:  3 * time.Second,
	}, httpserver.WithServer(hs))
	require.NoError(t, srv.Start(nil))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	assert.Same(t, hs, srv.HTTPServer())
	assert.Equal(t, time.Second, hs.ReadTimeout, "preset value wins")
	assert.Equal(t, 2*time.Second, hs.WriteTimeout)
	assert.Equal(t, 3*time.Second, hs.IdleTimeout)
	assert.NotNil(t, hs.Handler)
}

func TestTLS(t *testing.T) {
	t.Parallel()
	certFile, keyFile := writeCertificate(t)

	srv := httpserver.New(httpserver.WithAddr("127.0.0.1:0"), httpserver.WithTLS(certFile, keyFile))
	require.NoError(t, srv.Start(okHandler))
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	assert.Equal(t, uint16(tls.VersionTLS12), srv.HTTPServer().TLSConfig.MinVersion)

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // self-signed test certificate
	}}
	assert.Equal(t, "ok", get(t, client, "https://"+srv.Addr()))
}

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()
	w := httptest.NewRecorder()
	httpserver.HealthCheckHandler()(w, httptest.NewRequest(http.MethodGet, httpserver.HealthCheckPath, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ALIVE", w.Body.String())
}

func TestOptionPanics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		fn   func()
	}{
		{"addr", func() { httpserver.WithAddr("") }},
		{"read", func() { httpserver.WithReadTimeout(-time.Second) }},
		{"write", func() { httpserver.WithWriteTimeout(-time.Second) }},
		{"idle", func() { httpserver.WithIdleTimeout(-time.Second) }},
		{"shutdown", func() { httpserver.WithShutdownTimeout(-time.Second) }},
		{"server", func() { httpserver.WithServer(nil) }},
		{"start hook", func() { httpserver.WithStartHook(nil) }},
		{"stop hook", func() { httpserver.WithStopHook(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Panics(t, tt.fn)
		})
	}
}

func writeCertificate(t *testing.T) (string, string) {
	t.Helper()
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "127.0.0.1"},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile := filepath.Join(dir, "cert.pem")
	keyFile := filepath.Join(dir, "key.pem")
	require.NoError(t, os.WriteFile(certFile, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600))
	require.NoError(t, os.WriteFile(keyFile, pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}), 0o600))
	return certFile, keyFile
}

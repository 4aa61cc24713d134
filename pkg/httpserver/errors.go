package httpserver

import "errors"

var (
	ErrStart    = errors.New("failed to start HTTP server")
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
	// ErrRunning is joined with ErrStart when the server is started twice.
	ErrRunning = errors.New("server already running")
	// ErrMissingCertificate is joined with ErrStart when TLS lacks a cert or key.
	ErrMissingCertificate = errors.New("tls requires both certificate and key")
)

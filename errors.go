package bootstrap

import (
	"errors"

	"github.com/dmitrymomot/bootstrap/pkg/wizard"
)

var (
	// ErrNoRoutes is returned by New when the configuration lists no routes.
	ErrNoRoutes = errors.New("bootstrap: configuration must define at least one route")
	// ErrNoSteps is returned by New for a route without steps. The error
	// message names the route base URL.
	ErrNoSteps = wizard.ErrNoSteps

	// ErrStart is returned when the listener cannot be opened. The cause is logged.
	ErrStart = errors.New("bootstrap: failed to start server")
	// ErrStop is returned when graceful shutdown fails. The cause is logged.
	ErrStop = errors.New("bootstrap: failed to stop server")

	ErrNotStarted     = errors.New("bootstrap: server not started")
	ErrAlreadyStarted = errors.New("bootstrap: server already started")
	// ErrStopped is returned by Start once the application was stopped.
	ErrStopped = errors.New("bootstrap: server stopped")
)

// Package httpserver runs an http.Server with a synchronous bind and
// graceful shutdown.
//
// Start binds the listener before returning, so bind errors surface to the
// caller and Addr reports the real address (useful with port 0). Serving then
// continues in a background goroutine until Shutdown. Run combines both and
// waits for context cancellation or SIGINT/SIGTERM.
//
//	srv := httpserver.New(
//	    httpserver.WithAddr("localhost:3000"),
//	    httpserver.WithShutdownTimeout(10*time.Second),
//	    httpserver.WithLogger(log),
//	)
//	if err := srv.Start(router); err != nil {
//	    return err // errors.Is(err, httpserver.ErrStart)
//	}
//	defer srv.Shutdown(context.Background())
//
// WithTLS serves HTTPS using IntermediateTLSConfig unless WithTLSConfig
// supplies another base config.
//
// HealthCheckHandler answers liveness probes with "ALIVE".
package httpserver

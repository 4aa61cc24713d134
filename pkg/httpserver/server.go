package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrymomot/bootstrap/pkg/logger"
)

type config struct {
	addr            string
	readTimeout     time.Duration
	writeTimeout    time.Duration
	idleTimeout     time.Duration
	shutdownTimeout time.Duration
	tls             bool
	certFile        string
	keyFile         string
	tlsConfig       *tls.Config
	server          *http.Server
	logger          *slog.Logger
	startHooks      []func(*slog.Logger)
	stopHooks       []func(*slog.Logger)
}

func defaultConfig() *config {
	return &config{
		addr:            ":8080",
		shutdownTimeout: 5 * time.Second,
	}
}

// Server wraps http.Server with a synchronous bind, background serving and
// graceful shutdown.
type Server struct {
	cfg *config

	mu       sync.Mutex
	srv      *http.Server
	ln       net.Listener
	done     chan struct{}
	serveErr error

	shutdownOnce sync.Once
	shutdownErr  error
}

func New(opts ...Option) *Server {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.Noop()
	}
	return &Server{cfg: cfg}
}

// Start binds the listener and serves handler in the background. Bind and
// TLS errors are returned joined with ErrStart; the server is then unusable.
func (s *Server) Start(handler http.Handler) error {
	if handler == nil {
		handler = http.NotFoundHandler()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.Join(ErrStart, ErrRunning)
	}

	cfg := s.cfg
	srv := cfg.server
	if srv == nil {
		srv = &http.Server{}
	}
	if srv.Addr == "" {
		srv.Addr = cfg.addr
	}
	if srv.ReadTimeout == 0 {
		srv.ReadTimeout = cfg.readTimeout
	}
	if srv.WriteTimeout == 0 {
		srv.WriteTimeout = cfg.writeTimeout
	}
	if srv.IdleTimeout == 0 {
		srv.IdleTimeout = cfg.idleTimeout
	}
	srv.Handler = handler
	srv.ErrorLog = slog.NewLogLogger(cfg.logger.Handler(), slog.LevelWarn)

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return errors.Join(ErrStart, err)
	}
	if cfg.tls {
		tlsCfg, err := loadTLSConfig(cfg.tlsConfig, cfg.certFile, cfg.keyFile)
		if err != nil {
			_ = ln.Close()
			return errors.Join(ErrStart, err)
		}
		srv.TLSConfig = tlsCfg
		ln = tls.NewListener(ln, tlsCfg)
	}

	s.srv = srv
	s.ln = ln
	s.done = make(chan struct{})

	go s.serve(srv, ln, s.done)

	for _, h := range cfg.startHooks {
		h(cfg.logger)
	}
	cfg.logger.Info("http server started", logger.Addr(ln.Addr().String()), slog.Bool("tls", cfg.tls))
	return nil
}

func (s *Server) serve(srv *http.Server, ln net.Listener, done chan struct{}) {
	defer close(done)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.cfg.logger.Error("http server stopped unexpectedly", logger.Error(err))
		s.mu.Lock()
		s.serveErr = err
		s.mu.Unlock()
	}
}

// Run starts the server and blocks until ctx is done, SIGINT or SIGTERM
// arrives, or serving fails; then it shuts down gracefully.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if err := s.Start(handler); err != nil {
		return err
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case <-ctx.Done():
	case sig := <-stop:
		s.cfg.logger.Info("shutdown signal received", slog.String("signal", sig.String()))
	case <-s.Done():
		if err := s.Err(); err != nil {
			return errors.Join(ErrStart, err)
		}
		return nil
	}
	return s.Shutdown(context.WithoutCancel(ctx))
}

// Shutdown stops the server gracefully within the shutdown timeout. It is a
// no-op before Start and safe to call repeatedly.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv, done := s.srv, s.done
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.shutdownOnce.Do(func() {
		ctx, cancel := context.WithTimeout(ctx, s.cfg.shutdownTimeout)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			_ = srv.Close()
			s.shutdownErr = errors.Join(ErrShutdown, err)
		}
		<-done

		for _, h := range s.cfg.stopHooks {
			h(s.cfg.logger)
		}
		s.cfg.logger.Info("http server stopped")
	})
	return s.shutdownErr
}

// Done is closed when serving ends. It is nil before Start.
func (s *Server) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Err returns the error that ended serving, if any.
func (s *Server) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serveErr
}

// Addr returns the bound address after Start, the configured one before.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.addr
}

// HTTPServer returns the underlying server, nil before Start.
func (s *Server) HTTPServer() *http.Server {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.srv
}

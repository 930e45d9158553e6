// Package server exposes the calculator over HTTP.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/logger"
)

// Options configures a Server.
type Options struct {
	// Addr is the TCP address to listen on.
	Addr string
	// ReadTimeout limits the time to read an entire request.
	ReadTimeout time.Duration
	// ShutdownTimeout is how long Run waits for in-flight requests after its
	// context is canceled.
	ShutdownTimeout time.Duration
	// Validation is the lexical check applied to submitted expressions.
	Validation calc.ValidationMode
}

// Server provides the HTTP interface to the calculator.
type Server struct {
	opts    Options
	lggr    logger.Logger
	router  *httprouter.Router
	handler http.Handler
}

// New creates a new server. Every request is logged to lggr.
func New(opts Options, lggr logger.Logger) *Server {
	s := &Server{
		opts:   opts,
		lggr:   lggr,
		router: httprouter.New(),
	}
	s.setupRoutes()
	s.handler = accessLog(lggr, s.router)
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.POST("/calc", s.handleCalc)
	s.router.GET("/health", s.handleHealth)

	s.router.NotFound = http.HandlerFunc(s.handleNotFound)
	s.router.MethodNotAllowed = http.HandlerFunc(s.handleMethodNotAllowed)
	s.router.PanicHandler = s.handlePanic
}

// Handler returns the root handler, including request logging.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured address and serves until ctx is canceled,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.opts.Addr)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled, then shuts down gracefully. Serve
// closes ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:     s.handler,
		ReadTimeout: s.opts.ReadTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.lggr.Infow("Listening", "addr", ln.Addr().String(), "validation", s.opts.Validation.String())

	select {
	case err := <-errc:
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	s.lggr.Infow("Shutting down", "timeout", s.opts.ShutdownTimeout)
	sctx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "serving")
	}
	return nil
}

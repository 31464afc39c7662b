// Package httpapi serves the identity endpoints over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/easyadmin/internal/logging"
	"github.com/dmitrijs2005/easyadmin/internal/server/auth"
	"github.com/dmitrijs2005/easyadmin/internal/server/identity"
	"github.com/dmitrijs2005/easyadmin/internal/server/metrics"
)

const apiName = "EasyAdmin"

// Options are the route and CORS settings.
type Options struct {
	APIVersion     string
	HelpURL        string
	AllowedOrigins []string
}

type Server struct {
	address  string
	opts     Options
	identity *identity.Service
	issuer   *auth.Issuer
	metrics  *metrics.Metrics
	logger   logging.Logger
}

func NewServer(address string, opts Options, svc *identity.Service, issuer *auth.Issuer, m *metrics.Metrics, l logging.Logger) *Server {
	return &Server{
		address:  address,
		opts:     opts,
		identity: svc,
		issuer:   issuer,
		metrics:  m,
		logger:   l.With("module", "http_server"),
	}
}

// Handler builds the router with CORS applied to every route.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	prefix := "/" + s.opts.APIVersion

	mux.HandleFunc("GET /{$}", s.handleInfo)
	mux.HandleFunc("POST "+prefix+"/identity/nonce", s.handleNonce)
	mux.HandleFunc("POST "+prefix+"/identity/login", s.handleLogin)
	mux.Handle("GET "+prefix+"/identity/me", s.RequireToken(http.HandlerFunc(s.handleMe)))
	mux.Handle("POST "+prefix+"/identity/otp/rotate", s.RequireToken(http.HandlerFunc(s.handleRotateOTP)))
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
	mux.HandleFunc("/", s.handleNotFound)

	return s.cors(s.logRequests(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/lulu/internal/logging"
	"github.com/dmitrijs2005/lulu/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

// UserService is the part of users.Service the handlers depend on.
type UserService interface {
	Register(ctx context.Context, username, password string) (*users.User, error)
	Login(ctx context.Context, username, password string) (*users.LoginResult, error)
	Authorize(accessToken string) (string, error)
}

type HTTPServer struct {
	address   string
	users     UserService
	responder Responder
	logger    logging.Logger
}

type Option func(*HTTPServer)

// WithResponder replaces the echo responder behind /invoke.
func WithResponder(r Responder) Option {
	return func(s *HTTPServer) { s.responder = r }
}

func NewHTTPServer(address string, l logging.Logger, us UserService, opts ...Option) *HTTPServer {
	s := &HTTPServer{
		address:   address,
		users:     us,
		responder: EchoResponder{},
		logger:    l.With("module", "http_server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed handler wrapped in request-id and logging middleware.
func (s *HTTPServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /signup", s.handleSignUp)
	mux.HandleFunc("POST /signin", s.handleSignIn)
	mux.Handle("POST /invoke", s.bearerAuth(http.HandlerFunc(s.handleInvoke)))

	return s.requestID(s.accessLog(mux))
}

func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on l until ctx is done, then shuts down gracefully.
func (s *HTTPServer) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(context.Background(), "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", l.Addr().String())

	if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-stopped
	return nil
}

package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/katoonagu/Aichatinterfacedesign/internal/config"
	"github.com/katoonagu/Aichatinterfacedesign/internal/logging"
	"github.com/katoonagu/Aichatinterfacedesign/internal/store"
	"github.com/katoonagu/Aichatinterfacedesign/internal/webhook"
)

// Server is the chat backend: it persists messages, serves history and
// proxies assistant prompts to the automation webhook.
type Server struct {
	cfg     config.Config
	log     *logging.Logger
	store   store.MessageStore
	assist  *webhook.Client
	hub     *eventHub
	httpSrv *http.Server
}

// New creates a Server. The assist client may be nil when no webhook URL
// is configured; /assist then answers 503.
func New(cfg config.Config, st store.MessageStore, assist *webhook.Client, log *logging.Logger) *Server {
	return &Server{
		cfg:    cfg,
		log:    log.Sub("server"),
		store:  st,
		assist: assist,
		hub:    newEventHub(log),
	}
}

// Start runs the HTTP server until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr, err := s.resolveBindAddr()
	if err != nil {
		return err
	}

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	s.log.Info().Str("addr", addr).Msg("chat server listening")

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("shutting down chat server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.closeAll()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// handler builds the full route table wrapped in the middleware chain.
func (s *Server) handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return withMiddleware(mux, s.log, s.cfg.Server.AllowedOrigins)
}

// resolveBindAddr maps the bind mode to a concrete host:port.
func (s *Server) resolveBindAddr() (string, error) {
	port := s.cfg.Server.Port
	if port == 0 {
		port = config.DefaultPort
	}
	switch s.cfg.Server.Bind {
	case "", "loopback":
		return fmt.Sprintf("127.0.0.1:%d", port), nil
	case "lan":
		return fmt.Sprintf("0.0.0.0:%d", port), nil
	case "custom":
		if s.cfg.Server.CustomBindHost == "" {
			return "", fmt.Errorf("bind mode is custom but custom_bind_host is empty")
		}
		return fmt.Sprintf("%s:%d", s.cfg.Server.CustomBindHost, port), nil
	default:
		return "", fmt.Errorf("unknown bind mode %q", s.cfg.Server.Bind)
	}
}

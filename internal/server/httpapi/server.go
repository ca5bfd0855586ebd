// Package httpapi exposes the coursehub services over REST. Every service
// shares the same engine setup: access logging, the bearer-token
// authentication filter and per-route authorization rules.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/coursehub/internal/i18n"
	"github.com/dmitrijs2005/coursehub/internal/logging"
	"github.com/dmitrijs2005/coursehub/internal/server/auth"
	"github.com/dmitrijs2005/coursehub/internal/server/config"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address  string
	engine   *gin.Engine
	logger   logging.Logger
	codec    *auth.Codec
	public   *auth.PathMatcher
	messages *i18n.Messages
	locales  *i18n.Resolver
}

// NewServer builds the engine for one service. Routes are added with the
// Register*Routes methods.
func NewServer(cfg *config.Config, l logging.Logger, codec *auth.Codec, messages *i18n.Messages) *Server {
	useWireFieldNames()

	s := &Server{
		address:  cfg.EndpointAddrHTTP,
		engine:   gin.New(),
		logger:   l.With("module", "http_server"),
		codec:    codec,
		public:   auth.NewPathMatcher(cfg.PublicPaths),
		messages: messages,
		locales:  i18n.NewResolver(cfg.DefaultLocale),
	}

	s.engine.Use(s.requestLogger(), s.recoverer(), s.authenticate())
	s.engine.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled, then shuts
// down gracefully. Requests in flight keep their context values but are
// not cancelled together with ctx, so they get the shutdown grace period.
func (s *Server) Serve(ctx context.Context, listen net.Listener) error {
	base := context.WithoutCancel(ctx)

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return base },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(base, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(base, shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

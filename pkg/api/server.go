// Package api serves resolution over HTTP: clients post restricted
// settings trees and receive the resolved plugin records, layered over
// the serving configuration's presets.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gitfolio/gitfolio/pkg/config"
)

// Server holds the loaded configuration the endpoints resolve against.
type Server struct {
	cfg     *config.Config
	options *config.ServerConfig
}

// NewServer creates an API server around a loaded configuration.
func NewServer(cfg *config.Config) *Server {
	options := cfg.Server
	if options == nil {
		options = config.DefaultServerConfig()
	}
	return &Server{cfg: cfg, options: options}
}

// Router assembles the engine: health stays open, the v1 group carries
// rate limiting and bearer auth.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(securityHeaders())

	router.GET("/healthz", s.healthHandler)

	v1 := router.Group("/api/v1")
	v1.Use(rateLimit(s.options.RateLimit))
	v1.Use(bearerAuth(s.options.Token))
	v1.GET("/presets", s.listPresetsHandler)
	v1.POST("/resolve", s.resolveHandler)

	return router
}

// Run serves until ctx is cancelled, then drains in-flight requests
// within the configured shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.options.Listen,
		Handler: s.Router(),
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("API server listening", "addr", s.options.Listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("API server stopped")
	return nil
}

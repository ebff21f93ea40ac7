// Package api implements the HTTP API for the price engine.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmalens/pricelens/internal/config"
	"github.com/pharmalens/pricelens/internal/logger"
)

// Server hosts the HTTP API.
type Server struct {
	config *config.Config
	log    logger.Interface
	http   *http.Server
}

// NewServer builds the API server and its router.
func NewServer(
	cfg *config.Config,
	log logger.Interface,
	searcher Searcher,
	sourcesInfo SourceLister,
	registry *prometheus.Registry,
) *Server {
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	handler := NewHandler(searcher, sourcesInfo, log)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestID())
	router.Use(RequestLogger(log))

	router.GET("/healthz", handler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/search", handler.Search)
		v1.GET("/search/stream", handler.SearchStream)
		v1.POST("/search/batch", handler.SearchBatch)
		v1.GET("/sources", handler.Sources)
	}

	return &Server{
		config: cfg,
		log:    log,
		http: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
	}
}

// Start serves HTTP until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.log.Info("starting API server", "address", s.config.Server.Address)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop drains in-flight requests and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("stopping API server")
	return s.http.Shutdown(ctx)
}

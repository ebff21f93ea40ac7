// Package bootstrap wires configuration, logging, and the search engine into
// a runnable application.
//
// Assembly follows these phases:
//   - Phase 1: Config & Logger - load configuration and create the logger
//   - Phase 2: Engine - build adapters, governor, and aggregator
//   - Phase 3: Metrics - register Prometheus collectors
package bootstrap

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pharmalens/pricelens/internal/aggregator"
	"github.com/pharmalens/pricelens/internal/config"
	"github.com/pharmalens/pricelens/internal/governor"
	"github.com/pharmalens/pricelens/internal/logger"
	"github.com/pharmalens/pricelens/internal/metrics"
	"github.com/pharmalens/pricelens/internal/query"
	"github.com/pharmalens/pricelens/internal/sources"
)

// App holds the assembled application components.
type App struct {
	Config     *config.Config
	Logger     logger.Interface
	Aggregator *aggregator.Aggregator
	Adapters   []sources.Adapter
	Metrics    *metrics.Metrics
	Registry   *prometheus.Registry
}

// New assembles the application from configuration.
func New(cfgFile string, debug bool) (*App, error) {
	cfg, err := config.Load(cfgFile, debug)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig assembles the application from an already-loaded config.
func NewWithConfig(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	adapters := sources.BuildAdapters(cfg.Sources.Enabled)
	if len(adapters) == 0 {
		return nil, fmt.Errorf("no sources enabled")
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	gov := governor.New(cfg.Engine.Governor, m, log.WithComponent("governor"))
	agg := aggregator.New(
		query.NewBuilder(),
		adapters,
		gov,
		m,
		log.WithComponent("aggregator"),
		cfg.Engine.Aggregator,
	)

	enabled := make([]string, len(adapters))
	for i, a := range adapters {
		enabled[i] = a.Descriptor().ID
	}
	log.Info("engine assembled",
		"sources", enabled,
		"heavy_pool_size", cfg.Engine.Governor.HeavyPoolSize)

	return &App{
		Config:     cfg,
		Logger:     log,
		Aggregator: agg,
		Adapters:   adapters,
		Metrics:    m,
		Registry:   registry,
	}, nil
}

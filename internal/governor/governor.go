// Package governor bounds the resource cost of source fetches. Heavy fetches
// spawn a rendering engine, so they are admitted through a fixed slot pool;
// light fetches run unpooled under a shorter deadline. Every fetch is wrapped
// in per-attempt retry with exponential backoff.
package governor

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmalens/pricelens/internal/domain"
	"github.com/pharmalens/pricelens/internal/logger"
	"github.com/pharmalens/pricelens/internal/metrics"
	"github.com/pharmalens/pricelens/internal/sources"
)

// Config configures admission control and per-fetch deadlines.
type Config struct {
	// HeavyPoolSize is the number of heavy fetches allowed at once
	HeavyPoolSize int `yaml:"heavy_pool_size" mapstructure:"heavy_pool_size"`
	// LightTimeout bounds one light fetch, all attempts included
	LightTimeout time.Duration `yaml:"light_timeout" mapstructure:"light_timeout"`
	// HeavyTimeout bounds one heavy fetch, all attempts included
	HeavyTimeout time.Duration `yaml:"heavy_timeout" mapstructure:"heavy_timeout"`
	// Retry configures per-attempt backoff
	Retry RetryConfig `yaml:"retry" mapstructure:"retry"`
}

// DefaultConfig returns the governor settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		HeavyPoolSize: 1,
		LightTimeout:  15 * time.Second,
		HeavyTimeout:  60 * time.Second,
		Retry:         DefaultRetryConfig(),
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.HeavyPoolSize < 1 {
		return fmt.Errorf("heavy pool size must be at least 1, got %d", c.HeavyPoolSize)
	}
	if c.LightTimeout <= 0 {
		return fmt.Errorf("light timeout must be positive, got %s", c.LightTimeout)
	}
	if c.HeavyTimeout <= 0 {
		return fmt.Errorf("heavy timeout must be positive, got %s", c.HeavyTimeout)
	}
	return nil
}

// Governor admits fetches, applies deadlines, and retries transient failures.
// Safe for concurrent use.
type Governor struct {
	config     Config
	heavySlots chan struct{}
	metrics    *metrics.Metrics
	log        logger.Interface
}

// New builds a Governor from config. Invalid settings fall back to defaults;
// m may be nil when no collectors are registered.
func New(config Config, m *metrics.Metrics, log logger.Interface) *Governor {
	if config.HeavyPoolSize < 1 {
		config.HeavyPoolSize = 1
	}
	if config.LightTimeout <= 0 {
		config.LightTimeout = 15 * time.Second
	}
	if config.HeavyTimeout <= 0 {
		config.HeavyTimeout = 60 * time.Second
	}
	if log == nil {
		log = logger.NewNoop()
	}
	return &Governor{
		config:     config,
		heavySlots: make(chan struct{}, config.HeavyPoolSize),
		metrics:    m,
		log:        log,
	}
}

// Execute runs one adapter fetch under the governor's admission and deadline
// rules. Heavy adapters block until a pool slot frees up; the slot wait counts
// against the caller's context but not against the fetch deadline.
func (g *Governor) Execute(
	ctx context.Context,
	adapter sources.Adapter,
	query domain.SearchQuery,
) ([]domain.PriceRecord, error) {
	desc := adapter.Descriptor()

	timeout := g.config.LightTimeout
	if desc.Heavy {
		timeout = g.config.HeavyTimeout

		waitStart := time.Now()
		select {
		case g.heavySlots <- struct{}{}:
			defer func() { <-g.heavySlots }()
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for heavy slot: %w", ctx.Err())
		}
		if g.metrics != nil {
			g.metrics.HeavySlotWait.Observe(time.Since(waitStart).Seconds())
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	var records []domain.PriceRecord
	err := retry(fetchCtx, g.config.Retry, func() error {
		var fetchErr error
		records, fetchErr = adapter.Fetch(fetchCtx, query)
		return fetchErr
	})

	elapsed := time.Since(start)
	if err != nil {
		g.log.Warn("source fetch failed",
			"source", desc.ID, "heavy", desc.Heavy,
			"duration", elapsed, "error", err)
		return nil, err
	}

	g.log.Debug("source fetch succeeded",
		"source", desc.ID, "records", len(records), "duration", elapsed)
	return records, nil
}

// Package config provides configuration management for the price engine.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/pharmalens/pricelens/internal/aggregator"
	"github.com/pharmalens/pricelens/internal/governor"
	"github.com/pharmalens/pricelens/internal/logger"
	"github.com/pharmalens/pricelens/internal/sources"
)

// Default configuration values.
const (
	defaultServerAddress   = ":8070"
	defaultReadTimeoutSec  = 15
	defaultIdleTimeoutSec  = 60
	defaultWriteTimeoutSec = 120 // streams hold the response open per search
)

// Config is the root configuration.
type Config struct {
	App     AppConfig         `yaml:"app"     mapstructure:"app"`
	Logger  logger.Config     `yaml:"logger"  mapstructure:"logger"`
	Server  ServerConfig      `yaml:"server"  mapstructure:"server"`
	Engine  EngineConfig      `yaml:"engine"  mapstructure:"engine"`
	Sources SourcesConfig     `yaml:"sources" mapstructure:"sources"`
}

// AppConfig holds application identity settings.
type AppConfig struct {
	Name        string `yaml:"name"        mapstructure:"name"`
	Version     string `yaml:"version"     mapstructure:"version"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Debug       bool   `yaml:"debug"       mapstructure:"debug"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Address      string        `yaml:"address"       mapstructure:"address"`
	ReadTimeout  time.Duration `yaml:"read_timeout"  mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"  mapstructure:"idle_timeout"`
}

// EngineConfig holds search engine settings.
type EngineConfig struct {
	Governor   governor.Config   `yaml:"governor"   mapstructure:"governor"`
	Aggregator aggregator.Config `yaml:"aggregator" mapstructure:"aggregator"`
}

// SourcesConfig selects which pharmacy sources run.
type SourcesConfig struct {
	// Enabled lists source IDs switched on for this process
	Enabled []string `yaml:"enabled" mapstructure:"enabled"`
}

// Load reads configuration from .env, a config file, and environment
// variables, applies defaults, and validates the result. cfgFile overrides
// the default config search path; debug forces verbose logging.
func Load(cfgFile string, debug bool) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	_ = v.ReadInConfig()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if debug {
		cfg.App.Debug = true
	}
	applyDebugOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets production-safe defaults.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app", map[string]any{
		"name":        "pricelens",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	v.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "json",
	})

	v.SetDefault("server", map[string]any{
		"address":       defaultServerAddress,
		"read_timeout":  fmt.Sprintf("%ds", defaultReadTimeoutSec),
		"write_timeout": fmt.Sprintf("%ds", defaultWriteTimeoutSec),
		"idle_timeout":  fmt.Sprintf("%ds", defaultIdleTimeoutSec),
	})

	gov := governor.DefaultConfig()
	v.SetDefault("engine.governor", map[string]any{
		"heavy_pool_size": gov.HeavyPoolSize,
		"light_timeout":   gov.LightTimeout.String(),
		"heavy_timeout":   gov.HeavyTimeout.String(),
		"retry": map[string]any{
			"max_attempts":  gov.Retry.MaxAttempts,
			"initial_delay": gov.Retry.InitialDelay.String(),
			"max_delay":     gov.Retry.MaxDelay.String(),
			"multiplier":    gov.Retry.Multiplier,
		},
	})
	v.SetDefault("engine.aggregator", map[string]any{
		"overall_timeout": aggregator.DefaultConfig().OverallTimeout.String(),
	})

	v.SetDefault("sources.enabled", sources.DefaultEnabled())
}

// applyDebugOverrides lifts log verbosity when debug mode is on.
func applyDebugOverrides(cfg *Config) {
	if cfg.App.Debug {
		cfg.Logger.Level = "debug"
	}
	if cfg.App.Environment == "development" {
		cfg.Logger.Development = true
		cfg.Logger.Encoding = "console"
	}
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server address is required")
	}
	if err := c.Engine.Governor.Validate(); err != nil {
		return fmt.Errorf("governor: %w", err)
	}

	known := make([]string, 0)
	for _, desc := range sources.AllDescriptors() {
		known = append(known, desc.ID)
	}
	for _, id := range c.Sources.Enabled {
		if !slices.Contains(known, id) {
			return fmt.Errorf("unknown source %q, known sources: %s", id, strings.Join(known, ", "))
		}
	}
	return nil
}

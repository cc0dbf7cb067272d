// Package config provides configuration management for the publication
// graph service.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the publication graph service.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Cache contains document cache settings.
	Cache CacheConfig `mapstructure:"cache"`
	// Graph contains graph construction settings.
	Graph GraphConfig `mapstructure:"graph"`
	// Cluster contains topic clustering settings.
	Cluster ClusterConfig `mapstructure:"cluster"`
	// Trends contains trend aggregation settings.
	Trends TrendsConfig `mapstructure:"trends"`
	// Search contains full-text search settings.
	Search SearchConfig `mapstructure:"search"`
	// Rebuild contains rebuild endpoint rate limiting settings.
	Rebuild RebuildConfig `mapstructure:"rebuild"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// MetricsPort is the metrics server port (default: 9091).
	MetricsPort int `mapstructure:"metrics_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// CacheConfig holds document cache settings.
type CacheConfig struct {
	// Dir is the directory holding cached publication documents.
	Dir string `mapstructure:"dir"`
}

// GraphConfig holds graph construction settings.
type GraphConfig struct {
	// SimilarityEdges enables publication-to-publication edges in the
	// exported graph.
	SimilarityEdges bool `mapstructure:"similarity_edges"`
}

// ClusterConfig holds topic clustering settings.
type ClusterConfig struct {
	// MinSharedKeywords is the minimum shared-keyword count for two
	// publications to be connected during clustering (default: 1).
	MinSharedKeywords int `mapstructure:"min_shared_keywords"`
	// MaxThemes is the maximum number of themes reported per cluster.
	MaxThemes int `mapstructure:"max_themes"`
}

// TrendsConfig holds trend aggregation settings.
type TrendsConfig struct {
	// TopKeywords is the number of keywords reported per trend query.
	TopKeywords int `mapstructure:"top_keywords"`
	// DefaultTimeframeYears is the window used when a trend query does not
	// specify one. Zero means all time.
	DefaultTimeframeYears int `mapstructure:"default_timeframe_years"`
}

// SearchConfig holds full-text search settings.
type SearchConfig struct {
	// SnippetWindow is the character window around a full-text match.
	SnippetWindow int `mapstructure:"snippet_window"`
	// MaxSnippets caps the snippets returned per publication.
	MaxSnippets int `mapstructure:"max_snippets"`
}

// RebuildConfig holds rebuild endpoint rate limiting settings.
type RebuildConfig struct {
	// RatePerMinute is the sustained rebuild request rate.
	RatePerMinute int `mapstructure:"rate_per_minute"`
	// Burst is the rebuild request burst size.
	Burst int `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr, file path).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for metrics endpoint.
	Path string `mapstructure:"path"`
}

// HTTPAddress returns the HTTP server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// MetricsAddress returns the metrics server address.
func (c *ServerConfig) MetricsAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.MetricsPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Read from environment variables
	v.SetEnvPrefix("PUBGRAPH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if present
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/publication-graph-service")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.metrics_port", 9091)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Cache defaults
	v.SetDefault("cache.dir", "document_cache")

	// Graph defaults
	v.SetDefault("graph.similarity_edges", false)

	// Cluster defaults
	v.SetDefault("cluster.min_shared_keywords", 1)
	v.SetDefault("cluster.max_themes", 5)

	// Trends defaults
	v.SetDefault("trends.top_keywords", 10)
	v.SetDefault("trends.default_timeframe_years", 0)

	// Search defaults
	v.SetDefault("search.snippet_window", 100)
	v.SetDefault("search.max_snippets", 3)

	// Rebuild defaults
	v.SetDefault("rebuild.rate_per_minute", 2)
	v.SetDefault("rebuild.burst", 1)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate server ports
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.MetricsPort <= 0 || c.Server.MetricsPort > 65535 {
		return fmt.Errorf("invalid metrics port: %d", c.Server.MetricsPort)
	}

	// Validate cache config
	if c.Cache.Dir == "" {
		return fmt.Errorf("cache dir is required")
	}

	// Validate cluster config
	if c.Cluster.MinSharedKeywords < 1 {
		return fmt.Errorf("cluster min_shared_keywords must be positive")
	}
	if c.Cluster.MaxThemes < 1 {
		return fmt.Errorf("cluster max_themes must be positive")
	}

	// Validate trends config
	if c.Trends.TopKeywords < 1 {
		return fmt.Errorf("trends top_keywords must be positive")
	}
	if c.Trends.DefaultTimeframeYears < 0 {
		return fmt.Errorf("trends default_timeframe_years must be non-negative")
	}

	// Validate search config
	if c.Search.SnippetWindow < 1 {
		return fmt.Errorf("search snippet_window must be positive")
	}
	if c.Search.MaxSnippets < 1 {
		return fmt.Errorf("search max_snippets must be positive")
	}

	// Validate rebuild config
	if c.Rebuild.RatePerMinute < 1 {
		return fmt.Errorf("rebuild rate_per_minute must be positive")
	}
	if c.Rebuild.Burst < 1 {
		return fmt.Errorf("rebuild burst must be positive")
	}

	// Validate log level
	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}

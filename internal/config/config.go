// Package config defines the service configuration and its loading rules.
package config

import (
	"fmt"
	"net"
	"slices"
	"strings"
	"time"
	_ "time/tzdata" // month boundaries must not depend on the host zoneinfo
)

// Store backends
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

// Config contains process configuration
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoder: console or json.
	LogFormat string `koanf:"log_format"`

	// GRPCAddr is the gRPC listen address, e.g. ":50051".
	GRPCAddr string `koanf:"grpc_addr"`

	// MetricsAddr is the Prometheus scrape address. Empty disables the endpoint.
	MetricsAddr string `koanf:"metrics_addr"`

	// APIToken is the bearer token clients must present.
	APIToken string `koanf:"api_token"`

	// Store selects the repository backend: postgres or memory.
	Store string `koanf:"store"`

	// DBConnStr is the Postgres connection string.
	DBConnStr string `koanf:"db_conn_str"`

	// BatchConcurrency bounds how many users the monthly batch processes at once.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// AMQPURL enables summary events when set.
	AMQPURL        string `koanf:"amqp_url"`
	AMQPExchange   string `koanf:"amqp_exchange"`
	AMQPRoutingKey string `koanf:"amqp_routing_key"`

	// Timezone defines calendar month boundaries, as an IANA name.
	Timezone string `koanf:"timezone"`
}

// New creates a Config with defaults
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "console",
		GRPCAddr:         ":50051",
		MetricsAddr:      ":9090",
		Store:            StorePostgres,
		DBConnStr:        "host=localhost port=5432 user=postgres password=postgres dbname=insights sslmode=disable",
		BatchConcurrency: 4,
		AMQPExchange:     "insights",
		AMQPRoutingKey:   "summary.created",
		Timezone:         "UTC",
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var errs []string

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format '%s': must be console or json", c.LogFormat))
	}

	if _, _, err := net.SplitHostPort(c.GRPCAddr); err != nil {
		errs = append(errs, fmt.Sprintf("invalid grpc address '%s': %v", c.GRPCAddr, err))
	}
	if c.MetricsAddr != "" {
		if _, _, err := net.SplitHostPort(c.MetricsAddr); err != nil {
			errs = append(errs, fmt.Sprintf("invalid metrics address '%s': %v", c.MetricsAddr, err))
		}
	}

	switch c.Store {
	case StorePostgres:
		if c.DBConnStr == "" {
			errs = append(errs, "database connection string cannot be empty when using postgres store")
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Sprintf("invalid store '%s': must be postgres or memory", c.Store))
	}

	if c.BatchConcurrency < 1 {
		errs = append(errs, fmt.Sprintf("invalid batch concurrency %d: must be at least 1", c.BatchConcurrency))
	}

	if c.AMQPURL != "" {
		if !strings.HasPrefix(c.AMQPURL, "amqp://") && !strings.HasPrefix(c.AMQPURL, "amqps://") {
			errs = append(errs, "AMQP URL must start with amqp:// or amqps://")
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange cannot be empty when AMQP is enabled")
		}
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AMQPEnabled reports whether summary events should be published
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

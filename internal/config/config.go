// Package config loads process configuration from the environment. All
// variables share the TXLENS_ prefix; endpoints are validated before any
// network client is constructed so a misconfigured process fails at startup
// rather than on its first lookup.
package config

import (
	"github.com/gabapcia/txlens/internal/pkg/validator"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces every environment variable read by Load.
const envPrefix = "txlens"

// Explorer configures a single-endpoint REST explorer upstream.
type Explorer struct {
	Endpoint string `validate:"required,url"`
	APIKey   string `split_words:"true"`
}

// RPC configures a single JSON-RPC node upstream.
type RPC struct {
	Endpoint string `validate:"required,url"`
	APIKey   string `split_words:"true"`
}

// Endpoints configures an ordered multi-endpoint upstream; the first entry is
// the primary and the rest are fallbacks, swept in order.
type Endpoints struct {
	Endpoints []string `validate:"required,min=1,dive,url"`
}

// Redis configures the optional shared token metadata cache. An empty
// address disables the cache.
type Redis struct {
	Address  string
	Username string
	Password string
	DB       int
}

// Config is the full process configuration.
type Config struct {
	LogLevel string `split_words:"true" default:"info"`

	Bitcoin  Explorer
	Ethereum RPC
	BSC      RPC
	Polygon  RPC
	Tron     Explorer
	XRP      Endpoints
	EOS      Endpoints

	Redis Redis
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, err
	}

	if err := validator.Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

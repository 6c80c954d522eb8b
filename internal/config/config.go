// Package config loads Gatehouse configuration from defaults, an
// optional YAML file, and command-line flags, in that order of
// precedence (later layers win).
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Environment names. The environment decides cookie attributes: in
// production the session cookie is SameSite=None; Secure so the browser
// sends it on cross-site credentialed fetches; in development it is
// SameSite=Lax over plain HTTP.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds the full service configuration.
type Config struct {
	ListenAddr     string        `koanf:"listen_addr"`
	MetricsAddr    string        `koanf:"metrics_addr"`
	DatabaseURL    string        `koanf:"database_url"`
	SigningKey     string        `koanf:"signing_key"`
	TokenTTL       time.Duration `koanf:"token_ttl"`
	Environment    string        `koanf:"environment"`
	CookieDomain   string        `koanf:"cookie_domain"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	LogFormat      string        `koanf:"log_format"`
}

// Default returns the development defaults.
func Default() *Config {
	return &Config{
		ListenAddr:     ":5000",
		MetricsAddr:    "127.0.0.1:9100",
		TokenTTL:       72 * time.Hour,
		Environment:    EnvDevelopment,
		AllowedOrigins: []string{"http://localhost:3000"},
		LogFormat:      "json",
	}
}

// Load builds a Config from defaults, an optional YAML file, and flags.
// path may be empty; flags may be nil. The database URL and signing key
// fall back to the DATABASE_URL and GATEHOUSE_SIGNING_KEY environment
// variables when not set by any layer, so secrets can stay out of config
// files.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_INVALID").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_INVALID").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.SigningKey == "" {
		cfg.SigningKey = os.Getenv("GATEHOUSE_SIGNING_KEY")
	}

	return cfg, nil
}

// Validate checks that the configuration can actually run the service.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database URL is required (flag, config file, or DATABASE_URL)")
	}
	if c.SigningKey == "" {
		return oops.Code("CONFIG_INVALID").Errorf("signing key is required (flag, config file, or GATEHOUSE_SIGNING_KEY)")
	}
	if c.Environment != EnvDevelopment && c.Environment != EnvProduction {
		return oops.Code("CONFIG_INVALID").
			With("environment", c.Environment).
			Errorf("environment must be %q or %q", EnvDevelopment, EnvProduction)
	}
	if c.TokenTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("token TTL must be positive")
	}
	return nil
}

// IsProduction reports whether the production cookie policy applies.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

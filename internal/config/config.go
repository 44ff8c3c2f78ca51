// Package config loads the CLI/server binary's knobs: which comparer to
// build a Pen with, an optional sentinel, the default render N (how many
// recent tokens each render step matches), where to
// persist snapshots, the render cache address, the HTTP port, and the JWT
// signing secret. Following the teacher's internal/cli/config pattern:
// viper with defaults, a YAML file, and AutomaticEnv overriding both.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is magictext's full runtime configuration.
type Config struct {
	Comparer string       `mapstructure:"comparer"`
	Sentinel string       `mapstructure:"sentinel"`
	N        int          `mapstructure:"n"`
	Store    StoreConfig  `mapstructure:"store"`
	Cache    CacheConfig  `mapstructure:"cache"`
	Server   ServerConfig `mapstructure:"server"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "postgres" or "sqlite"
	DSN    string `mapstructure:"dsn"`
}

// CacheConfig configures the render cache, if any.
type CacheConfig struct {
	Addr string `mapstructure:"addr"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port      int    `mapstructure:"port"`
	JWTSecret string `mapstructure:"jwt_secret"`
	// AdminPassword, if set, lets POST /auth/login exchange it for a
	// bearer token signed with JWTSecret. Only meaningful alongside
	// JWTSecret.
	AdminPassword string `mapstructure:"admin_password"`
}

// Load reads magictext.yml from the current directory (if present), applies
// defaults, and lets MAGICTEXT_-prefixed environment variables override
// both.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("comparer", "ordinal")
	v.SetDefault("sentinel", "")
	v.SetDefault("n", 2)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.dsn", "magictext.db")
	v.SetDefault("cache.addr", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.admin_password", "")

	v.SetConfigName("magictext")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("magictext")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	switch cfg.Store.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown store.driver %q, want \"postgres\" or \"sqlite\"", cfg.Store.Driver)
	}
	if cfg.N < 0 {
		return fmt.Errorf("config: n must be >= 0, got %d", cfg.N)
	}
	return nil
}

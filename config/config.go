package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Rollup   RollupConfig   `yaml:"rollup"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// RollupConfig holds the rollup worker pool and schedule fallback settings.
type RollupConfig struct {
	WorkerPoolSize            int           `yaml:"worker_pool_size"`
	QueueSize                 int           `yaml:"queue_size"`
	SessionEndLookbackMinutes int           `yaml:"session_end_lookback_minutes"`
	SessionEndLookback        time.Duration `yaml:"-"` // Ignored by YAML parser
	RulesCacheTTLSeconds      int           `yaml:"rules_cache_ttl_seconds"`
	RulesCacheTTL             time.Duration `yaml:"-"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Rollup.WorkerPoolSize <= 0 {
		log.Printf("rollup.worker_pool_size is not set or invalid; defaulting to 1")
		cfg.Rollup.WorkerPoolSize = 1
	}
	if cfg.Rollup.QueueSize <= 0 {
		cfg.Rollup.QueueSize = 64
	}
	if cfg.Rollup.SessionEndLookbackMinutes <= 0 {
		cfg.Rollup.SessionEndLookbackMinutes = 30
	}
	cfg.Rollup.SessionEndLookback = time.Duration(cfg.Rollup.SessionEndLookbackMinutes) * time.Minute
	if cfg.Rollup.RulesCacheTTLSeconds <= 0 {
		cfg.Rollup.RulesCacheTTLSeconds = 60
	}
	cfg.Rollup.RulesCacheTTL = time.Duration(cfg.Rollup.RulesCacheTTLSeconds) * time.Second

	return &cfg, nil
}

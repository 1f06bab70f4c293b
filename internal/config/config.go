// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type PollingConfig struct {
	// Interval is the fixed delay between the end of one poll and the start
	// of the next; polls never overlap.
	Interval time.Duration `yaml:"interval"`
	// MaxPollFailures bounds consecutive transport failures before a running
	// session is marked failed.
	MaxPollFailures int `yaml:"max_poll_failures"`
	// UnknownStrikes is how many consecutive unknown-session samples are
	// tolerated before giving up on the handle.
	UnknownStrikes int `yaml:"unknown_strikes"`
	// MaxConcurrentJobs caps independently-owned flows; each flow holds its
	// own session handle.
	MaxConcurrentJobs int `yaml:"max_concurrent_jobs"`
}

type ChatConfig struct {
	Enabled bool          `yaml:"enabled"`
	Period  time.Duration `yaml:"period"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type StatusConfig struct {
	Port   int    `yaml:"port"` // 0 disables the status server
	APIKey string `yaml:"api_key"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"` // empty disables the flow-slot store
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"` // empty disables the download history
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Polling  PollingConfig  `yaml:"polling"`
	Chat     ChatConfig     `yaml:"chat"`
	Log      LogConfig      `yaml:"log"`
	Status   StatusConfig   `yaml:"status"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()

	// Minimal validation
	if cfg.Server.BaseURL == "" {
		return nil, errors.New("server.base_url is required")
	}
	if cfg.Status.Port != 0 && cfg.Status.APIKey == "" {
		return nil, errors.New("status.api_key is required when status.port is set")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// ApplyDefaults fills the polling and ambient knobs the yaml left unset.
func (cfg *Config) ApplyDefaults() {
	if cfg.Server.Timeout <= 0 {
		cfg.Server.Timeout = 15 * time.Second
	}
	if cfg.Polling.Interval <= 0 {
		cfg.Polling.Interval = time.Second
	}
	if cfg.Polling.MaxPollFailures <= 0 {
		cfg.Polling.MaxPollFailures = 5
	}
	if cfg.Polling.UnknownStrikes <= 0 {
		cfg.Polling.UnknownStrikes = 3
	}
	if cfg.Polling.MaxConcurrentJobs <= 0 {
		// Two flows: a link download and a search download can run together.
		cfg.Polling.MaxConcurrentJobs = 2
	}
	if cfg.Chat.Period <= 0 {
		cfg.Chat.Period = 3 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}

// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
// Secrets (bot token, alert channel, operator id) come from the process
// environment, never from the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	domain "stockwatch/pkg/types"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig              `yaml:"server"`
	Poll     PollConfig                `yaml:"poll"`
	Storage  StorageConfig             `yaml:"storage"`
	Sites    map[string]string         `yaml:"sites"`
	Products map[string]BuiltinProduct `yaml:"products"`
	Logging  LoggingConfig             `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// PollConfig defines the polling schedule and fetch behavior.
type PollConfig struct {
	Interval     time.Duration `yaml:"interval"`
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	UserAgent    string        `yaml:"user_agent"`
}

// StorageConfig defines where custom products are persisted.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// BuiltinProduct is one statically configured product. Built-ins are
// reconstructed from this block on every start and never persisted.
type BuiltinProduct struct {
	Name string `yaml:"name"`
	URL  string `yaml:"url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Secrets holds credentials supplied via the process environment.
type Secrets struct {
	DiscordToken string `env:"DISCORD_TOKEN"`
	ChannelID    string `env:"DISCORD_CHANNEL_ID"`
	OperatorID   string `env:"STOCKWATCH_OPERATOR_ID"`
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadSecrets parses the environment-supplied credentials.
func LoadSecrets() (*Secrets, error) {
	s, err := env.ParseAs[Secrets]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment secrets: %w", err)
	}
	return &s, nil
}

// SiteHosts converts the configured hostname table to site kinds.
func (c *Config) SiteHosts() map[string]domain.SiteKind {
	if len(c.Sites) == 0 {
		return nil
	}
	hosts := make(map[string]domain.SiteKind, len(c.Sites))
	for host, kind := range c.Sites {
		hosts[host] = domain.SiteKind(kind)
	}
	return hosts
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyPollDefaults(&cfg.Poll)
	applyStorageDefaults(&cfg.Storage)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyPollDefaults(p *PollConfig) {
	if p.Interval == 0 {
		p.Interval = 30 * time.Minute
	}
	if p.FetchTimeout == 0 {
		p.FetchTimeout = 15 * time.Second
	}
}

func applyStorageDefaults(s *StorageConfig) {
	if s.Path == "" {
		s.Path = "data/custom_products.json"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

var validSiteKinds = map[string]struct{}{
	string(domain.SiteShopify): {},
	string(domain.SiteWoo):     {},
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Poll.Interval < time.Minute {
		errs = append(errs, fmt.Errorf("poll.interval must be at least 1m (got %s)", cfg.Poll.Interval))
	}

	for host, kind := range cfg.Sites {
		if _, ok := validSiteKinds[kind]; !ok {
			errs = append(errs, fmt.Errorf("sites.%s: unknown site kind %q", host, kind))
		}
	}

	for key, p := range cfg.Products {
		if p.URL == "" {
			errs = append(errs, fmt.Errorf("products.%s: url is required", key))
		}
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("products.%s: name is required", key))
		}
	}

	return errors.Join(errs...)
}

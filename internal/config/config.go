// Package config holds the datatalk configuration: the semantic view
// the generator is allowed to query, page limits, the default relative
// window, and the gateway/logging settings.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"datatalk/internal/n2sql"
	"datatalk/internal/nlu"
)

// Config is the full runtime configuration.
type Config struct {
	// View is the single pre-authorized semantic view. Never taken from
	// user input.
	View string `yaml:"view"`

	// PageLimit caps ranking pages (top clients).
	PageLimit int `yaml:"page_limit"`

	// DefaultRangeDays is the window applied when the user asks for
	// "próximos días" without a usable number. 14 = two weeks.
	DefaultRangeDays int `yaml:"default_range_days"`

	// GlossaryPath optionally points to a YAML synonym override file.
	GlossaryPath string `yaml:"glossary_path"`

	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig configures the HTTP gateway.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		View:             n2sql.DefaultView,
		PageLimit:        n2sql.DefaultTopLimit,
		DefaultRangeDays: nlu.DefaultRangeWeeks * 7,
		Server:           ServerConfig{Addr: ":8000"},
		Logging:          LoggingConfig{Level: "info"},
	}
}

// Load reads the YAML file at path (if non-empty) over the defaults,
// then applies DATATALK_* environment overrides. Environment always
// wins over file values, matching how the original service was deployed.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.applyEnv()

	if cfg.View == "" {
		cfg.View = n2sql.DefaultView
	}
	if cfg.PageLimit <= 0 {
		cfg.PageLimit = n2sql.DefaultTopLimit
	}
	if cfg.DefaultRangeDays <= 0 {
		cfg.DefaultRangeDays = nlu.DefaultRangeWeeks * 7
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DATATALK_VIEW"); v != "" {
		c.View = v
	}
	if v := os.Getenv("DATATALK_GLOSSARY"); v != "" {
		c.GlossaryPath = v
	}
	if v := os.Getenv("DATATALK_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATATALK_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("DATATALK_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.PageLimit = n
		}
	}
	if v := os.Getenv("DATATALK_DEFAULT_RANGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultRangeDays = n
		}
	}
}

// Snapshot returns the non-secret configuration view served by
// /diag/env.
func (c *Config) Snapshot() map[string]any {
	return map[string]any{
		"view":               c.View,
		"page_limit":         c.PageLimit,
		"default_range_days": c.DefaultRangeDays,
		"glossary_set":       c.GlossaryPath != "",
		"addr":               c.Server.Addr,
		"log_level":          c.Logging.Level,
	}
}

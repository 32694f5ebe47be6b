// Package config loads the service configuration from config/app.yaml with
// environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// DefaultPath is where the server looks for its YAML file.
const DefaultPath = "config/app.yaml"

type Config struct {
	Server   ServerConfig   `yaml:"server" json:"server"`
	Timeline TimelineConfig `yaml:"timeline" json:"timeline"`
	Cache    CacheConfig    `yaml:"cache" json:"cache"`
	Formula  FormulaConfig  `yaml:"formula" json:"formula"`

	// DatabaseURL is only taken from the environment and never serialised.
	DatabaseURL string `yaml:"-" json:"-"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

type TimelineConfig struct {
	BaseURL        string `yaml:"base_url" json:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
}

// Timeout returns the configured request timeout, or 0 when unset.
func (t TimelineConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// CacheConfig controls the timeline response cache. It is off unless enabled.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	Dir        string `yaml:"dir" json:"dir"`
	TTLMinutes int    `yaml:"ttl_minutes" json:"ttl_minutes"`
}

// TTL returns how long a cached timeline stays valid, or 0 when unset.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

type FormulaConfig struct {
	StrictLookups    bool                   `yaml:"strict_lookups" json:"strict_lookups"`
	LiveCaseDefaults map[string]interface{} `yaml:"live_case_defaults" json:"live_case_defaults,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080"},
		Timeline: TimelineConfig{BaseURL: "http://localhost:8000", TimeoutSeconds: 60},
		Cache:    CacheConfig{Enabled: false, Dir: ".cache/timelines", TTLMinutes: 60},
	}
}

// Load reads path on top of Default and applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Parse(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		fmt.Printf("[CONFIG] %s not found, using defaults\n", path)
	default:
		return cfg, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse unmarshals YAML into cfg. Numbers in live_case_defaults are normalised to float64
// so they compare equal to JSON-decoded form values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	for k, v := range cfg.Formula.LiveCaseDefaults {
		switch n := v.(type) {
		case int:
			cfg.Formula.LiveCaseDefaults[k] = float64(n)
		case int64:
			cfg.Formula.LiveCaseDefaults[k] = float64(n)
		}
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Addr = ":" + v
	}
	if v := os.Getenv("TIMELINE_BACKEND_URL"); v != "" {
		c.Timeline.BaseURL = v
	}
	if v := os.Getenv("TIMELINE_CACHE_DIR"); v != "" {
		c.Cache.Dir = v
		c.Cache.Enabled = true
	}
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	return nil
}

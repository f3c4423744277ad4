/*
config.go - Server configuration loading

PURPOSE:
  Builds the server configuration from three layers, later layers winning:
  1. Built-in defaults
  2. Optional YAML config file (-config flag)
  3. Environment variables (a .env file is loaded first if present)

ENVIRONMENT VARIABLES:
  PORT                        HTTP server port
  DATABASE_PATH               SQLite database path (":memory:" works)
  CLOSEOUT_INTERVAL           Scheduler check interval, e.g. "30m", "1h"
  CLOSEOUT_ENABLED            "false" disables the closeout scheduler

SEE ALSO:
  - main.go: Startup sequence
  - api/scheduler.go: The closeout scheduler these knobs feed
*/
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the server settings.
type Config struct {
	Port         int    `yaml:"port"`
	DatabasePath string `yaml:"database_path"`

	Closeout struct {
		Enabled  bool          `yaml:"enabled"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"closeout"`
}

// UnmarshalYAML keeps Config a plain document; intervals are given as Go
// duration strings ("30m", "1h").
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Port         int    `yaml:"port"`
		DatabasePath string `yaml:"database_path"`
		Closeout     struct {
			Enabled  *bool  `yaml:"enabled"`
			Interval string `yaml:"interval"`
		} `yaml:"closeout"`
	}
	var r raw
	if err := value.Decode(&r); err != nil {
		return err
	}
	if r.Port != 0 {
		c.Port = r.Port
	}
	if r.DatabasePath != "" {
		c.DatabasePath = r.DatabasePath
	}
	if r.Closeout.Enabled != nil {
		c.Closeout.Enabled = *r.Closeout.Enabled
	}
	if r.Closeout.Interval != "" {
		d, err := time.ParseDuration(r.Closeout.Interval)
		if err != nil {
			return fmt.Errorf("closeout.interval: %w", err)
		}
		c.Closeout.Interval = d
	}
	return nil
}

func defaultConfig() Config {
	cfg := Config{
		Port:         8080,
		DatabasePath: "rotation.db",
	}
	cfg.Closeout.Enabled = true
	cfg.Closeout.Interval = 1 * time.Hour
	return cfg
}

// loadConfig layers the YAML file (if given) and environment variables over
// the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Port = p
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("CLOSEOUT_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid CLOSEOUT_INTERVAL %q: %w", v, err)
		}
		cfg.Closeout.Interval = d
	}
	if v := os.Getenv("CLOSEOUT_ENABLED"); v != "" {
		cfg.Closeout.Enabled = v != "false" && v != "0"
	}

	return cfg, nil
}

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 8080 || cfg.DatabasePath != "rotation.db" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if !cfg.Closeout.Enabled || cfg.Closeout.Interval != time.Hour {
		t.Errorf("Unexpected closeout defaults: %+v", cfg.Closeout)
	}
}

func TestLoadConfig_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	doc := "port: 9090\ndatabase_path: /tmp/x.db\ncloseout:\n  enabled: false\n  interval: 30m\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 9090 || cfg.DatabasePath != "/tmp/x.db" {
		t.Errorf("YAML values not applied: %+v", cfg)
	}
	if cfg.Closeout.Enabled || cfg.Closeout.Interval != 30*time.Minute {
		t.Errorf("YAML closeout values not applied: %+v", cfg.Closeout)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	if err := os.WriteFile(path, []byte("port: 9090\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("PORT", "7000")
	t.Setenv("CLOSEOUT_INTERVAL", "15m")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Port != 7000 {
		t.Errorf("Env PORT must win over file, got %d", cfg.Port)
	}
	if cfg.Closeout.Interval != 15*time.Minute {
		t.Errorf("Env interval not applied, got %v", cfg.Closeout.Interval)
	}
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := loadConfig(""); err == nil {
		t.Error("Expected error for invalid PORT")
	}
}

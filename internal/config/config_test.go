package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogDir != ".gtprobe/logs" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, ".gtprobe/logs")
	}
	if cfg.Encoding != "ascii" {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, "ascii")
	}
	if cfg.DiscoveryTimeout != 30*time.Second {
		t.Errorf("DiscoveryTimeout = %v, want 30s", cfg.DiscoveryTimeout)
	}
	if !cfg.Cache.Enabled {
		t.Error("Cache.Enabled = false, want true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, `log_level: debug
log_dir: /tmp/gtprobe-logs
encoding: utf-16le
markers:
  - "Catch v2"
discovery_timeout: 2m
path_syntax: windows
recursive: true
cache:
  enabled: false
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogDir != "/tmp/gtprobe-logs" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/tmp/gtprobe-logs")
	}
	if cfg.Encoding != "utf-16le" {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, "utf-16le")
	}
	if len(cfg.Markers) != 1 || cfg.Markers[0] != "Catch v2" {
		t.Errorf("Markers = %v, want [Catch v2]", cfg.Markers)
	}
	if cfg.DiscoveryTimeout != 2*time.Minute {
		t.Errorf("DiscoveryTimeout = %v, want 2m", cfg.DiscoveryTimeout)
	}
	if cfg.PathSyntax != "windows" {
		t.Errorf("PathSyntax = %q, want %q", cfg.PathSyntax, "windows")
	}
	if !cfg.Recursive {
		t.Error("Recursive = false, want true")
	}
	if cfg.Cache.Enabled {
		t.Error("Cache.Enabled = true, want false")
	}
	// omitted cache keys keep their defaults
	if cfg.Cache.DBPath != ".gtprobe/cache.db" {
		t.Errorf("Cache.DBPath = %q, want default", cfg.Cache.DBPath)
	}
	if cfg.Cache.KeepDays != 30 {
		t.Errorf("Cache.KeepDays = %d, want 30", cfg.Cache.KeepDays)
	}
}

func TestLoadConfigEmptyLogDirDisablesFileLogging(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "log_dir: \"\"\n"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.LogDir != "" {
		t.Errorf("LogDir = %q, want empty", cfg.LogDir)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}
	if cfg.Encoding != "ascii" {
		t.Errorf("Encoding = %q, want default", cfg.Encoding)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "malformed yaml", content: "log_level: [unclosed"},
		{name: "bad duration", content: "discovery_timeout: soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.content)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".gtprobe"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".gtprobe", "config.yaml"), []byte("log_level: warn\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFromDir(dir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	level := "trace"
	encoding := "utf-8"
	timeout := 5 * time.Second
	noCache := true

	cfg.MergeWithFlags(&level, nil, &encoding, &timeout, nil, &noCache)

	if cfg.LogLevel != "trace" {
		t.Errorf("LogLevel = %q, want trace", cfg.LogLevel)
	}
	if cfg.LogDir != ".gtprobe/logs" {
		t.Errorf("LogDir should be untouched by a nil flag, got %q", cfg.LogDir)
	}
	if cfg.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want utf-8", cfg.Encoding)
	}
	if cfg.DiscoveryTimeout != 5*time.Second {
		t.Errorf("DiscoveryTimeout = %v, want 5s", cfg.DiscoveryTimeout)
	}
	if cfg.Cache.Enabled {
		t.Error("--no-cache should disable the cache")
	}

	noCache = false
	cfg = DefaultConfig()
	cfg.MergeWithFlags(nil, nil, nil, nil, nil, &noCache)
	if !cfg.Cache.Enabled {
		t.Error("--no-cache=false must not disable the cache")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
		{name: "bad encoding", mutate: func(c *Config) { c.Encoding = "klingon" }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.DiscoveryTimeout = -time.Second }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.DiscoveryTimeout = 0 }},
		{name: "bad path syntax", mutate: func(c *Config) { c.PathSyntax = "vms" }, wantErr: true},
		{name: "empty db path", mutate: func(c *Config) { c.Cache.DBPath = "" }, wantErr: true},
		{name: "empty db path with cache off", mutate: func(c *Config) { c.Cache.DBPath = ""; c.Cache.Enabled = false }},
		{name: "negative keep days", mutate: func(c *Config) { c.Cache.KeepDays = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

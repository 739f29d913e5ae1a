package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harrison/gtprobe/internal/fileutil"
	"github.com/harrison/gtprobe/internal/logger"
	"gopkg.in/yaml.v3"
)

// CacheConfig represents discovery cache configuration
type CacheConfig struct {
	// Enabled turns the SQLite verdict cache on
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the cache database
	DBPath string `yaml:"db_path"`

	// KeepDays is how long verdicts are kept by "cache prune" (0 = forever)
	KeepDays int `yaml:"keep_days"`
}

// Config represents gtprobe configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory for per-run log files ("" disables file logging)
	LogDir string `yaml:"log_dir"`

	// Encoding is the WHATWG label used to decode binaries
	Encoding string `yaml:"encoding"`

	// Markers are added to the built-in Google Test markers
	Markers []string `yaml:"markers"`

	// DiscoveryTimeout bounds the parallel scan of one pattern (0 = no limit)
	DiscoveryTimeout time.Duration `yaml:"discovery_timeout"`

	// PathSyntax selects how patterns are validated: host, windows or posix
	PathSyntax string `yaml:"path_syntax"`

	// Recursive searches subdirectories of a pattern's directory
	Recursive bool `yaml:"recursive"`

	// Cache contains discovery cache configuration
	Cache CacheConfig `yaml:"cache"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:         "info",
		LogDir:           ".gtprobe/logs",
		Encoding:         "ascii",
		DiscoveryTimeout: 30 * time.Second,
		PathSyntax:       "host",
		Recursive:        false,
		Cache: CacheConfig{
			Enabled:  true,
			DBPath:   ".gtprobe/cache.db",
			KeepDays: 30,
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are written as strings ("30s") in YAML
	type yamlConfig struct {
		LogLevel         string      `yaml:"log_level"`
		LogDir           *string     `yaml:"log_dir"`
		Encoding         string      `yaml:"encoding"`
		Markers          []string    `yaml:"markers"`
		DiscoveryTimeout string      `yaml:"discovery_timeout"`
		PathSyntax       string      `yaml:"path_syntax"`
		Recursive        bool        `yaml:"recursive"`
		Cache            CacheConfig `yaml:"cache"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	// log_dir may be set to "" explicitly to disable file logging
	if yamlCfg.LogDir != nil {
		cfg.LogDir = *yamlCfg.LogDir
	}
	if yamlCfg.Encoding != "" {
		cfg.Encoding = yamlCfg.Encoding
	}
	if len(yamlCfg.Markers) > 0 {
		cfg.Markers = yamlCfg.Markers
	}
	if yamlCfg.DiscoveryTimeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.DiscoveryTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid discovery_timeout format %q: %w", yamlCfg.DiscoveryTimeout, err)
		}
		cfg.DiscoveryTimeout = timeout
	}
	if yamlCfg.PathSyntax != "" {
		cfg.PathSyntax = yamlCfg.PathSyntax
	}
	if yamlCfg.Recursive {
		cfg.Recursive = true
	}

	// Merge cache config field by field so omitted keys keep their defaults
	var rawMap map[string]interface{}
	if err := yaml.Unmarshal(data, &rawMap); err == nil {
		if section, exists := rawMap["cache"]; exists && section != nil {
			cacheMap, _ := section.(map[string]interface{})

			if _, exists := cacheMap["enabled"]; exists {
				cfg.Cache.Enabled = yamlCfg.Cache.Enabled
			}
			if _, exists := cacheMap["db_path"]; exists {
				cfg.Cache.DBPath = yamlCfg.Cache.DBPath
			}
			if _, exists := cacheMap["keep_days"]; exists {
				cfg.Cache.KeepDays = yamlCfg.Cache.KeepDays
			}
		}
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .gtprobe/config.yaml in the specified directory
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".gtprobe", "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(logLevel *string, logDir *string, encoding *string, timeout *time.Duration, pathSyntax *string, noCache *bool) {
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if encoding != nil {
		c.Encoding = *encoding
	}
	if timeout != nil {
		c.DiscoveryTimeout = *timeout
	}
	if pathSyntax != nil {
		c.PathSyntax = *pathSyntax
	}
	if noCache != nil && *noCache {
		c.Cache.Enabled = false
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if !logger.IsValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if _, err := fileutil.LookupEncoding(c.Encoding); err != nil {
		return fmt.Errorf("invalid encoding: %w", err)
	}

	if c.DiscoveryTimeout < 0 {
		return fmt.Errorf("discovery_timeout must be >= 0, got %v", c.DiscoveryTimeout)
	}

	if _, err := fileutil.SyntaxByName(c.PathSyntax); err != nil {
		return fmt.Errorf("invalid path_syntax: %w", err)
	}

	if c.Cache.Enabled && c.Cache.DBPath == "" {
		return fmt.Errorf("cache.db_path cannot be empty when the cache is enabled")
	}
	if c.Cache.KeepDays < 0 {
		return fmt.Errorf("cache.keep_days must be >= 0, got %d", c.Cache.KeepDays)
	}

	return nil
}

// Syntax returns the configured path syntax. Call Validate first.
func (c *Config) Syntax() fileutil.PathSyntax {
	syntax, err := fileutil.SyntaxByName(c.PathSyntax)
	if err != nil {
		return fileutil.HostSyntax()
	}
	return syntax
}

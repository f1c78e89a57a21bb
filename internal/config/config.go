// Package config provides configuration for fstabgen. Configuration is
// loaded from a JSON file at /etc/fstabgen/config.json (overridable via
// the FSTABGEN_CONFIG environment variable). A generator must run on an
// unconfigured system, so a missing file yields the defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/spin-stack/fstabgen/internal/paths"
)

const (
	// DefaultConfigPath is the default location for the config file
	DefaultConfigPath = "/etc/fstabgen/config.json"

	// ConfigEnvVar is the environment variable to override config file location
	ConfigEnvVar = "FSTABGEN_CONFIG"
)

// Config is the root configuration structure
type Config struct {
	// FstabPath is the mount table to translate.
	FstabPath string `json:"fstab_path"`

	// SysrootFstabPath is the host mount table consulted in the
	// early-boot pass.
	SysrootFstabPath string `json:"sysroot_fstab_path"`

	// IgnoredMountPoints are additional mount points to skip, merged
	// with the built-in API filesystem list. Each must be an absolute
	// path.
	IgnoredMountPoints []string `json:"ignored_mount_points"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		FstabPath:        paths.GetFstabPath(),
		SysrootFstabPath: paths.GetSysrootFstabPath(),
	}
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.Mutex
	errConfig    error
)

// Reset clears the cached global config, forcing the next Get() call to reload.
// This is intended for testing only.
func Reset() {
	configMu.Lock()
	defer configMu.Unlock()
	globalConfig = nil
	errConfig = nil
	configOnce = sync.Once{}
}

// Get returns the global config, loading it on first call.
func Get() (*Config, error) {
	configOnce.Do(func() {
		globalConfig, errConfig = Load()
	})
	return globalConfig, errConfig
}

// Load loads configuration from FSTABGEN_CONFIG or /etc/fstabgen/config.json.
// A missing file is not an error: the defaults are returned.
func Load() (*Config, error) {
	configPath := os.Getenv(ConfigEnvVar)
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// LoadFrom loads configuration from a specific path. Unset fields keep
// their default values.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return cfg, nil
}

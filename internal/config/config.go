// ABOUTME: Tiers configuration management with backend selection
// ABOUTME: Handles settings, environment overrides, and storage backend factory

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/tiers/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
)

// Config stores tiers configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "badger".
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for data storage.
	// SQLite puts tiers.db here; badger uses a badger/ subdirectory.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/tiers.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// defaultDataDir returns the default XDG data directory for tiers.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "tiers")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// BackendPath returns where a backend keeps its files inside dataDir.
func BackendPath(backend, dataDir string) (string, error) {
	switch backend {
	case BackendSQLite:
		return filepath.Join(dataDir, "tiers.db"), nil
	case BackendBadger:
		return filepath.Join(dataDir, "badger"), nil
	default:
		return "", fmt.Errorf("unknown backend: %q", backend)
	}
}

// OpenBackend creates a Repository for an explicit backend and data directory.
func OpenBackend(backend, dataDir string, log zerolog.Logger) (storage.Repository, error) {
	path, err := BackendPath(backend, dataDir)
	if err != nil {
		return nil, err
	}
	if backend == BackendBadger {
		return storage.NewBadgerStore(path, storage.WithLogger(log))
	}
	return storage.NewSQLiteDB(path, storage.WithLogger(log))
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage(log zerolog.Logger) (storage.Repository, error) {
	return OpenBackend(c.GetBackend(), c.GetDataDir(), log)
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "tiers", "config.json")
}

// Load reads config from disk. TIERS_BACKEND, TIERS_DATA_DIR and
// TIERS_LOG_LEVEL override file values. A missing file yields defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("backend", BackendSQLite)
	v.SetDefault("data_dir", "")
	v.SetDefault("log_level", "info")
	v.SetEnvPrefix("TIERS")
	v.AutomaticEnv()

	path := GetConfigPath()
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Set updates a single key by its config file name.
func (c *Config) Set(key, value string) error {
	switch key {
	case "backend":
		if value != BackendSQLite && value != BackendBadger {
			return fmt.Errorf("invalid backend %q: must be %q or %q", value, BackendSQLite, BackendBadger)
		}
		c.Backend = value
	case "data_dir":
		c.DataDir = value
	case "log_level":
		c.LogLevel = value
	default:
		return fmt.Errorf("unknown config key %q (use backend, data_dir, or log_level)", key)
	}
	return nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// atomicWrite writes data to a temp file beside path and renames it into place.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user config directory
		return fmt.Errorf("create config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	return os.Rename(tmpName, path)
}

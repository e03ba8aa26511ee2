// ABOUTME: Liftlog configuration: data directory, logging, and display units.
// ABOUTME: Loaded through viper from a JSON file with LIFTLOG_* environment overrides.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/harperreed/liftlog/internal/prefs"
	"github.com/harperreed/liftlog/internal/storage"
)

const (
	keyDataDir    = "data_dir"
	keyLogLevel   = "log_level"
	keyWeightUnit = "weight_unit"

	defaultLogLevel   = "info"
	defaultWeightUnit = "lb"

	envPrefix = "LIFTLOG"
)

// Config stores liftlog configuration.
type Config struct {
	// DataDir is the root directory for liftlog.db, prefs/, and the log file.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/liftlog.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`

	// WeightUnit labels weights in output: "lb" or "kg". Stored weights are unitless.
	WeightUnit string `json:"weight_unit,omitempty" mapstructure:"weight_unit"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to info.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return defaultLogLevel
	}
	return strings.ToLower(c.LogLevel)
}

// GetWeightUnit returns the weight unit label, defaulting to lb.
func (c *Config) GetWeightUnit() string {
	switch strings.ToLower(c.WeightUnit) {
	case "kg":
		return "kg"
	default:
		return defaultWeightUnit
	}
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), storage.DBFileName)
}

// PrefsDir returns the preferences database directory.
func (c *Config) PrefsDir() string {
	return filepath.Join(c.GetDataDir(), "prefs")
}

// EntitlementPath returns the purchase marker path.
func (c *Config) EntitlementPath() string {
	return prefs.EntitlementPath(c.GetDataDir())
}

// LogPath returns the rotated log file path.
func (c *Config) LogPath() string {
	return filepath.Join(c.GetDataDir(), "liftlog.log")
}

// OpenStorage opens the database. Callers run the schema manager next.
func (c *Config) OpenStorage() (*storage.DB, error) {
	return storage.Open(c.DBPath())
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

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "liftlog", "config.json")
}

// Load reads config from disk. A missing file is not an error. Environment
// variables such as LIFTLOG_DATA_DIR override file values.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom reads config from path with environment overrides applied.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault(keyDataDir, "")
	v.SetDefault(keyLogLevel, defaultLogLevel)
	v.SetDefault(keyWeightUnit, defaultWeightUnit)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path as indented JSON.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

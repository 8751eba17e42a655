package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	UI      UIConfig      `mapstructure:"ui"`
	Viewer  ViewerConfig  `mapstructure:"viewer"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds catalog API configuration
type ServerConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	Retries  int           `mapstructure:"retries"`   // Retries on connectivity failures and 5xx
	PageSize int           `mapstructure:"page_size"` // Products per page (first page and full refresh)
}

// StoreConfig holds local cache configuration
type StoreConfig struct {
	Driver string `mapstructure:"driver"` // "sqlite", "bolt" or "memory"
	Path   string `mapstructure:"path"`   // Directory holding the database file
}

// UIConfig holds UI configuration
type UIConfig struct {
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

// ViewerConfig holds the external image viewer configuration
type ViewerConfig struct {
	Command string   `mapstructure:"command"` // empty for the system default
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL:  "https://dummyjson.com",
			Timeout:  30 * time.Second,
			Retries:  2,
			PageSize: 30,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   defaultCachePath(),
		},
		UI: UIConfig{
			SearchDebounce: 300 * time.Millisecond,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf", "shelf.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf", "shelf.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "shelf")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shelf")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "shelf", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "shelf", "cache")
	}
}

// newViper returns a viper instance with defaults, search paths and env overrides
func newViper(configFile string) *viper.Viper {
	v := viper.New()
	def := DefaultConfig()

	v.SetDefault("server.base_url", def.Server.BaseURL)
	v.SetDefault("server.timeout", def.Server.Timeout)
	v.SetDefault("server.retries", def.Server.Retries)
	v.SetDefault("server.page_size", def.Server.PageSize)
	v.SetDefault("store.driver", def.Store.Driver)
	v.SetDefault("store.path", def.Store.Path)
	v.SetDefault("ui.search_debounce", def.UI.SearchDebounce)
	v.SetDefault("viewer.command", def.Viewer.Command)
	v.SetDefault("viewer.args", []string{})
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.level", def.Logging.Level)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	// Environment variable overrides, e.g. SHELF_SERVER_BASE_URL
	v.SetEnvPrefix("SHELF")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	return v
}

// LoadConfig loads configuration from file and environment.
// An empty configFile searches the default locations.
func LoadConfig(configFile string) (*Config, error) {
	v := newViper(configFile)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveConfig writes the configuration to path (default location when empty)
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.Set("server.base_url", cfg.Server.BaseURL)
	v.Set("server.timeout", cfg.Server.Timeout.String())
	v.Set("server.retries", cfg.Server.Retries)
	v.Set("server.page_size", cfg.Server.PageSize)
	v.Set("store.driver", cfg.Store.Driver)
	v.Set("store.path", cfg.Store.Path)
	v.Set("ui.search_debounce", cfg.UI.SearchDebounce.String())
	v.Set("viewer.command", cfg.Viewer.Command)
	v.Set("viewer.args", cfg.Viewer.Args)
	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail late
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return errors.New("server.base_url is required")
	}
	if c.Server.PageSize <= 0 {
		return fmt.Errorf("server.page_size must be positive, got %d", c.Server.PageSize)
	}
	if c.UI.SearchDebounce < 0 {
		return fmt.Errorf("ui.search_debounce must not be negative, got %s", c.UI.SearchDebounce)
	}
	if _, err := parseLogLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Store.Driver {
	case "sqlite", "bolt", "memory":
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	return nil
}

// ClearCache removes all cached data
func ClearCache(cfg *Config) error {
	if err := os.RemoveAll(cfg.Store.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

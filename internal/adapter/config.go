package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mmcdole/gamedeck/internal/domain"
	"github.com/spf13/viper"
)

const envPrefix = "GAMEDECK"

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds catalog API configuration
type ServerConfig struct {
	URL     string        `mapstructure:"url"` // API root, e.g. http://localhost:5002/api
	Timeout time.Duration `mapstructure:"timeout"`
}

// BrowseConfig holds games list behavior
type BrowseConfig struct {
	PageSize        int           `mapstructure:"page_size"`
	Ordering        string        `mapstructure:"ordering"`
	FilterDebounce  time.Duration `mapstructure:"filter_debounce"`
	SearchDebounce  time.Duration `mapstructure:"search_debounce"`
	QuickSearchSize int           `mapstructure:"quick_search_size"`
	HasMoreFrom     string        `mapstructure:"has_more_from"` // auto, next, pagination, has_more, total
}

// UIConfig holds UI configuration
type UIConfig struct {
	StartScreen string `mapstructure:"start_screen"` // home or games
	Browser     string `mapstructure:"browser"`      // command used to open links, empty for system default
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
			URL:     "http://localhost:5002/api",
			Timeout: 30 * time.Second,
		},
		Browse: BrowseConfig{
			PageSize:        domain.DefaultPageSize,
			Ordering:        string(domain.DefaultOrdering),
			FilterDebounce:  500 * time.Millisecond,
			SearchDebounce:  300 * time.Millisecond,
			QuickSearchSize: domain.QuickSearchSize,
			HasMoreFrom:     "auto",
		},
		UI: UIConfig{
			StartScreen: "home",
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
		return filepath.Join(os.Getenv("APPDATA"), "gamedeck", "gamedeck.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "gamedeck", "gamedeck.log")
	}
}

// DefaultConfigDir returns the default config directory for the current OS
func DefaultConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "gamedeck")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "gamedeck")
	}
}

// LoadConfig loads configuration from ./.env, the config file and
// GAMEDECK_* environment variables, in increasing precedence.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env: %w", err)
	}
	return loadConfig(viper.GetViper(), DefaultConfigDir(), ".")
}

// LoadConfigDir loads configuration using only dir as the search path
func LoadConfigDir(dir string) (*Config, error) {
	return loadConfig(viper.New(), dir)
}

func loadConfig(v *viper.Viper, paths ...string) (*Config, error) {
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	// GAMEDECK_SERVER_URL overrides server.url
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so environment overrides apply to keys
// absent from the file.
func setDefaults(v *viper.Viper, cfg *Config) {
	for key, val := range configValues(cfg) {
		v.SetDefault(key, val)
	}
}

func configValues(cfg *Config) map[string]any {
	return map[string]any{
		"server.url":               cfg.Server.URL,
		"server.timeout":           cfg.Server.Timeout.String(),
		"browse.page_size":         cfg.Browse.PageSize,
		"browse.ordering":          cfg.Browse.Ordering,
		"browse.filter_debounce":   cfg.Browse.FilterDebounce.String(),
		"browse.search_debounce":   cfg.Browse.SearchDebounce.String(),
		"browse.quick_search_size": cfg.Browse.QuickSearchSize,
		"browse.has_more_from":     cfg.Browse.HasMoreFrom,
		"ui.start_screen":          cfg.UI.StartScreen,
		"ui.browser":               cfg.UI.Browser,
		"logging.file":             cfg.Logging.File,
		"logging.level":            cfg.Logging.Level,
	}
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	if c.Browse.PageSize < 1 || c.Browse.PageSize > 100 {
		return fmt.Errorf("browse.page_size must be between 1 and 100, got %d", c.Browse.PageSize)
	}
	if !domain.Ordering(c.Browse.Ordering).Valid() {
		return fmt.Errorf("browse.ordering: unknown ordering %q", c.Browse.Ordering)
	}
	if c.Browse.FilterDebounce < 0 || c.Browse.SearchDebounce < 0 {
		return fmt.Errorf("browse debounce delays must not be negative")
	}
	switch c.UI.StartScreen {
	case "home", "games":
	default:
		return fmt.Errorf("ui.start_screen must be home or games, got %q", c.UI.StartScreen)
	}
	return nil
}

// IsConfigured returns true if the server URL is set
func (c *Config) IsConfigured() bool {
	return c.Server.URL != ""
}

// SaveConfig saves the configuration to the default config file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), DefaultConfigDir(), cfg)
}

// SaveConfigDir saves the configuration to dir/config.yaml
func SaveConfigDir(dir string, cfg *Config) error {
	return saveConfig(viper.New(), dir, cfg)
}

func saveConfig(v *viper.Viper, dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to keep snake_case key names
	for key, val := range configValues(cfg) {
		v.Set(key, val)
	}

	configFile := filepath.Join(dir, "config.yaml")
	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

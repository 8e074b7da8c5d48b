package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mmcdole/kinopick/internal/domain"
	"github.com/mmcdole/kinopick/internal/export"
	"github.com/mmcdole/kinopick/internal/library"
	"github.com/mmcdole/kinopick/internal/log"
	"github.com/mmcdole/kinopick/internal/picker"
	"github.com/mmcdole/kinopick/internal/tui/styles"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Library LibraryConfig `mapstructure:"library"`
	Picker  PickerConfig  `mapstructure:"picker"`
	UI      UIConfig      `mapstructure:"ui"`
	Output  OutputConfig  `mapstructure:"output"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging log.Config    `mapstructure:"logging"`
}

// LibraryConfig holds media library configuration
type LibraryConfig struct {
	Root          string   `mapstructure:"root"`
	Include       []string `mapstructure:"include"`
	Recursive     bool     `mapstructure:"recursive"`
	IncludeHidden bool     `mapstructure:"include_hidden"`
	Watch         bool     `mapstructure:"watch"`
}

// PickerConfig holds selection policy and alert copy
type PickerConfig struct {
	Mode                 string `mapstructure:"mode"` // "single" or "multiple"
	MinSelection         int    `mapstructure:"min_selection"`
	MaxSelection         int    `mapstructure:"max_selection"` // -1 = unlimited
	SortDirection        string `mapstructure:"sort_direction"`
	AlertTitle           string `mapstructure:"alert_title"`
	AlertButtonTitle     string `mapstructure:"alert_button_title"`
	ShowLoadingIndicator bool   `mapstructure:"show_loading_indicator"`
	MaxAssetSize         int64  `mapstructure:"max_asset_size"` // bytes; larger assets cannot be picked, 0 = no cap
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	GridColumns int    `mapstructure:"grid_columns"`
}

// OutputConfig controls how a finished pick is printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// CacheConfig controls the scan cache
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Library: LibraryConfig{
			Root:      ".",
			Include:   append([]string(nil), library.DefaultInclude...),
			Recursive: true,
		},
		Picker: PickerConfig{
			Mode:                 "multiple",
			MaxSelection:         domain.Unlimited,
			SortDirection:        "ascending",
			AlertTitle:           "Selection limit reached",
			AlertButtonTitle:     "OK",
			ShowLoadingIndicator: true,
		},
		UI: UIConfig{
			Theme:       styles.DefaultTheme,
			GridColumns: 4,
		},
		Output: OutputConfig{
			Format: "paths",
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     defaultCachePath(),
		},
		Logging: log.Config{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "kinopick", "kinopick.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "kinopick", "kinopick.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "kinopick")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "kinopick")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "kinopick")
	}
}

// DefaultConfigFile returns the config file written by SaveConfig when no
// path is given
func DefaultConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "kinopick", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "kinopick", "cache")
	}
}

// newViper builds a viper instance seeded with cfg. Every key needs a
// default for KINOPICK_* environment overrides to apply.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("library.root", cfg.Library.Root)
	v.SetDefault("library.include", cfg.Library.Include)
	v.SetDefault("library.recursive", cfg.Library.Recursive)
	v.SetDefault("library.include_hidden", cfg.Library.IncludeHidden)
	v.SetDefault("library.watch", cfg.Library.Watch)
	v.SetDefault("picker.mode", cfg.Picker.Mode)
	v.SetDefault("picker.min_selection", cfg.Picker.MinSelection)
	v.SetDefault("picker.max_selection", cfg.Picker.MaxSelection)
	v.SetDefault("picker.sort_direction", cfg.Picker.SortDirection)
	v.SetDefault("picker.alert_title", cfg.Picker.AlertTitle)
	v.SetDefault("picker.alert_button_title", cfg.Picker.AlertButtonTitle)
	v.SetDefault("picker.show_loading_indicator", cfg.Picker.ShowLoadingIndicator)
	v.SetDefault("picker.max_asset_size", cfg.Picker.MaxAssetSize)
	v.SetDefault("ui.theme", cfg.UI.Theme)
	v.SetDefault("ui.grid_columns", cfg.UI.GridColumns)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
	return v
}

// Load reads configuration from path, or from the default locations when
// path is empty. A missing default file is not an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)
	v.SetEnvPrefix("KINOPICK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, or to the default location when
// path is empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigFile()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(cfg)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate checks enumerated values and bounds
func (c *Config) Validate() error {
	if _, err := domain.ParseMode(c.Picker.Mode); err != nil {
		return err
	}
	if _, err := domain.ParseSortDirection(c.Picker.SortDirection); err != nil {
		return err
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return err
	}
	if err := c.PickerOptions().Validate(); err != nil {
		return err
	}
	if c.Picker.MaxAssetSize < 0 {
		return fmt.Errorf("picker.max_asset_size must not be negative, got %d", c.Picker.MaxAssetSize)
	}
	if !styles.ValidTheme(c.UI.Theme) {
		return fmt.Errorf("ui.theme %q is not one of %s", c.UI.Theme, strings.Join(styles.Themes(), ", "))
	}
	if c.UI.GridColumns < 1 {
		return fmt.Errorf("ui.grid_columns must be at least 1, got %d", c.UI.GridColumns)
	}
	return nil
}

// Mode returns the parsed selection mode (multiple when invalid)
func (c *Config) Mode() domain.Mode {
	m, _ := domain.ParseMode(c.Picker.Mode)
	return m
}

// SortDirection returns the parsed initial sort direction (ascending when invalid)
func (c *Config) SortDirection() domain.SortDirection {
	d, _ := domain.ParseSortDirection(c.Picker.SortDirection)
	return d
}

// Bounds returns the configured selection bounds
func (c *Config) Bounds() domain.Bounds {
	return domain.Bounds{Min: c.Picker.MinSelection, Max: c.Picker.MaxSelection}
}

// PickerOptions converts the picker section into controller options
func (c *Config) PickerOptions() picker.Options {
	return picker.Options{
		Mode:                 c.Mode(),
		Bounds:               c.Bounds(),
		AlertTitle:           c.Picker.AlertTitle,
		AlertButtonTitle:     c.Picker.AlertButtonTitle,
		ShowLoadingIndicator: c.Picker.ShowLoadingIndicator,
	}
}

// LibraryOptions converts the library section into scanner options
func (c *Config) LibraryOptions() library.Options {
	return library.Options{
		Include:       c.Library.Include,
		Recursive:     c.Library.Recursive,
		IncludeHidden: c.Library.IncludeHidden,
	}
}

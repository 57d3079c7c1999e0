package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Grid     GridConfig
	Log      LogConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
	// Migrations, when set, is a directory of migration files applied instead
	// of the embedded set.
	Migrations string
}

// GridConfig holds the per-instance defaults handed to every grid.
type GridConfig struct {
	PageSize        int   `mapstructure:"page_size"`
	PageSizeOptions []int `mapstructure:"page_size_options"`
	Locale          string
	Selectable      bool
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
	// File receives log output while the TUI owns the terminal.
	File string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Dataset    string
	DateFormat string `mapstructure:"date_format"`
}

func defaultDir(parts ...string) string {
	return filepath.Join(append([]string{os.Getenv("HOME")}, parts...)...)
}

// Path returns the config file location: GRIDKIT_CONFIG when set, otherwise
// $HOME/.config/gridkit/config.toml.
func Path() string {
	if p := os.Getenv("GRIDKIT_CONFIG"); p != "" {
		return p
	}
	return defaultDir(".config", "gridkit", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix GRIDKIT_.
func Load() (Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file. An empty path falls back to
// Path(). A missing file is not an error.
func LoadFile(path string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", defaultDir(".local", "share", "gridkit", "gridkit.db"))
	v.SetDefault("database.migrations", "")
	v.SetDefault("grid.page_size", 10)
	v.SetDefault("grid.page_size_options", []int{10, 20, 50, 100})
	v.SetDefault("grid.locale", "en")
	v.SetDefault("grid.selectable", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", defaultDir(".local", "state", "gridkit", "gridkit.log"))
	v.SetDefault("ui.dataset", "people")
	v.SetDefault("ui.date_format", "2006-01-02")

	v.SetConfigType("toml")
	if path == "" {
		path = Path()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("GRIDKIT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// a missing file leaves defaults and env in place
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes cfg as TOML to path.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("grid.page_size", cfg.Grid.PageSize)
	v.Set("grid.page_size_options", cfg.Grid.PageSizeOptions)
	v.Set("grid.locale", cfg.Grid.Locale)
	v.Set("grid.selectable", cfg.Grid.Selectable)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("ui.dataset", cfg.UI.Dataset)
	v.Set("ui.date_format", cfg.UI.DateFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Package config loads taskmgr configuration.
//
// Values are resolved in priority order:
//  1. Defaults
//  2. Config file (config.toml or config.yaml in the config dir, or --config)
//  3. Environment variables (TASKMGR_USER_NAME, TASKMGR_STORAGE_BACKEND, ...)
//  4. CLI flags
package config

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// AppName is the application directory name.
const AppName = "taskmgr"

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "TASKMGR"

// Config is the resolved configuration.
type Config struct {
	User    UserConfig    `mapstructure:"user" yaml:"user" toml:"user"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage" toml:"storage"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server" toml:"server"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" toml:"log"`
	UI      UIConfig      `mapstructure:"ui" yaml:"ui" toml:"ui"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-" toml:"-"`
}

// UserConfig holds the identity shown in every view.
type UserConfig struct {
	// Name is the display name ("Welcome, {name}"). Fixed for the process lifetime.
	Name string `mapstructure:"name" yaml:"name" toml:"name"`
}

// StorageConfig selects where the task list is persisted.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" toml:"backend"`
	Dir     string `mapstructure:"dir" yaml:"dir" toml:"dir"`
	Key     string `mapstructure:"key" yaml:"key" toml:"key"`
}

// ServerConfig configures `taskmgr serve`.
type ServerConfig struct {
	Host  string `mapstructure:"host" yaml:"host" toml:"host"`
	Port  int    `mapstructure:"port" yaml:"port" toml:"port"`
	Watch bool   `mapstructure:"watch" yaml:"watch" toml:"watch"`
}

// LogConfig configures the log sink.
type LogConfig struct {
	File       string `mapstructure:"file" yaml:"file" toml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" toml:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" toml:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" toml:"max_age_days"`
	Debug      bool   `mapstructure:"debug" yaml:"debug" toml:"debug"`
}

// UIConfig configures terminal output.
type UIConfig struct {
	NoColor bool `mapstructure:"no_color" yaml:"no_color" toml:"no_color"`
}

// Options controls where Load looks for configuration.
type Options struct {
	// File is an explicit config file; it must exist.
	File string

	// SearchDirs are searched for config.toml / config.yaml when File is empty
	// (default: DefaultConfigDir()).
	SearchDirs []string

	// Flags are bound over file and environment values. Flags that were not
	// set on the command line do not override anything.
	Flags *pflag.FlagSet
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"user":        "user.name",
	"backend":     "storage.backend",
	"data-dir":    "storage.dir",
	"storage-key": "storage.key",
	"host":        "server.host",
	"port":        "server.port",
	"watch":       "server.watch",
	"log-file":    "log.file",
	"debug":       "log.debug",
	"no-color":    "ui.no_color",
}

// Load resolves configuration from defaults, file, environment and flags.
func Load(opts Options) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	file, err := readConfigFile(v, opts)
	if err != nil {
		return nil, err
	}

	if opts.Flags != nil {
		for name, key := range flagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = file

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func readConfigFile(v *viper.Viper, opts Options) (string, error) {
	if opts.File != "" {
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return "", fmt.Errorf("failed to read config file %s: %w", opts.File, err)
		}
		return v.ConfigFileUsed(), nil
	}

	dirs := opts.SearchDirs
	if dirs == nil {
		dirs = []string{DefaultConfigDir()}
	}
	if len(dirs) == 0 {
		return "", nil
	}

	v.SetConfigName("config")
	for _, dir := range dirs {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read config file: %w", err)
	}
	return v.ConfigFileUsed(), nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("user.name", d.User.Name)
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.dir", d.Storage.Dir)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.watch", d.Server.Watch)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.max_size_mb", d.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", d.Log.MaxBackups)
	v.SetDefault("log.max_age_days", d.Log.MaxAgeDays)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("ui.no_color", d.UI.NoColor)
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		User: UserConfig{Name: defaultUserName()},
		Storage: StorageConfig{
			Backend: "file",
			Dir:     DefaultDataDir(),
			Key:     "tasks",
		},
		Server: ServerConfig{
			Host:  "localhost",
			Port:  8080,
			Watch: true,
		},
		Log: LogConfig{
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks that the resolved values are usable.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid storage.backend %q (want file, sqlite or memory)", c.Storage.Backend)
	}
	if c.Storage.Backend != "memory" && c.Storage.Dir == "" {
		return fmt.Errorf("storage.dir is required for the %s backend", c.Storage.Backend)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("storage.key must not be empty")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 0 and 65535 (got %d)", c.Server.Port)
	}
	return nil
}

// DefaultConfigDir returns $XDG_CONFIG_HOME/taskmgr or $HOME/.config/taskmgr.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return "." + AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// DefaultDataDir returns $XDG_DATA_HOME/taskmgr or $HOME/.local/share/taskmgr.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, ".local", "share", AppName)
}

func defaultUserName() string {
	if u, err := user.Current(); err == nil {
		if u.Name != "" {
			return u.Name
		}
		if u.Username != "" {
			return u.Username
		}
	}
	return "guest"
}

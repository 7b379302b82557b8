// Package config loads runtime settings from defaults, an optional config
// file, REQLINE_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "REQLINE"

// ErrNoConfigFile is returned by Watch when no config file was loaded.
var ErrNoConfigFile = errors.New("config: no config file to watch")

// Config is the full set of runtime settings.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Batch  BatchConfig  `mapstructure:"batch"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// BatchConfig configures the batch parse endpoint.
type BatchConfig struct {
	Workers  int `mapstructure:"workers"`
	MaxItems int `mapstructure:"max_items"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Encoding   string `mapstructure:"encoding"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Loader wraps a viper instance so that reloads see the same sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults and environment binding in place.
func NewLoader() *Loader {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 5*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)
	v.SetDefault("server.max_body_bytes", 64<<10)
	v.SetDefault("batch.workers", 8)
	v.SetDefault("batch.max_items", 256)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.encoding", "json")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

// Flags returns the flag set understood by BindFlags.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "path to a config file (yaml, json or toml)")
	fs.String("addr", "", "listen address (server.addr)")
	fs.String("log-level", "", "log level: debug, info, warn, error (log.level)")
	fs.String("log-file", "", "write logs to this file with rotation (log.file)")
	return fs
}

// BindFlags binds the flags from Flags onto their config keys and loads the
// file named by --config, if any. Unset flags do not override other sources.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for flag, key := range map[string]string{
		"addr":      "server.addr",
		"log-level": "log.level",
		"log-file":  "log.file",
	} {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("config: bind flag %s: %w", flag, err)
		}
	}

	path, err := fs.GetString("config")
	if err != nil || path == "" {
		return nil
	}
	return l.ReadFile(path)
}

// ReadFile merges the given config file into the loader.
func (l *Loader) ReadFile(path string) error {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	return nil
}

// Load decodes the current settings and validates them.
func (l *Loader) Load() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch calls onChange with the reloaded config every time the config file
// changes. Reloads that fail validation are passed to onError and dropped.
func (l *Loader) Watch(onChange func(*Config), onError func(error)) error {
	if l.v.ConfigFileUsed() == "" {
		return ErrNoConfigFile
	}
	l.v.OnConfigChange(func(e fsnotify.Event) {
		if e.Op&(fsnotify.Write|fsnotify.Create) == 0 {
			return
		}
		cfg, err := l.Load()
		if err != nil {
			if onError != nil {
				onError(fmt.Errorf("config: reload %s: %w", e.Name, err))
			}
			return
		}
		onChange(cfg)
	})
	l.v.WatchConfig()
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return errors.New("config: server.addr is empty")
	case c.Server.MaxBodyBytes <= 0:
		return fmt.Errorf("config: server.max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes)
	case c.Batch.Workers <= 0:
		return fmt.Errorf("config: batch.workers must be positive, got %d", c.Batch.Workers)
	case c.Batch.MaxItems <= 0:
		return fmt.Errorf("config: batch.max_items must be positive, got %d", c.Batch.MaxItems)
	}
	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.encoding must be json or console, got %q", c.Log.Encoding)
	}
	return nil
}

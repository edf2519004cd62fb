// Package config loads the settings shared by the bible commands and the
// server. Values are taken from command-line flags first, then the config
// file, then the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultVersion    = "kjv"
	DefaultTimeout    = 10 * time.Second
	DefaultListenAddr = ":42069"
)

// ErrMissingAPIKey is returned by Validate when no API key was configured.
var ErrMissingAPIKey = errors.New("no api key configured: set --api-key, api_key in the config file or BIBLE_API_KEY")

// Mailgun holds the credentials used to email verses.
type Mailgun struct {
	Domain string `mapstructure:"domain"`
	APIKey string `mapstructure:"api_key"`
	Sender string `mapstructure:"sender"`
}

// Config is the resolved configuration of one invocation.
type Config struct {
	APIKey       string        `mapstructure:"api_key"`
	BibleVersion string        `mapstructure:"bible_version"`
	Database     string        `mapstructure:"database"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ListenAddr   string        `mapstructure:"listen_addr"`
	Mailgun      Mailgun       `mapstructure:"mailgun"`
}

// envKeys maps config keys to the environment variables that may set them.
var envKeys = map[string]string{
	"api_key":         "BIBLE_API_KEY",
	"bible_version":   "BIBLE_VERSION",
	"database":        "BIBLE_DATABASE",
	"timeout":         "BIBLE_TIMEOUT",
	"listen_addr":     "BIBLE_LISTEN_ADDR",
	"mailgun.domain":  "MAILGUN_DOMAIN",
	"mailgun.api_key": "MAILGUN_API_KEY",
	"mailgun.sender":  "MAILGUN_SENDER",
}

// flagKeys maps flag names to config keys.
var flagKeys = map[string]string{
	"api-key":       "api_key",
	"bible-version": "bible_version",
	"database":      "database",
	"timeout":       "timeout",
	"listen-addr":   "listen_addr",
}

// DefaultPath returns $XDG_CONFIG_HOME/bible/config.toml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to find config directory: %w", err)
	}
	return filepath.Join(dir, "bible", "config.toml"), nil
}

// DefaultDatabase returns the path of the history database used when none
// is configured.
func DefaultDatabase() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bible", "history.db")
}

// Load reads the configuration. path names a TOML config file; when empty
// the default path is used if it exists. flags may be nil; only flags the
// user actually set override the file.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetDefault("bible_version", DefaultVersion)
	v.SetDefault("timeout", DefaultTimeout)
	v.SetDefault("listen_addr", DefaultListenAddr)
	v.SetDefault("database", DefaultDatabase())

	// viper ranks the environment above the config file, so environment
	// values are registered as defaults to sit below it.
	for key, env := range envKeys {
		if val, ok := os.LookupEnv(env); ok && val != "" {
			v.SetDefault(key, val)
		}
	}

	v.SetConfigType("toml")
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			slog.Debug("no default config path", "error", err)
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
			slog.Debug("config file not found", "path", path)
		} else {
			slog.Debug("loaded config file", "path", v.ConfigFileUsed())
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				v.Set(key, f.Value.String())
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Validate reports configuration the API cannot work without.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.BibleVersion == "" {
		return errors.New("no bible version configured")
	}
	return nil
}

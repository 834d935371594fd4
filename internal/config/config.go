// Package config loads blogctl settings from blogctl.yaml, BLOGCTL_* variables and flags.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mdobak/go-xerrors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "BLOGCTL"
	FileName  = "blogctl"

	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMemory   = "memory"

	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	List     ListConfig     `mapstructure:"list"`
	Comments CommentsConfig `mapstructure:"comments"`
	Session  SessionConfig  `mapstructure:"session"`
	Log      LogConfig      `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type APIConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type ListConfig struct {
	PageSize       int           `mapstructure:"page_size"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
	TagDebounce    time.Duration `mapstructure:"tag_debounce"`
}

type CommentsConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type SessionConfig struct {
	Backend       string `mapstructure:"backend"`
	File          string `mapstructure:"file"`
	DSN           string `mapstructure:"dsn"`
	Namespace     string `mapstructure:"namespace"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type OutputConfig struct {
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	// Dump prints the collected request metrics to stderr when a command finishes.
	Dump bool `mapstructure:"dump"`
}

// Load reads configuration. configFile overrides the search path when set; flags, when not nil,
// take precedence over everything else.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, FileName))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, xerrors.New(err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, xerrors.Newf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, xerrors.Newf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagBindings maps config keys to the persistent flags of the root command.
var flagBindings = map[string]string{
	"api.base_url":    "api-url",
	"api.timeout":     "timeout",
	"session.backend": "session-backend",
	"session.file":    "session-file",
	"log.level":       "log-level",
	"log.format":      "log-format",
	"output.format":   "output",
	"metrics.dump":    "metrics",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://localhost:8082/api")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.user_agent", "blogctl/1.0")

	v.SetDefault("list.page_size", 10)
	v.SetDefault("list.search_debounce", "500ms")
	v.SetDefault("list.tag_debounce", "300ms")
	v.SetDefault("comments.page_size", 10)

	v.SetDefault("session.backend", BackendFile)
	v.SetDefault("session.file", defaultSessionFile())
	v.SetDefault("session.namespace", "default")
	v.SetDefault("session.redis_addr", "localhost:6379")
	v.SetDefault("session.redis_db", 0)
	v.SetDefault("session.redis_prefix", "blogctl:session:")

	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "pretty")
	v.SetDefault("output.format", FormatText)
	v.SetDefault("metrics.dump", false)
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".blogctl-session.json")
	}
	return filepath.Join(dir, FileName, "session.json")
}

func (c *Config) Validate() error {
	switch c.Session.Backend {
	case BackendFile, BackendPostgres, BackendRedis, BackendMemory:
	default:
		return xerrors.Newf("unknown session backend %q", c.Session.Backend)
	}
	switch c.Output.Format {
	case FormatText, FormatJSON, FormatYAML:
	default:
		return xerrors.Newf("unknown output format %q", c.Output.Format)
	}
	if c.Session.Backend == BackendPostgres && c.Session.DSN == "" {
		return xerrors.New("session.dsn is required for the postgres session backend")
	}
	if c.API.Timeout <= 0 {
		return xerrors.New("api.timeout must be positive")
	}
	return nil
}

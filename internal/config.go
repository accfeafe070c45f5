package internal

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "NOVALITE"

type Config struct {
	AppName string `mapstructure:"app_name"`

	Storage struct {
		Workdir   string `mapstructure:"workdir"`
		Extension string `mapstructure:"extension"`
	} `mapstructure:"storage"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`
}

// NewViper returns a viper instance carrying the defaults and the
// NOVALITE_* environment overrides (NOVALITE_STORAGE_WORKDIR, ...).
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("app_name", "novalite")
	v.SetDefault("storage.workdir", "./data")
	v.SetDefault("storage.extension", ".tbl")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func LoadConfig(path string) (*Config, error) {
	return LoadConfigFrom(NewViper(), path)
}

// LoadConfigFrom reads the YAML file at path into v, if a path is given,
// and unmarshals the merged settings.
func LoadConfigFrom(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Storage.Workdir == "" {
		return nil, fmt.Errorf("config: storage.workdir is empty")
	}
	return &cfg, nil
}

// Logger builds a slog logger writing to w at the configured level and format.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return nil, fmt.Errorf("config: log.level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.Log.Format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("config: unknown log.format %q", c.Log.Format)
	}
}

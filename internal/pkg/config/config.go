package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Tracking TrackingConfig `mapstructure:"tracking"`
	Export   ExportConfig   `mapstructure:"export"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogPath  string `mapstructure:"log_path"`
}

// StorageConfig the local store
type StorageConfig struct {
	DBPath        string `mapstructure:"db_path"`
	BusyTimeoutMs int    `mapstructure:"busy_timeout_ms"`
}

// TrackingConfig weekly grid options
type TrackingConfig struct {
	WeekDays int `mapstructure:"week_days"`
}

type ExportConfig struct {
	CheckMark string `mapstructure:"check_mark"`
}

// Load reads configPath (or ./config/config.yaml, ./config.yaml) over defaults;
// ACCOM_* environment variables override both.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("ACCOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Warn("config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		slog.Info("config loaded", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Storage.DBPath = resolvePath(expandEnv(cfg.Storage.DBPath))
	if cfg.App.LogPath != "" {
		cfg.App.LogPath = resolvePath(expandEnv(cfg.App.LogPath))
	}
	return &cfg, nil
}

// Default returns the built-in configuration without reading files or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "accomtrack")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_path", "")

	v.SetDefault("storage.db_path", "./data/accommodations.db")
	v.SetDefault("storage.busy_timeout_ms", 5000)

	v.SetDefault("tracking.week_days", 4)

	v.SetDefault("export.check_mark", "✓")
}

// expandEnv expands a whole-value ${VAR} placeholder
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}

// resolvePath makes a relative path absolute against the executable's directory.
func resolvePath(path string) string {
	if path == "" || path == ":memory:" || filepath.IsAbs(path) {
		return path
	}
	exe, err := os.Executable()
	if err != nil {
		return path
	}
	return filepath.Join(filepath.Dir(exe), path)
}

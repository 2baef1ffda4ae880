package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// DefaultConfigPath ./config/config.yaml next to the executable
func DefaultConfigPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), "config", "config.yaml"), nil
}

// WriteFile writes cfg as YAML, creating parent directories.
func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg must not be nil")
	}
	if path == "" {
		return fmt.Errorf("path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"log_level": cfg.App.LogLevel,
			"log_path":  cfg.App.LogPath,
		},
		"storage": map[string]any{
			"db_path":         cfg.Storage.DBPath,
			"busy_timeout_ms": cfg.Storage.BusyTimeoutMs,
		},
		"tracking": map[string]any{
			"week_days": cfg.Tracking.WeekDays,
		},
		"export": map[string]any{
			"check_mark": cfg.Export.CheckMark,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

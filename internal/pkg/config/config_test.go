package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.Equal(t, "info", cfg.App.LogLevel)
	require.Equal(t, 4, cfg.Tracking.WeekDays)
	require.Equal(t, 5000, cfg.Storage.BusyTimeoutMs)
	require.Equal(t, "✓", cfg.Export.CheckMark)
}

func TestWriteFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Default()
	cfg.Storage.DBPath = filepath.Join(dir, "store.db")
	cfg.Tracking.WeekDays = 5
	require.NoError(t, WriteFile(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.Storage.DBPath, loaded.Storage.DBPath)
	require.Equal(t, 5, loaded.Tracking.WeekDays)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, WriteFile(path, Default()))

	t.Setenv("ACCOM_APP_LOG_LEVEL", "debug")
	t.Setenv("ACCOM_DB", filepath.Join(dir, "env.db"))
	t.Setenv("ACCOM_STORAGE_DB_PATH", "${ACCOM_DB}")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.App.LogLevel)
	require.Equal(t, filepath.Join(dir, "env.db"), cfg.Storage.DBPath)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	require.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	closer, err := SetupLogger(LoggerOptions{Level: "info", Path: path, Component: "test"})
	require.NoError(t, err)
	require.NotNil(t, closer)
	t.Cleanup(func() {
		_ = closer.Close()
		slog.SetDefault(slog.New(slog.NewTextHandler(nopWriter{}, nil)))
	})
	slog.Info("hello")
	require.FileExists(t, path)
}

func TestSetupLoggerKeepsStdoutClean(t *testing.T) {
	stdoutR, stdoutW, err := os.Pipe()
	require.NoError(t, err)
	stderrR, stderrW, err := os.Pipe()
	require.NoError(t, err)

	origOut, origErr := os.Stdout, os.Stderr
	os.Stdout, os.Stderr = stdoutW, stderrW
	t.Cleanup(func() {
		os.Stdout, os.Stderr = origOut, origErr
		slog.SetDefault(slog.New(slog.NewTextHandler(nopWriter{}, nil)))
	})

	closer, err := SetupLogger(LoggerOptions{Level: "info", Component: "test"})
	require.NoError(t, err)
	require.Nil(t, closer)
	slog.Info("database ready", "schema_version", 3)

	require.NoError(t, stdoutW.Close())
	require.NoError(t, stderrW.Close())
	out, err := io.ReadAll(stdoutR)
	require.NoError(t, err)
	logged, err := io.ReadAll(stderrR)
	require.NoError(t, err)

	require.Empty(t, out)
	require.Contains(t, string(logged), "database ready")
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

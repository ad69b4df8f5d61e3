package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	want := Default()
	want.DataDir = dir
	require.Equal(t, want, cfg)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	cfg := Default()
	cfg.DataDir = dir
	cfg.DetectDelay = Duration(0)
	cfg.AdjustDelay = Duration(250 * time.Millisecond)
	cfg.Seed = 42
	require.NoError(t, Save(cfg))

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"adjust_delay": "250ms"`)

	got, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"log_level":"debug"}`), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, Default().DetectDelay, cfg.DetectDelay)
	require.Equal(t, dir, cfg.DataDir)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COLORHARMONY_DETECT_DELAY", "0s")
	t.Setenv("COLORHARMONY_SEED", "7")
	t.Setenv("COLORHARMONY_LOG_CONSOLE", "false")

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Zero(t, cfg.DetectDelay.Std())
	require.EqualValues(t, 7, cfg.Seed)
	require.False(t, cfg.LogConsole)
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"detect_delay":"-1s"}`), 0o644))
	_, err := Load(dir)
	require.Error(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"detect_delay":"soon"}`), 0o644))
	_, err = Load(dir)
	require.Error(t, err)
}

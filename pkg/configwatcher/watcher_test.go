package configwatcher

import (
	"context"
	"nihongolab_backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, level string) {
	t.Helper()
	content := "database:\n  driver: sqlite\nlog:\n  level: " + level + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFile), []byte(content), 0o644))
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "info")

	reloaded := make(chan *config.Config, 1)
	w, err := New(dir, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, err)
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	writeConfig(t, dir, "warn")

	select {
	case cfg := <-reloaded:
		assert.Equal(t, "warn", cfg.Log.Level)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
	case <-time.After(3 * time.Second):
		t.Fatal("config was not reloaded")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "info")

	called := make(chan struct{}, 1)
	w, err := New(dir, func(*config.Config) { called <- struct{}{} })
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	select {
	case <-called:
		t.Fatal("unexpected reload")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestNewFailsForMissingDir(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing"), func(*config.Config) {})
	assert.Error(t, err)
}

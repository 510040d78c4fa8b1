package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 20, cfg.Review.PageSize)
	assert.Equal(t, 6*time.Hour, cfg.App.StatsReconcileInterval)
	assert.Equal(t, time.Minute, cfg.App.DashboardCacheTTL)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "database:\n  driver: sqlite\nreview:\n  page_size: 5\napp:\n  timezone: Asia/Tokyo\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	t.Setenv("PORT", "9090")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5, cfg.Review.PageSize)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "Asia/Tokyo", cfg.App.Location().String())
}

func TestValidate(t *testing.T) {
	base := Config{
		Server:   ServerConfig{Mode: "debug"},
		Database: DatabaseConfig{Driver: "sqlite"},
		Review:   ReviewConfig{PageSize: 20},
	}
	require.NoError(t, base.Validate())

	bad := base
	bad.Database.Driver = "oracle"
	assert.Error(t, bad.Validate())

	bad = base
	bad.Review.PageSize = 0
	assert.Error(t, bad.Validate())

	bad = base
	bad.Server.Mode = "release"
	bad.Auth.Secret = "short"
	assert.Error(t, bad.Validate())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, AppConfig{}.Location())
	assert.Equal(t, time.UTC, AppConfig{Timezone: "Not/AZone"}.Location())
}

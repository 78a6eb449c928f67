package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"REMEDIA_CATALOG_URL", "REMEDIA_DATA_DIR", "REMEDIA_STORAGE", "REMEDIA_THEME", "REMEDIA_TIMEOUT_MS"} {
		t.Setenv(k, "")
	}
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog:\n  base_url: https://shop.example/api\nui:\n  theme: neon\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example/api", cfg.Catalog.BaseURL)
	assert.Equal(t, "neon", cfg.UI.Theme)
	assert.Equal(t, StorageJSON, cfg.Storage.Backend, "unset fields keep defaults")
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("catalog: [oops"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := DefaultConfig()
	cfg.Storage.Backend = StorageSQLite
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnvOverrides(t *testing.T) {
	t.Run("every variable", func(t *testing.T) {
		t.Setenv("REMEDIA_CATALOG_URL", "http://api.test")
		t.Setenv("REMEDIA_DATA_DIR", "/tmp/rem")
		t.Setenv("REMEDIA_STORAGE", "SQLite")
		t.Setenv("REMEDIA_THEME", "mono")
		t.Setenv("REMEDIA_TIMEOUT_MS", "2500")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://api.test", cfg.Catalog.BaseURL)
		assert.Equal(t, "/tmp/rem", cfg.Storage.DataDir)
		assert.Equal(t, StorageSQLite, cfg.Storage.Backend)
		assert.Equal(t, "mono", cfg.UI.Theme)
		assert.Equal(t, 2500*time.Millisecond, cfg.CatalogTimeout())
	})

	t.Run("env wins over file", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REMEDIA_THEME", "neon")
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("ui:\n  theme: mono\n"), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "neon", cfg.UI.Theme)
	})

	t.Run("bad timeout ignored", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REMEDIA_TIMEOUT_MS", "soon")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, 10*time.Second, cfg.CatalogTimeout())
	})
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "redis"
	assert.ErrorContains(t, cfg.Validate(), "invalid storage backend")

	cfg = DefaultConfig()
	cfg.UI.Theme = "pink"
	assert.ErrorContains(t, cfg.Validate(), "invalid theme")

	cfg = DefaultConfig()
	cfg.Catalog.BaseURL = " "
	assert.ErrorContains(t, cfg.Validate(), "REMEDIA_CATALOG_URL")
}

func TestDurationsFallBack(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.WatchDebounce = "later"
	assert.Equal(t, 100*time.Millisecond, cfg.WatchDebounce())
	cfg.Storage.WatchDebounce = "250ms"
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce())
}

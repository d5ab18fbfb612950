package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8094", cfg.API.URL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "all", cfg.Search.Category)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 20, cfg.Search.Limit)
	assert.NotEmpty(t, cfg.History.Dir)
	assert.Equal(t, filepath.Join(cfg.History.Dir, "search-cli.log"), cfg.Log.File)
}

func TestFromViper_Env(t *testing.T) {
	t.Setenv("BOOKISH_API_URL", "https://api.bookish.test")
	t.Setenv("BOOKISH_TOKEN", "tok")
	t.Setenv("BOOKISH_DATA_DIR", "/tmp/bookish-test")

	cfg, err := FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "https://api.bookish.test", cfg.API.URL)
	assert.Equal(t, "tok", cfg.API.Token)
	assert.Equal(t, "/tmp/bookish-test/search-cli.log", cfg.Log.File)
}

func TestLoad_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "cli.yaml")
	require.NoError(t, os.WriteFile(file, []byte("search:\n  category: books\n  debounce: 200ms\n"), 0o644))

	cfg, v, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, file, v.ConfigFileUsed())
	assert.Equal(t, "books", cfg.Search.Category)
	assert.Equal(t, 200*time.Millisecond, cfg.Search.Debounce)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

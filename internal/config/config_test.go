package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()

	cfg, err := LoadFrom(home, "")
	require.NoError(t, err)
	assert.Equal(t, Default(home), cfg)
	assert.Equal(t, filepath.Join(home, ".config", "fseq", "journal.db"), cfg.DBPath)
}

func TestLoadFile(t *testing.T) {
	home := t.TempDir()
	path := DefaultPath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(`
dir = "~/work/alembic/versions"
extensions = ["py", ".sql"]
revision_field = "revision"
revises_field = "down_revision"
separator = "-"
min_width = 4
journal = false
log_level = "debug"
`), 0o644))

	cfg, err := LoadFrom(home, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "work", "alembic", "versions"), cfg.Dir)
	assert.Equal(t, []string{".py", ".sql"}, cfg.Extensions)
	assert.Equal(t, "revision", cfg.RevisionField)
	assert.Equal(t, "down_revision", cfg.RevisesField)
	assert.Equal(t, "-", cfg.Separator)
	assert.Equal(t, 4, cfg.MinWidth)
	assert.False(t, cfg.Journal)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadExplicitPath(t *testing.T) {
	home := t.TempDir()

	_, err := LoadFrom(home, filepath.Join(home, "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	path := filepath.Join(home, "fseq.toml")
	require.NoError(t, os.WriteFile(path, []byte(`min_width = 2`), 0o644))
	cfg, err := LoadFrom(home, path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MinWidth)

	require.NoError(t, os.WriteFile(path, []byte(`min_width = "wide"`), 0o644))
	_, err = LoadFrom(home, path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty separator", func(c *Config) { c.Separator = "" }},
		{"digit separator", func(c *Config) { c.Separator = "0" }},
		{"path separator", func(c *Config) { c.Separator = "/" }},
		{"width too small", func(c *Config) { c.MinWidth = 0 }},
		{"width too large", func(c *Config) { c.MinWidth = 10 }},
		{"same fields", func(c *Config) { c.RevisesField = c.RevisionField }},
		{"empty field", func(c *Config) { c.RevisionField = "" }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/home/u")
			require.NoError(t, cfg.Validate())
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

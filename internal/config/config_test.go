package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabella232/cloud-spanner-emulator/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  name: orders-db
ddl:
  files:
    - schema/tables.sdl
    - schema/indexes.sdl
verbose: true
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "orders-db", cfg.Database.Name)
	assert.Equal(t, []string{"schema/tables.sdl", "schema/indexes.sdl"}, cfg.DDL.Files)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfigDefaultsDatabaseName(t *testing.T) {
	path := writeConfig(t, "database:\n  name: \"  \"\n")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "test-db", cfg.Database.Name)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "test-db", cfg.Database.Name)
	assert.Empty(t, cfg.DDL.Files)
	assert.False(t, cfg.Verbose)
}

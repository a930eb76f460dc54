package profiles_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/isabella232/cloud-spanner-emulator/internal/config"
	"github.com/isabella232/cloud-spanner-emulator/internal/profiles"
)

func TestManagerSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	manager := profiles.NewManager(dir)

	cfg := config.Default()
	cfg.Database.Name = "orders-db"
	cfg.DDL.Files = []string{"schema.sdl"}

	profile, err := manager.Save("Orders", cfg)
	require.NoError(t, err)
	require.Equal(t, "orders-db", profile.Database)
	require.FileExists(t, profile.Path)

	loaded, err := manager.Load(profile.Name)
	require.NoError(t, err)
	require.Equal(t, cfg.Database.Name, loaded.Database.Name)
	require.Equal(t, cfg.DDL.Files, loaded.DDL.Files)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestManagerListAndDelete(t *testing.T) {
	dir := t.TempDir()
	manager := profiles.NewManager(dir)

	cfg := config.Default()
	_, err := manager.Save("alpha", cfg)
	require.NoError(t, err)
	_, err = manager.Save("beta", cfg)
	require.NoError(t, err)

	all, err := manager.List()
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, manager.Delete("alpha"))

	all, err = manager.List()
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.Equal(t, "beta", all[0].Name)
}

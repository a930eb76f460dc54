package storage_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabella232/cloud-spanner-emulator/internal/status"
	"github.com/isabella232/cloud-spanner-emulator/internal/storage"
)

func TestInsertAndIterate(t *testing.T) {
	engine := storage.NewEngine()

	require.NoError(t, engine.Insert(1, "a", storage.Row{10: int64(1)}))
	require.NoError(t, engine.Insert(1, "b", storage.Row{10: int64(2)}))
	assert.Equal(t, 2, engine.NumRows(1))

	rows := engine.Rows(1)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0][10])
	assert.Equal(t, int64(2), rows[1][10])
}

func TestInsertDuplicateKey(t *testing.T) {
	engine := storage.NewEngine()
	require.NoError(t, engine.Insert(1, "k", storage.Row{}))

	err := engine.Insert(1, "k", storage.Row{})
	require.Error(t, err)
	assert.Equal(t, status.AlreadyExists, status.CodeOf(err))
}

func TestDropTable(t *testing.T) {
	engine := storage.NewEngine()
	require.NoError(t, engine.Insert(7, "k", storage.Row{}))
	engine.DropTable(7)
	assert.Zero(t, engine.NumRows(7))
	require.NoError(t, engine.Insert(7, "k", storage.Row{}))
}

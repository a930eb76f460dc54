package updater_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabella232/cloud-spanner-emulator/internal/schema/updater"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

func TestGlobalNamesCaseInsensitive(t *testing.T) {
	names := updater.NewGlobalSchemaNames()
	require.NoError(t, names.AddName("Table", "Users"))

	err := names.AddName("Index", "USERS")
	require.Error(t, err)
	assert.Equal(t, status.AlreadyExists, status.CodeOf(err))

	assert.True(t, names.HasName("users"))
	names.RemoveName("Users")
	assert.False(t, names.HasName("users"))
	require.NoError(t, names.AddName("Index", "Users"))
}

func TestGenerateForeignKeyName(t *testing.T) {
	names := updater.NewGlobalSchemaNames()

	first, err := names.GenerateForeignKeyName("Orders", "Customers")
	require.NoError(t, err)
	assert.Equal(t, "FK_Orders_Customers_1", first)
	assert.True(t, names.HasName(first))

	second, err := names.GenerateForeignKeyName("Orders", "Customers")
	require.NoError(t, err)
	assert.Equal(t, "FK_Orders_Customers_2", second)
	assert.NotEqual(t, first, second)
}

func TestTableIDGeneratorNeverCollides(t *testing.T) {
	var gen updater.TableIDGenerator
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		// Identical seeds still yield distinct IDs.
		id := gen.NextID("SameName")
		assert.False(t, seen[id])
		seen[id] = true
	}
}

package app_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabella232/cloud-spanner-emulator/internal/app"
	"github.com/isabella232/cloud-spanner-emulator/internal/config"
	"github.com/isabella232/cloud-spanner-emulator/pkg/logger"
)

func writeSchemaFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestServiceApply(t *testing.T) {
	file := writeSchemaFile(t, "schema.sdl", `
CREATE TABLE Singers (
  SingerId INT64 NOT NULL,
  Name STRING(1024)
) PRIMARY KEY (SingerId);

CREATE INDEX SingersByName ON Singers(Name);
`)

	service := app.NewService()
	db, err := service.Apply(config.Default(), []string{file}, false)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.Len(t, db.Schema.Tables(), 1)
	assert.Equal(t, 1, db.Schema.NumIndexes())

	var out strings.Builder
	require.NoError(t, service.Dump(db, &out))
	assert.Contains(t, out.String(), "CREATE TABLE Singers")
	assert.Contains(t, out.String(), "CREATE INDEX SingersByName")
}

func TestServiceApplyBadDDL(t *testing.T) {
	file := writeSchemaFile(t, "bad.sdl",
		"CREATE TABLE T (Id INT64 NOT NULL) PRIMARY KEY (Id), INTERLEAVE IN PARENT Ghost;")

	service := app.NewService()
	_, err := service.Apply(config.Default(), []string{file}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Ghost")
}

func TestServiceValidate(t *testing.T) {
	file := writeSchemaFile(t, "schema.sdl",
		"CREATE TABLE T (Id INT64 NOT NULL) PRIMARY KEY (Id);")

	service := app.NewService()
	schema, err := service.Validate(config.Default(), []string{file}, false)
	require.NoError(t, err)
	assert.Len(t, schema.Tables(), 1)
}

func TestDatabaseKeepsSchemaOnFailedBatch(t *testing.T) {
	db := app.NewDatabase("test-db", logger.NewLogger(false))
	_, err := db.ApplyDDL([]string{"CREATE TABLE T (Id INT64 NOT NULL) PRIMARY KEY (Id)"})
	require.NoError(t, err)
	installed := db.Schema

	_, err = db.ApplyDDL([]string{"CREATE TABLE T (Id INT64 NOT NULL) PRIMARY KEY (Id)"})
	require.Error(t, err, "duplicate table name must fail")
	assert.Same(t, installed, db.Schema)
}

package updater_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isabella232/cloud-spanner-emulator/internal/ddl"
	"github.com/isabella232/cloud-spanner-emulator/internal/dump"
	"github.com/isabella232/cloud-spanner-emulator/internal/limits"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/catalog"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/updater"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
	"github.com/isabella232/cloud-spanner-emulator/internal/storage"
	"github.com/isabella232/cloud-spanner-emulator/internal/types"
)

// testDB drives schema changes against one emulated database, sharing the
// generators and row store across batches the way a real database would.
type testDB struct {
	schema    *catalog.Schema
	engine    *storage.Engine
	factory   types.Factory
	tableIDs  updater.TableIDGenerator
	columnIDs updater.ColumnIDGenerator
}

func newTestDB() *testDB {
	return &testDB{
		schema:  updater.EmptySchema(),
		engine:  storage.NewEngine(),
		factory: types.NewFactory(),
	}
}

func (db *testDB) context() updater.SchemaChangeContext {
	return updater.SchemaChangeContext{
		TypeFactory:           db.factory,
		TableIDGenerator:      &db.tableIDs,
		ColumnIDGenerator:     &db.columnIDs,
		Storage:               db.engine,
		SchemaChangeTimestamp: time.Unix(1, 0),
	}
}

// validate applies statements structurally without running backfills and
// installs the result.
func (db *testDB) validate(t *testing.T, statements ...string) *catalog.Schema {
	t.Helper()
	var u updater.SchemaUpdater
	schema, err := u.ValidateSchemaFromDDL(statements, db.context(), db.schema)
	require.NoError(t, err)
	require.NotNil(t, schema)
	db.schema = schema
	return schema
}

func (db *testDB) validateErr(statements ...string) error {
	var u updater.SchemaUpdater
	_, err := u.ValidateSchemaFromDDL(statements, db.context(), db.schema)
	return err
}

// update applies statements including deferred actions.
func (db *testDB) update(t *testing.T, statements ...string) updater.SchemaChangeResult {
	t.Helper()
	var u updater.SchemaUpdater
	result, err := u.UpdateSchemaFromDDL(db.schema, statements, db.context())
	require.NoError(t, err)
	if result.UpdatedSchema != nil {
		db.schema = result.UpdatedSchema
	}
	return result
}

// checkInvariants asserts the universal snapshot properties: closed
// references, ownership back-references, index prefix structure, bidirectional
// foreign keys and global name uniqueness.
func checkInvariants(t *testing.T, schema *catalog.Schema) {
	t.Helper()
	g := schema.Graph()
	globalNames := make(map[string]string)
	for _, node := range g.Nodes() {
		for _, ref := range node.ReferencedNodes() {
			require.True(t, g.Contains(ref), "%s references %s outside the snapshot", node, ref)
		}
		if info := node.SchemaNameInfo(); info != nil && info.Global {
			key := strings.ToLower(info.Name)
			if prev, seen := globalNames[key]; seen {
				t.Fatalf("duplicate global name %s (%s and %s)", info.Name, prev, info.Kind)
			}
			globalNames[key] = info.Kind
		}
		switch n := node.(type) {
		case *catalog.Table:
			for _, column := range n.Columns() {
				require.Same(t, n, column.Table())
			}
		case *catalog.Index:
			require.Same(t, n, n.IndexDataTable().OwnerIndex())
			dataPK := n.IndexDataTable().PrimaryKey()
			require.LessOrEqual(t, len(n.KeyColumns()), len(dataPK))
			for pos, keyColumn := range n.KeyColumns() {
				require.Same(t, dataPK[pos], keyColumn)
			}
		case *catalog.ForeignKey:
			require.Contains(t, n.ReferencingTable().ForeignKeys(), n)
			require.Contains(t, n.ReferencedTable().ReferencingForeignKeys(), n)
		}
	}
}

func TestCreateTableBasic(t *testing.T) {
	db := newTestDB()
	schema := db.validate(t,
		"CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")
	checkInvariants(t, schema)

	table := schema.FindTable("T1")
	require.NotNil(t, table)
	require.Len(t, table.Columns(), 2)

	c1 := table.FindColumn("C1")
	require.NotNil(t, c1)
	assert.False(t, c1.Nullable())
	assert.Equal(t, types.Int64, c1.Type().Kind())
	assert.Nil(t, c1.DeclaredMaxLength())

	c2 := table.FindColumn("C2")
	require.NotNil(t, c2)
	assert.True(t, c2.Nullable())
	assert.Equal(t, types.String, c2.Type().Kind())
	require.NotNil(t, c2.DeclaredMaxLength())
	assert.Equal(t, ddl.MaxLength, *c2.DeclaredMaxLength())

	require.Len(t, table.PrimaryKey(), 1)
	assert.Same(t, c1, table.PrimaryKey()[0].Column())
	assert.False(t, table.PrimaryKey()[0].Descending())
	assert.Nil(t, table.Parent())
	assert.Empty(t, table.ForeignKeys())
}

func TestCreateTableInterleaved(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")
	schema := db.validate(t,
		"CREATE TABLE T2 (C1 INT64 NOT NULL, C3 INT64) PRIMARY KEY (C1), "+
			"INTERLEAVE IN PARENT T1 ON DELETE CASCADE")
	checkInvariants(t, schema)

	parent := schema.FindTable("T1")
	child := schema.FindTable("T2")
	require.NotNil(t, child)
	assert.Same(t, parent, child.Parent())
	require.Len(t, parent.Children(), 1)
	assert.Same(t, child, parent.Children()[0])
	assert.Equal(t, catalog.OnDeleteCascade, child.OnDelete())
}

func TestCreateNullFilteredIndex(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")
	schema := db.validate(t, "CREATE NULL_FILTERED INDEX Idx1 ON T1(C2) STORING ()")
	checkInvariants(t, schema)

	index := schema.FindIndex("Idx1")
	require.NotNil(t, index)
	assert.True(t, index.NullFiltered())
	assert.False(t, index.Unique())
	assert.Empty(t, index.StoredColumns())

	dataTable := index.IndexDataTable()
	require.NotNil(t, dataTable)
	pk := dataTable.PrimaryKey()
	require.Len(t, pk, 2)
	assert.Equal(t, "C2", pk[0].Column().Name())
	assert.Equal(t, "C1", pk[1].Column().Name())
	assert.False(t, pk[0].Descending())
	assert.False(t, pk[1].Descending())

	// C2 is non-nullable because the index is null-filtered, C1 because the
	// source column is NOT NULL.
	assert.False(t, pk[0].Column().Nullable())
	assert.False(t, pk[1].Column().Nullable())

	// The declared keys are the prefix of the data table's primary key.
	require.Len(t, index.KeyColumns(), 1)
	assert.Same(t, pk[0], index.KeyColumns()[0])

	// The data table hangs off the indexed table with cascade semantics.
	indexed := schema.FindTable("T1")
	assert.Same(t, indexed, index.IndexedTable())
	assert.Same(t, indexed, dataTable.Parent())
	assert.Equal(t, catalog.OnDeleteCascade, dataTable.OnDelete())
	require.Len(t, indexed.Indexes(), 1)
	assert.Same(t, index, indexed.Indexes()[0])
}

func TestCreateIndexStoring(t *testing.T) {
	db := newTestDB()
	db.validate(t,
		"CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX), C3 BYTES(128)) PRIMARY KEY (C1)")
	schema := db.validate(t, "CREATE INDEX Idx2 ON T1(C2) STORING (C3)")
	checkInvariants(t, schema)

	index := schema.FindIndex("Idx2")
	require.Len(t, index.StoredColumns(), 1)
	stored := index.StoredColumns()[0]
	assert.Equal(t, "C3", stored.Name())
	assert.Same(t, index.IndexDataTable(), stored.Table())
	require.NotNil(t, stored.SourceColumn())
	assert.Same(t, schema.FindColumn("T1", "C3"), stored.SourceColumn())

	// A stored column is a data-table column outside the primary key.
	assert.Len(t, index.IndexDataTable().Columns(), 3)
	assert.Len(t, index.IndexDataTable().PrimaryKey(), 2)
}

func TestCreateForeignKeyCrossReferences(t *testing.T) {
	db := newTestDB()
	schema := db.validate(t,
		"CREATE TABLE A (Id INT64 NOT NULL) PRIMARY KEY (Id)",
		"CREATE TABLE B (Id INT64 NOT NULL, Aid INT64 NOT NULL, "+
			"FOREIGN KEY (Aid) REFERENCES A (Id)) PRIMARY KEY (Id)")
	checkInvariants(t, schema)

	a := schema.FindTable("A")
	b := schema.FindTable("B")
	require.Len(t, b.ForeignKeys(), 1)
	fk := b.ForeignKeys()[0]
	assert.True(t, fk.Generated())
	assert.NotEmpty(t, fk.Name())

	require.Len(t, a.ReferencingForeignKeys(), 1)
	assert.Same(t, fk, a.ReferencingForeignKeys()[0])
	assert.Same(t, b, fk.ReferencingTable())
	assert.Same(t, a, fk.ReferencedTable())

	require.Len(t, fk.ReferencingColumns(), 1)
	assert.Same(t, b.FindColumn("Aid"), fk.ReferencingColumns()[0])
	require.Len(t, fk.ReferencedColumns(), 1)
	assert.Same(t, a.FindColumn("Id"), fk.ReferencedColumns()[0])
}

func TestSelfReferencingForeignKey(t *testing.T) {
	db := newTestDB()
	schema := db.validate(t,
		"CREATE TABLE Emp (Id INT64 NOT NULL, MgrId INT64, "+
			"FOREIGN KEY (MgrId) REFERENCES Emp (Id)) PRIMARY KEY (Id)")
	checkInvariants(t, schema)

	emp := schema.FindTable("Emp")
	require.Len(t, emp.ForeignKeys(), 1)
	fk := emp.ForeignKeys()[0]
	assert.Same(t, emp, fk.ReferencingTable())
	assert.Same(t, emp, fk.ReferencedTable())
	require.Len(t, emp.ReferencingForeignKeys(), 1)
}

func TestUnknownInterleaveParent(t *testing.T) {
	db := newTestDB()
	err := db.validateErr(
		"CREATE TABLE X (Id INT64 NOT NULL) PRIMARY KEY (Id), INTERLEAVE IN PARENT Ghost")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))
	assert.Contains(t, err.Error(), "Ghost")
}

func TestDuplicateGlobalName(t *testing.T) {
	db := newTestDB()
	err := db.validateErr(
		"CREATE TABLE Dup (Id INT64 NOT NULL) PRIMARY KEY (Id)",
		"CREATE INDEX Dup ON Dup(Id)")
	require.Error(t, err)
	assert.Equal(t, status.AlreadyExists, status.CodeOf(err))
	assert.Contains(t, err.Error(), "Index Dup")
}

func TestEmptyStatement(t *testing.T) {
	db := newTestDB()
	err := db.validateErr("")
	require.Error(t, err)
	assert.Equal(t, status.InvalidArgument, status.CodeOf(err))
}

func TestApplyThenDropRoundTrip(t *testing.T) {
	db := newTestDB()
	before := db.validate(t,
		"CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")

	after := db.validate(t,
		"CREATE TABLE T2 (Id INT64 NOT NULL) PRIMARY KEY (Id)",
		"DROP TABLE T2")
	checkInvariants(t, after)

	assert.Equal(t, before.Size(), after.Size())
	assert.Equal(t, dump.DDLStatements(before), dump.DDLStatements(after))
}

func TestAlterTableAddAndDropColumn(t *testing.T) {
	db := newTestDB()
	before := db.validate(t,
		"CREATE TABLE T1 (C1 INT64 NOT NULL) PRIMARY KEY (C1)")

	schema := db.validate(t, "ALTER TABLE T1 ADD COLUMN C2 BYTES(100)")
	checkInvariants(t, schema)
	table := schema.FindTable("T1")
	require.Len(t, table.Columns(), 2)
	c2 := table.FindColumn("C2")
	require.NotNil(t, c2)
	assert.Equal(t, types.Bytes, c2.Type().Kind())
	require.NotNil(t, c2.DeclaredMaxLength())
	assert.Equal(t, int64(100), *c2.DeclaredMaxLength())

	// Old snapshots are unaffected by the change.
	assert.Len(t, before.FindTable("T1").Columns(), 1)

	schema = db.validate(t, "ALTER TABLE T1 DROP COLUMN C2")
	checkInvariants(t, schema)
	assert.Nil(t, schema.FindTable("T1").FindColumn("C2"))
}

func TestAlterColumnDefinition(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")

	schema := db.validate(t, "ALTER TABLE T1 ALTER COLUMN C2 STRING(32) NOT NULL")
	checkInvariants(t, schema)

	c2 := schema.FindColumn("T1", "C2")
	require.NotNil(t, c2)
	assert.False(t, c2.Nullable())
	require.NotNil(t, c2.DeclaredMaxLength())
	assert.Equal(t, int64(32), *c2.DeclaredMaxLength())
}

func TestAlterColumnNotFound(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL) PRIMARY KEY (C1)")

	err := db.validateErr("ALTER TABLE T1 ALTER COLUMN Nope STRING(10)")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))

	err = db.validateErr("ALTER TABLE Nope ADD COLUMN C INT64")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))
}

func TestAlterInterleaveAction(t *testing.T) {
	db := newTestDB()
	db.validate(t,
		"CREATE TABLE T1 (C1 INT64 NOT NULL) PRIMARY KEY (C1)",
		"CREATE TABLE T2 (C1 INT64 NOT NULL) PRIMARY KEY (C1), "+
			"INTERLEAVE IN PARENT T1 ON DELETE CASCADE")

	schema := db.validate(t, "ALTER TABLE T2 SET ON DELETE NO ACTION")
	checkInvariants(t, schema)
	assert.Equal(t, catalog.OnDeleteNoAction, schema.FindTable("T2").OnDelete())
}

func TestAddAndDropForeignKeyConstraint(t *testing.T) {
	db := newTestDB()
	db.validate(t,
		"CREATE TABLE A (Id INT64 NOT NULL) PRIMARY KEY (Id)",
		"CREATE TABLE B (Id INT64 NOT NULL, Aid INT64) PRIMARY KEY (Id)")

	schema := db.validate(t,
		"ALTER TABLE B ADD CONSTRAINT FK_B FOREIGN KEY (Aid) REFERENCES A (Id)")
	checkInvariants(t, schema)
	fk := schema.FindForeignKey("B", "FK_B")
	require.NotNil(t, fk)
	assert.False(t, fk.Generated())

	schema = db.validate(t, "ALTER TABLE B DROP CONSTRAINT FK_B")
	checkInvariants(t, schema)
	assert.Nil(t, schema.FindForeignKey("B", "FK_B"))
	assert.Empty(t, schema.FindTable("A").ReferencingForeignKeys())

	err := db.validateErr("ALTER TABLE B DROP CONSTRAINT Missing")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))
}

func TestForeignKeyErrors(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE A (Id INT64 NOT NULL) PRIMARY KEY (Id)")

	err := db.validateErr(
		"CREATE TABLE B (Id INT64 NOT NULL, FOREIGN KEY (Id) REFERENCES Ghost (Id)) PRIMARY KEY (Id)")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))
	assert.Contains(t, err.Error(), "Ghost")

	err = db.validateErr(
		"CREATE TABLE B (Id INT64 NOT NULL, FOREIGN KEY (Nope) REFERENCES A (Id)) PRIMARY KEY (Id)")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))
	assert.Contains(t, err.Error(), "Nope")
}

func TestDropTableStillReferencedByIndex(t *testing.T) {
	db := newTestDB()
	db.validate(t,
		"CREATE TABLE T1 (C1 INT64 NOT NULL) PRIMARY KEY (C1)",
		"CREATE INDEX Idx1 ON T1(C1)")

	err := db.validateErr("DROP TABLE T1")
	require.Error(t, err)
	assert.Equal(t, status.FailedPrecondition, status.CodeOf(err))
	assert.Contains(t, err.Error(), "cannot drop")
}

func TestDropTableWithInterleavedChild(t *testing.T) {
	db := newTestDB()
	db.validate(t,
		"CREATE TABLE T1 (C1 INT64 NOT NULL) PRIMARY KEY (C1)",
		"CREATE TABLE T2 (C1 INT64 NOT NULL) PRIMARY KEY (C1), INTERLEAVE IN PARENT T1")

	err := db.validateErr("DROP TABLE T1")
	require.Error(t, err)
	assert.Equal(t, status.FailedPrecondition, status.CodeOf(err))
}

func TestDropKeyColumnFails(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 INT64) PRIMARY KEY (C1)")

	err := db.validateErr("ALTER TABLE T1 DROP COLUMN C1")
	require.Error(t, err)
	assert.Equal(t, status.FailedPrecondition, status.CodeOf(err))
}

func TestDropIndex(t *testing.T) {
	db := newTestDB()
	before := db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(10)) PRIMARY KEY (C1)")

	db.validate(t, "CREATE INDEX Idx1 ON T1(C2)")
	schema := db.validate(t, "DROP INDEX Idx1")
	checkInvariants(t, schema)

	assert.Nil(t, schema.FindIndex("Idx1"))
	assert.Empty(t, schema.FindTable("T1").Indexes())
	// The index's data table and its nodes disappear with it.
	assert.Equal(t, before.Size(), schema.Size())

	err := db.validateErr("DROP INDEX Idx1")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))
}

func TestIndexErrors(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(10)) PRIMARY KEY (C1)")

	err := db.validateErr("CREATE INDEX Idx1 ON Ghost(C1)")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))

	err = db.validateErr("CREATE INDEX Idx1 ON T1(Nope)")
	require.Error(t, err)
	assert.Equal(t, status.InvalidArgument, status.CodeOf(err))
	assert.Contains(t, err.Error(), "Nope")

	err = db.validateErr("CREATE INDEX Idx1 ON T1(C2), INTERLEAVE IN Ghost")
	require.Error(t, err)
	assert.Equal(t, status.NotFound, status.CodeOf(err))
	assert.Contains(t, err.Error(), "Idx1")
}

func TestCommitTimestampOptionOnlyOnTimestamp(t *testing.T) {
	db := newTestDB()
	schema, err := (&updater.SchemaUpdater{}).ValidateSchemaFromDDL([]string{
		"CREATE TABLE T (Ts TIMESTAMP OPTIONS (allow_commit_timestamp = true)) PRIMARY KEY (Ts)",
	}, db.context(), nil)
	require.NoError(t, err)
	allow := schema.FindColumn("T", "Ts").AllowCommitTimestamp()
	require.NotNil(t, allow)
	assert.True(t, *allow)

	err = db.validateErr(
		"CREATE TABLE U (Id INT64 OPTIONS (allow_commit_timestamp = true)) PRIMARY KEY (Id)")
	require.Error(t, err)
	assert.Equal(t, status.InvalidArgument, status.CodeOf(err))
}

func TestDescendingKeysPropagateToIndex(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 INT64) PRIMARY KEY (C1 DESC)")
	schema := db.validate(t, "CREATE INDEX Idx1 ON T1(C2)")

	index := schema.FindIndex("Idx1")
	pk := index.IndexDataTable().PrimaryKey()
	require.Len(t, pk, 2)
	assert.False(t, pk[0].Descending())
	assert.True(t, pk[1].Descending(), "the table key keeps its DESC flag")
}

func TestTableLimitEnforced(t *testing.T) {
	if testing.Short() {
		t.Skip("applies MaxTablesPerDatabase+1 statements")
	}
	db := newTestDB()
	statements := make([]string, 0, limits.MaxTablesPerDatabase+1)
	for i := 0; i <= limits.MaxTablesPerDatabase; i++ {
		statements = append(statements,
			fmt.Sprintf("CREATE TABLE t%d (Id INT64 NOT NULL) PRIMARY KEY (Id)", i))
	}
	err := db.validateErr(statements...)
	require.Error(t, err)
	assert.Equal(t, status.ResourceExhausted, status.CodeOf(err))
	assert.Contains(t, err.Error(), "too many tables")
}

func TestUpdateRunsBackfillActions(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")

	table := db.schema.FindTable("T1")
	c1 := table.FindColumn("C1").ID()
	c2 := table.FindColumn("C2").ID()
	require.NoError(t, db.engine.Insert(table.ID(), "1", storage.Row{c1: int64(1), c2: "a"}))
	require.NoError(t, db.engine.Insert(table.ID(), "2", storage.Row{c1: int64(2), c2: "b"}))
	require.NoError(t, db.engine.Insert(table.ID(), "3", storage.Row{c1: int64(3), c2: nil}))

	result := db.update(t, "CREATE INDEX Idx1 ON T1(C2)")
	assert.Equal(t, 1, result.NumSuccessfulStatements)
	assert.NoError(t, result.BackfillStatus)

	index := db.schema.FindIndex("Idx1")
	require.NotNil(t, index)
	assert.Equal(t, 3, db.engine.NumRows(index.IndexDataTable().ID()))
}

func TestNullFilteredBackfillSkipsNullKeys(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")

	table := db.schema.FindTable("T1")
	c1 := table.FindColumn("C1").ID()
	c2 := table.FindColumn("C2").ID()
	require.NoError(t, db.engine.Insert(table.ID(), "1", storage.Row{c1: int64(1), c2: "a"}))
	require.NoError(t, db.engine.Insert(table.ID(), "2", storage.Row{c1: int64(2), c2: nil}))

	result := db.update(t, "CREATE NULL_FILTERED INDEX Idx1 ON T1(C2)")
	assert.Equal(t, 1, result.NumSuccessfulStatements)

	index := db.schema.FindIndex("Idx1")
	assert.Equal(t, 1, db.engine.NumRows(index.IndexDataTable().ID()))
}

func TestUniqueIndexBackfillFailure(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")
	installed := db.schema

	table := installed.FindTable("T1")
	c1 := table.FindColumn("C1").ID()
	c2 := table.FindColumn("C2").ID()
	require.NoError(t, db.engine.Insert(table.ID(), "1", storage.Row{c1: int64(1), c2: "dup"}))
	require.NoError(t, db.engine.Insert(table.ID(), "2", storage.Row{c1: int64(2), c2: "dup"}))

	var u updater.SchemaUpdater
	result, err := u.UpdateSchemaFromDDL(installed,
		[]string{"CREATE UNIQUE INDEX Idx1 ON T1(C2)"}, db.context())
	require.NoError(t, err)
	assert.Equal(t, 0, result.NumSuccessfulStatements)
	assert.Nil(t, result.UpdatedSchema)
	require.Error(t, result.BackfillStatus)
	assert.Equal(t, status.FailedPrecondition, status.CodeOf(result.BackfillStatus))
	assert.Contains(t, result.BackfillStatus.Error(), "duplicate")
}

func TestCreateSchemaFromDDL(t *testing.T) {
	db := newTestDB()
	var u updater.SchemaUpdater
	schema, err := u.CreateSchemaFromDDL([]string{
		"CREATE TABLE A (Id INT64 NOT NULL) PRIMARY KEY (Id)",
		"CREATE INDEX AById ON A(Id)",
	}, db.context())
	require.NoError(t, err)
	require.NotNil(t, schema)
	checkInvariants(t, schema)
	assert.Len(t, schema.Tables(), 1)
	assert.Equal(t, 1, schema.NumIndexes())
}

func TestPartialBackfillSuccessKeepsEarlierStatements(t *testing.T) {
	db := newTestDB()
	db.validate(t, "CREATE TABLE T1 (C1 INT64 NOT NULL, C2 STRING(MAX)) PRIMARY KEY (C1)")

	table := db.schema.FindTable("T1")
	c1 := table.FindColumn("C1").ID()
	c2 := table.FindColumn("C2").ID()
	require.NoError(t, db.engine.Insert(table.ID(), "1", storage.Row{c1: int64(1), c2: "dup"}))
	require.NoError(t, db.engine.Insert(table.ID(), "2", storage.Row{c1: int64(2), c2: "dup"}))

	var u updater.SchemaUpdater
	result, err := u.UpdateSchemaFromDDL(db.schema, []string{
		"CREATE INDEX Plain ON T1(C1)",
		"CREATE UNIQUE INDEX Broken ON T1(C2)",
	}, db.context())
	require.NoError(t, err)
	assert.Equal(t, 1, result.NumSuccessfulStatements)
	require.NotNil(t, result.UpdatedSchema)
	assert.NotNil(t, result.UpdatedSchema.FindIndex("Plain"))
	assert.Nil(t, result.UpdatedSchema.FindIndex("Broken"))
	require.Error(t, result.BackfillStatus)
}

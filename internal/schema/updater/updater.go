package updater

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/isabella232/cloud-spanner-emulator/internal/ddl"
	"github.com/isabella232/cloud-spanner-emulator/internal/limits"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/catalog"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/graph"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
	"github.com/isabella232/cloud-spanner-emulator/internal/storage"
	"github.com/isabella232/cloud-spanner-emulator/internal/types"
	"github.com/isabella232/cloud-spanner-emulator/pkg/logger"
)

// SchemaChangeContext carries the collaborators a schema change needs.
type SchemaChangeContext struct {
	TypeFactory           types.Factory
	TableIDGenerator      *TableIDGenerator
	ColumnIDGenerator     *ColumnIDGenerator
	Storage               *storage.Engine
	SchemaChangeTimestamp time.Time
	Log                   *logger.Logger // optional
}

// SchemaChangeResult is the outcome of UpdateSchemaFromDDL. BackfillStatus is
// nil when every deferred action succeeded.
type SchemaChangeResult struct {
	NumSuccessfulStatements int
	UpdatedSchema           *catalog.Schema
	BackfillStatus          error
}

// columnDefModifier is what setColumnDefinition writes through: a column
// builder when creating, a column editor when altering.
type columnDefModifier interface {
	SetType(*types.Type)
	SetNullable(bool)
	SetDeclaredMaxLength(*int64)
	SetAllowCommitTimestamp(*bool)
}

// schemaUpdaterImpl applies one batch of DDL statements to a schema,
// producing a chain of intermediate snapshots.
//
// Semantic checks beyond existence (needed to build reference relationships)
// are left to the node Validate implementations so they run on both creation
// and update paths.
type schemaUpdaterImpl struct {
	typeFactory           types.Factory
	tableIDGenerator      *TableIDGenerator
	columnIDGenerator     *ColumnIDGenerator
	storage               *storage.Engine
	schemaChangeTimestamp time.Time
	log                   *logger.Logger

	// latestSchema is the snapshot after the statements applied so far; it
	// says nothing about whether their backfill effects have run.
	latestSchema        *catalog.Schema
	intermediateSchemas []*catalog.Schema

	statementContext *SchemaValidationContext
	editor           *graph.SchemaGraphEditor
	globalNames      *GlobalSchemaNames
}

func newSchemaUpdaterImpl(ctx SchemaChangeContext, existing *catalog.Schema) (*schemaUpdaterImpl, error) {
	impl := &schemaUpdaterImpl{
		typeFactory:           ctx.TypeFactory,
		tableIDGenerator:      ctx.TableIDGenerator,
		columnIDGenerator:     ctx.ColumnIDGenerator,
		storage:               ctx.Storage,
		schemaChangeTimestamp: ctx.SchemaChangeTimestamp,
		log:                   ctx.Log,
		latestSchema:          existing,
		globalNames:           NewGlobalSchemaNames(),
	}
	for _, node := range existing.Graph().Nodes() {
		if info := node.SchemaNameInfo(); info != nil && info.Global {
			if err := impl.globalNames.AddName(info.Kind, info.Name); err != nil {
				return nil, err
			}
		}
	}
	return impl, nil
}

func (s *schemaUpdaterImpl) debugf(format string, args ...interface{}) {
	if s.log != nil {
		s.log.Debugf(format, args...)
	}
}

// applyDDLStatements applies statements in order, returning the validation
// context of each. The first structural error aborts the batch.
func (s *schemaUpdaterImpl) applyDDLStatements(statements []string) ([]*SchemaValidationContext, error) {
	var pendingWork []*SchemaValidationContext

	for _, statement := range statements {
		s.debugf("applying statement %q", statement)
		statementContext := NewSchemaValidationContext(
			s.storage, s.globalNames, s.schemaChangeTimestamp)
		s.statementContext = statementContext
		s.editor = graph.NewSchemaGraphEditor(s.latestSchema.Graph())

		newSchema, err := s.applyDDLStatement(statement)
		if err != nil {
			return nil, err
		}

		// Keep every snapshot: verifiers and backfillers of this or later
		// statements refer to the schema on both sides of a statement.
		statementContext.SetOldSchemaSnapshot(s.latestSchema)
		statementContext.SetNewSchemaSnapshot(newSchema)
		s.latestSchema = newSchema
		s.intermediateSchemas = append(s.intermediateSchemas, newSchema)
		pendingWork = append(pendingWork, statementContext)
	}
	return pendingWork, nil
}

func (s *schemaUpdaterImpl) applyDDLStatement(statement string) (*catalog.Schema, error) {
	if len(statement) == 0 {
		return nil, status.EmptyDDLStatement()
	}
	if s.editor.HasModifications() {
		return nil, status.InternalError("schema graph editor carries modifications across statements")
	}

	parsed, err := ddl.ParseDDLStatement(statement)
	if err != nil {
		return nil, err
	}
	switch stmt := parsed.(type) {
	case *ddl.CreateTable:
		err = s.createTable(stmt)
	case *ddl.CreateIndex:
		err = s.createIndex(stmt)
	case *ddl.AlterTable:
		err = s.alterTable(stmt)
	case *ddl.DropTable:
		err = s.dropTable(stmt)
	case *ddl.DropIndex:
		err = s.dropIndex(stmt)
	default:
		err = status.InternalError("unsupported DDL statement %q", statement)
	}
	if err != nil {
		return nil, err
	}

	newGraph, err := s.editor.CanonicalizeGraph()
	if err != nil {
		return nil, err
	}
	return catalog.NewSchema(newGraph), nil
}

// addNode adds a freshly built node to the schema copy under edit.
func (s *schemaUpdaterImpl) addNode(n graph.SchemaNode) error {
	return s.editor.AddNode(n)
}

// dropNode removes a node of the latest schema from the copy under edit.
func (s *schemaUpdaterImpl) dropNode(n graph.SchemaNode) error {
	return s.editor.DeleteNode(n)
}

// alterTableNode edits a table through its typed editor facade.
func (s *schemaUpdaterImpl) alterTableNode(t *catalog.Table, alter func(*catalog.TableEditor) error) error {
	return s.editor.EditNode(t, func(clone graph.SchemaNode) error {
		return alter(catalog.NewTableEditor(clone.(*catalog.Table)))
	})
}

// alterColumnNode edits a column through its typed editor facade.
func (s *schemaUpdaterImpl) alterColumnNode(c *catalog.Column, alter func(*catalog.ColumnEditor) error) error {
	return s.editor.EditNode(c, func(clone graph.SchemaNode) error {
		return alter(catalog.NewColumnEditor(clone.(*catalog.Column)))
	})
}

// setColumnDefinition applies a parsed column definition to a builder or
// editor: type, then the nullability/length defaults, then the declared
// constraints, then options.
func (s *schemaUpdaterImpl) setColumnDefinition(def *ddl.ColumnDef, mod columnDefModifier) error {
	if def.Type != nil {
		columnType, err := ddlTypeToType(def.Type, s.typeFactory)
		if err != nil {
			return err
		}
		mod.SetType(columnType)
	}
	mod.SetNullable(true)
	mod.SetDeclaredMaxLength(nil)
	if def.NotNull {
		mod.SetNullable(false)
	}
	if def.Length != nil {
		mod.SetDeclaredMaxLength(def.Length)
	}
	if def.Options != nil {
		mod.SetAllowCommitTimestamp(def.Options.AllowCommitTimestamp)
	}
	return nil
}

func (s *schemaUpdaterImpl) createColumn(def *ddl.ColumnDef, table *catalog.Table) (*catalog.Column, error) {
	builder := catalog.NewColumnBuilder()
	builder.SetID(s.columnIDGenerator.NextID(table.Name() + "." + def.Name)).
		SetName(def.Name)
	if err := s.setColumnDefinition(def, builder); err != nil {
		return nil, err
	}
	column := builder.Get()
	builder.SetTable(table)
	built, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if err := s.addNode(built); err != nil {
		return nil, err
	}
	return column, nil
}

func (s *schemaUpdaterImpl) createPrimaryKeyColumn(part ddl.KeyPart, table *catalog.Table) (*catalog.KeyColumn, error) {
	// References to columns in a primary key clause are case-sensitive.
	column := table.FindColumnCaseSensitive(part.Column)
	if column == nil {
		kind, name := owningObject(table)
		return nil, status.NonExistentKeyColumn(kind, name, part.Column)
	}
	builder := catalog.NewKeyColumnBuilder()
	builder.SetColumn(column).SetDescending(part.Descending)
	keyColumn := builder.Get()
	built, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if err := s.addNode(built); err != nil {
		return nil, err
	}
	return keyColumn, nil
}

// owningObject names the object a key column belongs to: the table itself, or
// the index owning it when the table is an index data table.
func owningObject(table *catalog.Table) (kind, name string) {
	if owner := table.OwnerIndex(); owner != nil {
		return "Index", owner.Name()
	}
	return "Table", table.Name()
}

func (s *schemaUpdaterImpl) createPrimaryKeyConstraint(keys []ddl.KeyPart, builder *catalog.TableBuilder) error {
	for _, part := range keys {
		keyColumn, err := s.createPrimaryKeyColumn(part, builder.Get())
		if err != nil {
			return err
		}
		builder.AddKeyColumn(keyColumn)
	}
	return nil
}

func (s *schemaUpdaterImpl) createInterleaveConstraint(interleave *ddl.Interleave, builder *catalog.TableBuilder) error {
	parent := s.latestSchema.FindTable(interleave.Parent)
	if parent == nil {
		table := builder.Get()
		if table.OwnerIndex() == nil {
			return status.TableNotFound(interleave.Parent)
		}
		return status.IndexInterleaveTableNotFound(table.OwnerIndex().Name(), interleave.Parent)
	}
	if builder.Get().Parent() != nil {
		return status.InternalError("table %s already has an interleave parent", builder.Get().Name())
	}

	err := s.alterTableNode(parent, func(parentEditor *catalog.TableEditor) error {
		parentEditor.AddChildTable(builder.Get())
		builder.SetParent(parentEditor.Get())
		return nil
	})
	if err != nil {
		return err
	}

	if interleave.OnDelete == ddl.Cascade {
		builder.SetOnDelete(catalog.OnDeleteCascade)
	} else {
		builder.SetOnDelete(catalog.OnDeleteNoAction)
	}
	return nil
}

func (s *schemaUpdaterImpl) createForeignKeyConstraint(def *ddl.ForeignKey, referencingTable *catalog.Table) error {
	// Backing indexes and enforcement against row data are not wired up yet;
	// the constraint is structural only.
	s.debugf("foreign keys are not yet enforced against row data")
	foreignKeyBuilder := catalog.NewForeignKeyBuilder()

	err := s.alterTableNode(referencingTable, func(editor *catalog.TableEditor) error {
		referencingTable = editor.Get()
		editor.AddForeignKey(foreignKeyBuilder.Get())
		return nil
	})
	if err != nil {
		return err
	}
	foreignKeyBuilder.SetReferencingTable(referencingTable)

	referencedTable := s.latestSchema.FindTableCaseSensitive(def.ReferencedTable)
	if referencedTable == nil {
		if def.ReferencedTable != referencingTable.Name() {
			return status.TableNotFound(def.ReferencedTable)
		}
		// Self-referencing foreign key.
		referencedTable = referencingTable
	}
	err = s.alterTableNode(referencedTable, func(editor *catalog.TableEditor) error {
		referencedTable = editor.Get()
		editor.AddReferencingForeignKey(foreignKeyBuilder.Get())
		return nil
	})
	if err != nil {
		return err
	}
	foreignKeyBuilder.SetReferencedTable(referencedTable)

	var foreignKeyName string
	if def.ConstraintName != "" {
		foreignKeyName = def.ConstraintName
		if err := s.globalNames.AddName("Foreign Key", foreignKeyName); err != nil {
			return err
		}
		foreignKeyBuilder.SetConstraintName(foreignKeyName)
	} else {
		foreignKeyName, err = s.globalNames.GenerateForeignKeyName(
			referencingTable.Name(), referencedTable.Name())
		if err != nil {
			return err
		}
		foreignKeyBuilder.SetGeneratedName(foreignKeyName)
	}

	addColumns := func(table *catalog.Table, columnNames []string,
		addColumn func(*catalog.Column)) error {
		for _, columnName := range columnNames {
			column := table.FindColumnCaseSensitive(columnName)
			if column == nil {
				return status.ForeignKeyColumnNotFound(columnName, table.Name(), foreignKeyName)
			}
			addColumn(column)
		}
		return nil
	}
	if err := addColumns(referencingTable, def.Columns, func(c *catalog.Column) {
		foreignKeyBuilder.AddReferencingColumn(c)
	}); err != nil {
		return err
	}
	if err := addColumns(referencedTable, def.ReferencedColumns, func(c *catalog.Column) {
		foreignKeyBuilder.AddReferencedColumn(c)
	}); err != nil {
		return err
	}

	built, err := foreignKeyBuilder.Build()
	if err != nil {
		return err
	}
	return s.addNode(built)
}

func (s *schemaUpdaterImpl) createTable(def *ddl.CreateTable) error {
	if len(s.latestSchema.Tables()) >= limits.MaxTablesPerDatabase {
		return status.TooManyTablesPerDatabase(def.Name, limits.MaxTablesPerDatabase)
	}
	// User table names start with a letter, which keeps them apart from the
	// index data table prefix.
	if first, _ := utf8.DecodeRuneInString(def.Name); !unicode.IsLetter(first) {
		return status.Errorf(status.InvalidArgument,
			"table name %s must start with a letter", def.Name)
	}
	if err := s.globalNames.AddName("Table", def.Name); err != nil {
		return err
	}

	builder := catalog.NewTableBuilder()
	builder.SetID(s.tableIDGenerator.NextID(def.Name)).SetName(def.Name)

	for _, columnDef := range def.Columns {
		column, err := s.createColumn(columnDef, builder.Get())
		if err != nil {
			return err
		}
		builder.AddColumn(column)
	}

	for _, constraint := range def.Constraints {
		switch c := constraint.(type) {
		case *ddl.PrimaryKey:
			if err := s.createPrimaryKeyConstraint(c.Keys, builder); err != nil {
				return err
			}
		case *ddl.Interleave:
			if err := s.createInterleaveConstraint(c, builder); err != nil {
				return err
			}
		case *ddl.ForeignKey:
			if err := s.createForeignKeyConstraint(c, builder.Get()); err != nil {
				return err
			}
		default:
			return status.InternalError("unsupported constraint type %T on table %s", c, def.Name)
		}
	}

	built, err := builder.Build()
	if err != nil {
		return err
	}
	return s.addNode(built)
}

func (s *schemaUpdaterImpl) createIndexDataTableColumn(indexedTable *catalog.Table,
	sourceColumnName string, indexDataTable *catalog.Table,
	nullFilteredKeyColumn bool) (*catalog.Column, error) {
	sourceColumn := indexedTable.FindColumn(sourceColumnName)
	if sourceColumn == nil {
		return nil, status.IndexRefsNonExistentColumn(
			indexDataTable.OwnerIndex().Name(), sourceColumnName)
	}

	builder := catalog.NewColumnBuilder()
	builder.SetName(sourceColumn.Name()).
		SetID(s.columnIDGenerator.NextID(indexDataTable.Name() + "." + sourceColumn.Name())).
		SetSourceColumn(sourceColumn).
		SetTable(indexDataTable)
	if nullFilteredKeyColumn {
		builder.SetNullable(false)
	} else {
		builder.SetNullable(sourceColumn.Nullable())
	}

	column := builder.Get()
	built, err := builder.Build()
	if err != nil {
		return nil, err
	}
	if err := s.addNode(built); err != nil {
		return nil, err
	}
	return column, nil
}

func (s *schemaUpdaterImpl) createIndexDataTable(def *ddl.CreateIndex, index *catalog.Index,
	indexedTable *catalog.Table) (dataTable *catalog.Table,
	indexKeyColumns []*catalog.KeyColumn, storedColumns []*catalog.Column, err error) {
	tableName := catalog.IndexDataTablePrefix + def.Name
	builder := catalog.NewTableBuilder()
	builder.SetName(tableName).
		SetID(s.tableIDGenerator.NextID(tableName)).
		SetOwnerIndex(index)

	// The data table's primary key combines the declared index keys with the
	// indexed table's keys.
	dataTablePK := append([]ddl.KeyPart(nil), def.Keys...)

	for _, part := range def.Keys {
		column, err := s.createIndexDataTableColumn(
			indexedTable, part.Column, builder.Get(), index.NullFiltered())
		if err != nil {
			return nil, nil, nil, err
		}
		builder.AddColumn(column)
	}

	for _, keyColumn := range indexedTable.PrimaryKey() {
		columnName := keyColumn.Column().Name()
		if builder.Get().FindColumn(columnName) != nil {
			// Skip columns already added as index keys.
			continue
		}
		column, err := s.createIndexDataTableColumn(
			indexedTable, columnName, builder.Get(), index.NullFiltered())
		if err != nil {
			return nil, nil, nil, err
		}
		builder.AddColumn(column)
		dataTablePK = append(dataTablePK, ddl.KeyPart{
			Column:     columnName,
			Descending: keyColumn.Descending(),
		})
	}

	if err := s.createPrimaryKeyConstraint(dataTablePK, builder); err != nil {
		return nil, nil, nil, err
	}
	dataTableKeyColumns := builder.Get().PrimaryKey()
	indexKeyColumns = append(indexKeyColumns, dataTableKeyColumns[:len(def.Keys)]...)

	// The data table lives under the indexed table (or the declared
	// interleave target), always cascade-deleted.
	interleave := def.Interleave
	if interleave == nil {
		interleave = &ddl.Interleave{Parent: indexedTable.Name()}
	}
	interleave = &ddl.Interleave{Parent: interleave.Parent, OnDelete: ddl.Cascade}
	if err := s.createInterleaveConstraint(interleave, builder); err != nil {
		return nil, nil, nil, err
	}

	for _, storedColumnName := range def.Storing {
		column, err := s.createIndexDataTableColumn(
			indexedTable, storedColumnName, builder.Get(), false)
		if err != nil {
			return nil, nil, nil, err
		}
		builder.AddColumn(column)
		storedColumns = append(storedColumns, column)
	}

	dataTable, err = builder.Build()
	if err != nil {
		return nil, nil, nil, err
	}
	return dataTable, indexKeyColumns, storedColumns, nil
}

func (s *schemaUpdaterImpl) createIndex(def *ddl.CreateIndex) error {
	indexedTable := s.latestSchema.FindTable(def.Table)
	if indexedTable == nil {
		return status.TableNotFound(def.Table)
	}
	if s.latestSchema.NumIndexes() >= limits.MaxIndexesPerDatabase {
		return status.TooManyIndicesPerDatabase(def.Name, limits.MaxIndexesPerDatabase)
	}

	// Tables and indexes share a namespace.
	if err := s.globalNames.AddName("Index", def.Name); err != nil {
		return err
	}

	builder := catalog.NewIndexBuilder()
	builder.SetName(def.Name).
		SetUnique(def.Unique).
		SetNullFiltered(def.NullFiltered)

	dataTable, keyColumns, storedColumns, err := s.createIndexDataTable(
		def, builder.Get(), indexedTable)
	if err != nil {
		return err
	}
	builder.SetIndexDataTable(dataTable)
	for _, keyColumn := range keyColumns {
		builder.AddKeyColumn(keyColumn)
	}
	for _, column := range storedColumns {
		builder.AddStoredColumn(column)
	}

	err = s.alterTableNode(indexedTable, func(editor *catalog.TableEditor) error {
		editor.AddIndex(builder.Get())
		builder.SetIndexedTable(editor.Get())
		return nil
	})
	if err != nil {
		return err
	}

	s.statementContext.AddAction(&BackfillIndexAction{Index: builder.Get()})

	// The data table is added after the index for correct validation order.
	built, err := builder.Build()
	if err != nil {
		return err
	}
	if err := s.addNode(built); err != nil {
		return err
	}
	return s.addNode(dataTable)
}

func (s *schemaUpdaterImpl) alterTable(def *ddl.AlterTable) error {
	table := s.latestSchema.FindTable(def.Name)
	if table == nil {
		return status.TableNotFound(def.Name)
	}
	if (def.Column == nil) == (def.Constraint == nil) {
		return status.InternalError(
			"ALTER TABLE %s must carry exactly one column or constraint alteration", def.Name)
	}

	if constraint := def.Constraint; constraint != nil {
		if constraint.Interleave != nil && constraint.Op == ddl.AlterConstraintForm {
			return s.alterInterleave(constraint.Interleave, table)
		}
		if constraint.ForeignKey != nil && constraint.Op == ddl.AddConstraint {
			return s.createForeignKeyConstraint(constraint.ForeignKey, table)
		}
		if constraint.ForeignKey == nil && constraint.Interleave == nil &&
			constraint.Op == ddl.DropConstraintForm && constraint.Name != "" {
			return s.dropConstraint(constraint.Name, table)
		}
		return status.InternalError("invalid ALTER TABLE constraint operation on %s", def.Name)
	}

	alterColumn := def.Column
	switch alterColumn.Op {
	case ddl.AddColumn:
		newColumn, err := s.createColumn(alterColumn.Def, table)
		if err != nil {
			return err
		}
		return s.alterTableNode(table, func(editor *catalog.TableEditor) error {
			editor.AddColumn(newColumn)
			return nil
		})
	case ddl.AlterColumn:
		column := table.FindColumn(alterColumn.Name)
		if column == nil {
			return status.ColumnNotFound(table.Name(), alterColumn.Name)
		}
		return s.alterColumnNode(column, func(editor *catalog.ColumnEditor) error {
			return s.setColumnDefinition(alterColumn.Def, editor)
		})
	case ddl.DropColumn:
		column := table.FindColumn(alterColumn.Name)
		if column == nil {
			return status.ColumnNotFound(table.Name(), alterColumn.Name)
		}
		return s.dropNode(column)
	default:
		return status.InternalError("invalid ALTER COLUMN specification on %s", def.Name)
	}
}

func (s *schemaUpdaterImpl) alterInterleave(interleave *ddl.Interleave, table *catalog.Table) error {
	return s.alterTableNode(table, func(editor *catalog.TableEditor) error {
		if interleave.OnDelete == ddl.Cascade {
			editor.SetOnDelete(catalog.OnDeleteCascade)
		} else {
			editor.SetOnDelete(catalog.OnDeleteNoAction)
		}
		return nil
	})
}

func (s *schemaUpdaterImpl) dropConstraint(constraintName string, table *catalog.Table) error {
	// Foreign keys are the only constraints ALTER TABLE DROP CONSTRAINT
	// currently handles.
	if foreignKey := table.FindForeignKey(constraintName); foreignKey != nil {
		return s.dropNode(foreignKey)
	}
	return status.ConstraintNotFound(constraintName, table.Name())
}

func (s *schemaUpdaterImpl) dropTable(def *ddl.DropTable) error {
	table := s.latestSchema.FindTable(def.Name)
	if table == nil {
		return status.TableNotFound(def.Name)
	}
	return s.dropNode(table)
}

func (s *schemaUpdaterImpl) dropIndex(def *ddl.DropIndex) error {
	index := s.latestSchema.FindIndex(def.Name)
	if index == nil {
		return status.IndexNotFound(def.Name)
	}
	return s.dropNode(index)
}

// SchemaUpdater processes DDL batches against an existing (or empty) schema,
// yielding the updated snapshot and running deferred schema change actions.
type SchemaUpdater struct {
	pendingWork         []*SchemaValidationContext
	intermediateSchemas []*catalog.Schema
}

// EmptySchema returns the zero-statement schema every database starts from.
func EmptySchema() *catalog.Schema { return catalog.EmptySchema() }

// ValidateSchemaFromDDL checks that statements apply cleanly on top of
// existing (nil means empty) and returns the resulting snapshot. Deferred
// actions are not run.
func (u *SchemaUpdater) ValidateSchemaFromDDL(statements []string,
	ctx SchemaChangeContext, existing *catalog.Schema) (*catalog.Schema, error) {
	if existing == nil {
		existing = EmptySchema()
	}
	impl, err := newSchemaUpdaterImpl(ctx, existing)
	if err != nil {
		return nil, err
	}
	if u.pendingWork, err = impl.applyDDLStatements(statements); err != nil {
		return nil, err
	}
	u.intermediateSchemas = impl.intermediateSchemas

	var newSchema *catalog.Schema
	if len(u.intermediateSchemas) > 0 {
		newSchema = u.intermediateSchemas[len(u.intermediateSchemas)-1]
	}
	u.pendingWork = nil
	u.intermediateSchemas = nil
	return newSchema, nil
}

// runPendingActions executes the deferred actions of each statement in
// order, counting the statements whose actions all succeeded.
func (u *SchemaUpdater) runPendingActions(numSuccessful *int) error {
	for _, pendingStatement := range u.pendingWork {
		if err := pendingStatement.RunSchemaChangeActions(); err != nil {
			return err
		}
		*numSuccessful++
	}
	return nil
}

// UpdateSchemaFromDDL applies statements on top of existing, then runs the
// deferred actions per statement in order. The first action failure stops the
// queue; the returned result reports how many statements fully succeeded and
// the snapshot after the last successful one.
func (u *SchemaUpdater) UpdateSchemaFromDDL(existing *catalog.Schema,
	statements []string, ctx SchemaChangeContext) (SchemaChangeResult, error) {
	impl, err := newSchemaUpdaterImpl(ctx, existing)
	if err != nil {
		return SchemaChangeResult{}, err
	}
	if u.pendingWork, err = impl.applyDDLStatements(statements); err != nil {
		return SchemaChangeResult{}, err
	}
	u.intermediateSchemas = impl.intermediateSchemas

	numSuccessful := 0
	backfillStatus := u.runPendingActions(&numSuccessful)
	var newSchema *catalog.Schema
	if numSuccessful > 0 {
		newSchema = u.intermediateSchemas[numSuccessful-1]
	}
	u.pendingWork = nil
	u.intermediateSchemas = nil
	return SchemaChangeResult{
		NumSuccessfulStatements: numSuccessful,
		UpdatedSchema:           newSchema,
		BackfillStatus:          backfillStatus,
	}, nil
}

// CreateSchemaFromDDL builds a schema from scratch, failing outright if any
// deferred action fails.
func (u *SchemaUpdater) CreateSchemaFromDDL(statements []string,
	ctx SchemaChangeContext) (*catalog.Schema, error) {
	result, err := u.UpdateSchemaFromDDL(EmptySchema(), statements, ctx)
	if err != nil {
		return nil, err
	}
	if result.BackfillStatus != nil {
		return nil, result.BackfillStatus
	}
	return result.UpdatedSchema, nil
}

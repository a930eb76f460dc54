// Package dump renders a schema snapshot back into canonical DDL text:
// tables in creation order (parents always precede their interleaved
// children), then indexes. Synthetic index data tables are not printed.
package dump

import (
	"fmt"
	"io"
	"strings"

	"github.com/isabella232/cloud-spanner-emulator/internal/ddl"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/catalog"
	"github.com/isabella232/cloud-spanner-emulator/internal/types"
)

// DDLStatements renders every user table and index of the snapshot.
func DDLStatements(schema *catalog.Schema) []string {
	var statements []string
	for _, table := range schema.Tables() {
		statements = append(statements, TableDDL(table))
	}
	for _, index := range schema.Indexes() {
		statements = append(statements, IndexDDL(index))
	}
	return statements
}

// Write renders the snapshot as a schema file.
func Write(schema *catalog.Schema, w io.Writer) error {
	for _, statement := range DDLStatements(schema) {
		if _, err := fmt.Fprintf(w, "%s;\n\n", statement); err != nil {
			return err
		}
	}
	return nil
}

// TableDDL renders one CREATE TABLE statement.
func TableDDL(table *catalog.Table) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", table.Name())

	declared := declaredForeignKeys(table)
	for pos, column := range table.Columns() {
		fmt.Fprintf(&b, "  %s %s", column.Name(), columnType(column))
		if !column.Nullable() {
			b.WriteString(" NOT NULL")
		}
		if allow := column.AllowCommitTimestamp(); allow != nil {
			fmt.Fprintf(&b, " OPTIONS (allow_commit_timestamp = %t)", *allow)
		}
		if pos < len(table.Columns())-1 || len(declared) > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
	for pos, fk := range declared {
		fmt.Fprintf(&b, "  CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
			fk.Name(),
			columnNames(fk.ReferencingColumns()),
			fk.ReferencedTable().Name(),
			columnNames(fk.ReferencedColumns()))
		if pos < len(declared)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, ") PRIMARY KEY (%s)", keyParts(table.PrimaryKey()))

	if parent := table.Parent(); parent != nil {
		fmt.Fprintf(&b, ", INTERLEAVE IN PARENT %s ON DELETE %s",
			parent.Name(), table.OnDelete())
	}
	return b.String()
}

// IndexDDL renders one CREATE INDEX statement.
func IndexDDL(index *catalog.Index) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if index.Unique() {
		b.WriteString("UNIQUE ")
	}
	if index.NullFiltered() {
		b.WriteString("NULL_FILTERED ")
	}
	fmt.Fprintf(&b, "INDEX %s ON %s (%s)",
		index.Name(), index.IndexedTable().Name(), keyParts(index.KeyColumns()))

	if len(index.StoredColumns()) > 0 {
		fmt.Fprintf(&b, " STORING (%s)", columnNames(index.StoredColumns()))
	}
	if parent := index.IndexDataTable().Parent(); parent != index.IndexedTable() {
		fmt.Fprintf(&b, ", INTERLEAVE IN %s", parent.Name())
	}
	return b.String()
}

// declaredForeignKeys filters out generated-name constraints, which are not
// part of the printable schema surface.
func declaredForeignKeys(table *catalog.Table) []*catalog.ForeignKey {
	var declared []*catalog.ForeignKey
	for _, fk := range table.ForeignKeys() {
		if !fk.Generated() {
			declared = append(declared, fk)
		}
	}
	return declared
}

func columnType(column *catalog.Column) string {
	t := column.Type()
	if t.IsArray() {
		return fmt.Sprintf("ARRAY<%s>", scalarType(t.ArrayElementType(), column.DeclaredMaxLength()))
	}
	return scalarType(t, column.DeclaredMaxLength())
}

func scalarType(t *types.Type, declaredLength *int64) string {
	if !t.SizedLength() {
		return t.String()
	}
	if declaredLength == nil || *declaredLength == ddl.MaxLength {
		return fmt.Sprintf("%s(MAX)", t)
	}
	return fmt.Sprintf("%s(%d)", t, *declaredLength)
}

func keyParts(keys []*catalog.KeyColumn) string {
	parts := make([]string, len(keys))
	for pos, key := range keys {
		parts[pos] = key.Column().Name()
		if key.Descending() {
			parts[pos] += " DESC"
		}
	}
	return strings.Join(parts, ", ")
}

func columnNames(columns []*catalog.Column) string {
	names := make([]string, len(columns))
	for pos, column := range columns {
		names[pos] = column.Name()
	}
	return strings.Join(names, ", ")
}

// Package catalog defines the schema node kinds (tables, columns, key
// columns, indexes, foreign keys), their builders and editor facades, and the
// Schema snapshot with its name-indexed views.
package catalog

import (
	"fmt"

	"github.com/isabella232/cloud-spanner-emulator/internal/schema/graph"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
	"github.com/isabella232/cloud-spanner-emulator/internal/types"
)

// Column is a column of a table. Columns of an index data table carry a
// source column pointing at the indexed table's column they mirror.
type Column struct {
	id                   uint64
	name                 string
	table                *Table
	typ                  *types.Type
	nullable             bool
	declaredMaxLength    *int64
	allowCommitTimestamp *bool
	sourceColumn         *Column
}

func (c *Column) ID() uint64                  { return c.id }
func (c *Column) Name() string                { return c.name }
func (c *Column) Table() *Table               { return c.table }
func (c *Column) Type() *types.Type           { return c.typ }
func (c *Column) Nullable() bool              { return c.nullable }
func (c *Column) DeclaredMaxLength() *int64   { return c.declaredMaxLength }
func (c *Column) AllowCommitTimestamp() *bool { return c.allowCommitTimestamp }
func (c *Column) SourceColumn() *Column       { return c.sourceColumn }

func (c *Column) String() string {
	if c.table != nil {
		return fmt.Sprintf("Column %s.%s", c.table.Name(), c.name)
	}
	return fmt.Sprintf("Column %s", c.name)
}

func (c *Column) SchemaNameInfo() *graph.SchemaNameInfo {
	return &graph.SchemaNameInfo{Kind: "Column", Name: c.name}
}

func (c *Column) ReferencedNodes() []graph.SchemaNode {
	refs := []graph.SchemaNode{c.table}
	if c.sourceColumn != nil {
		refs = append(refs, c.sourceColumn)
	}
	return refs
}

func (c *Column) ShallowClone() graph.SchemaNode {
	clone := *c
	return &clone
}

func (c *Column) RewriteReferences(r *graph.RefRewriter) error {
	var err error
	if c.table, err = graph.Rewrite(r, c.table); err != nil {
		return err
	}
	if c.sourceColumn != nil {
		if c.sourceColumn, err = graph.Rewrite(r, c.sourceColumn); err != nil {
			return err
		}
	}
	return nil
}

func (c *Column) DeepDelete(*graph.Deleter) {}

func (c *Column) Validate() error {
	if c.name == "" || c.id == 0 {
		return status.IncompleteNode("Column", "name or id")
	}
	if c.table == nil {
		return status.IncompleteNode(c.String(), "table")
	}
	if c.typ == nil {
		return status.IncompleteNode(c.String(), "type")
	}
	if c.declaredMaxLength != nil {
		sized := c.typ.SizedLength() ||
			(c.typ.IsArray() && c.typ.ArrayElementType().SizedLength())
		if !sized {
			return status.Errorf(status.InvalidArgument,
				"column %s of type %s cannot declare a length", c.name, c.typ)
		}
	}
	if c.allowCommitTimestamp != nil && c.typ.Kind() != types.Timestamp {
		return status.Errorf(status.InvalidArgument,
			"option %s is only valid on TIMESTAMP columns, column %s has type %s",
			"allow_commit_timestamp", c.name, c.typ)
	}
	if c.sourceColumn != nil && c.sourceColumn.typ != c.typ {
		return status.InternalError("column %s does not match its source column type", c.name)
	}
	return nil
}

// ColumnBuilder accumulates the fields of a Column and emits it. Get exposes
// the node under construction so it can be referenced before Build.
type ColumnBuilder struct {
	col *Column
}

func NewColumnBuilder() *ColumnBuilder {
	return &ColumnBuilder{col: &Column{nullable: true}}
}

func (b *ColumnBuilder) Get() *Column { return b.col }

func (b *ColumnBuilder) SetID(id uint64) *ColumnBuilder     { b.col.id = id; return b }
func (b *ColumnBuilder) SetName(name string) *ColumnBuilder { b.col.name = name; return b }
func (b *ColumnBuilder) SetTable(t *Table) *ColumnBuilder   { b.col.table = t; return b }
func (b *ColumnBuilder) SetSourceColumn(c *Column) *ColumnBuilder {
	b.col.sourceColumn = c
	if c != nil {
		b.col.typ = c.typ
		b.col.declaredMaxLength = c.declaredMaxLength
	}
	return b
}

func (b *ColumnBuilder) SetType(t *types.Type)           { b.col.typ = t }
func (b *ColumnBuilder) SetNullable(nullable bool)       { b.col.nullable = nullable }
func (b *ColumnBuilder) SetDeclaredMaxLength(l *int64)   { b.col.declaredMaxLength = l }
func (b *ColumnBuilder) SetAllowCommitTimestamp(v *bool) { b.col.allowCommitTimestamp = v }

func (b *ColumnBuilder) Build() (*Column, error) {
	switch {
	case b.col.name == "":
		return nil, status.IncompleteNode("Column", "name")
	case b.col.id == 0:
		return nil, status.IncompleteNode("Column "+b.col.name, "id")
	case b.col.table == nil:
		return nil, status.IncompleteNode("Column "+b.col.name, "table")
	case b.col.typ == nil:
		return nil, status.IncompleteNode("Column "+b.col.name, "type")
	}
	return b.col, nil
}

// ColumnEditor is the mutable facade over a column clone during EditNode.
type ColumnEditor struct {
	col *Column
}

func NewColumnEditor(c *Column) *ColumnEditor { return &ColumnEditor{col: c} }

func (e *ColumnEditor) Get() *Column { return e.col }

func (e *ColumnEditor) SetType(t *types.Type)           { e.col.typ = t }
func (e *ColumnEditor) SetNullable(nullable bool)       { e.col.nullable = nullable }
func (e *ColumnEditor) SetDeclaredMaxLength(l *int64)   { e.col.declaredMaxLength = l }
func (e *ColumnEditor) SetAllowCommitTimestamp(v *bool) { e.col.allowCommitTimestamp = v }

package catalog

import (
	"fmt"
	"strings"

	"github.com/isabella232/cloud-spanner-emulator/internal/limits"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/graph"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// OnDeleteAction is the behavior of child rows when an interleave parent row
// is deleted.
type OnDeleteAction int

const (
	OnDeleteNoAction OnDeleteAction = iota
	OnDeleteCascade
)

func (a OnDeleteAction) String() string {
	if a == OnDeleteCascade {
		return "CASCADE"
	}
	return "NO ACTION"
}

// Table is a table of the schema. An index data table is a synthetic Table
// whose OwnerIndex is set.
type Table struct {
	id         uint64
	name       string
	columns    []*Column
	primaryKey []*KeyColumn

	parent   *Table
	onDelete OnDeleteAction
	children []*Table

	indexes                []*Index
	foreignKeys            []*ForeignKey
	referencingForeignKeys []*ForeignKey

	ownerIndex *Index
}

func (t *Table) ID() uint64                 { return t.id }
func (t *Table) Name() string               { return t.name }
func (t *Table) Columns() []*Column         { return t.columns }
func (t *Table) PrimaryKey() []*KeyColumn   { return t.primaryKey }
func (t *Table) Parent() *Table             { return t.parent }
func (t *Table) OnDelete() OnDeleteAction   { return t.onDelete }
func (t *Table) Children() []*Table         { return t.children }
func (t *Table) Indexes() []*Index          { return t.indexes }
func (t *Table) ForeignKeys() []*ForeignKey { return t.foreignKeys }
func (t *Table) ReferencingForeignKeys() []*ForeignKey {
	return t.referencingForeignKeys
}
func (t *Table) OwnerIndex() *Index { return t.ownerIndex }

// FindColumn resolves a column by name, case-insensitively.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.columns {
		if strings.EqualFold(c.Name(), name) {
			return c
		}
	}
	return nil
}

// FindColumnCaseSensitive resolves a column by exact name. Primary-key and
// foreign-key column references use this form.
func (t *Table) FindColumnCaseSensitive(name string) *Column {
	for _, c := range t.columns {
		if c.Name() == name {
			return c
		}
	}
	return nil
}

// FindForeignKey resolves a foreign key of this table by constraint name.
func (t *Table) FindForeignKey(name string) *ForeignKey {
	for _, fk := range t.foreignKeys {
		if strings.EqualFold(fk.Name(), name) {
			return fk
		}
	}
	return nil
}

func (t *Table) String() string { return fmt.Sprintf("Table %s", t.name) }

func (t *Table) SchemaNameInfo() *graph.SchemaNameInfo {
	return &graph.SchemaNameInfo{Kind: "Table", Name: t.name, Global: t.ownerIndex == nil}
}

func (t *Table) ReferencedNodes() []graph.SchemaNode {
	var refs []graph.SchemaNode
	for _, c := range t.columns {
		refs = append(refs, c)
	}
	for _, k := range t.primaryKey {
		refs = append(refs, k)
	}
	if t.parent != nil {
		refs = append(refs, t.parent)
	}
	for _, c := range t.children {
		refs = append(refs, c)
	}
	for _, i := range t.indexes {
		refs = append(refs, i)
	}
	for _, fk := range t.foreignKeys {
		refs = append(refs, fk)
	}
	for _, fk := range t.referencingForeignKeys {
		refs = append(refs, fk)
	}
	if t.ownerIndex != nil {
		refs = append(refs, t.ownerIndex)
	}
	return refs
}

func (t *Table) ShallowClone() graph.SchemaNode {
	clone := *t
	clone.columns = append([]*Column(nil), t.columns...)
	clone.primaryKey = append([]*KeyColumn(nil), t.primaryKey...)
	clone.children = append([]*Table(nil), t.children...)
	clone.indexes = append([]*Index(nil), t.indexes...)
	clone.foreignKeys = append([]*ForeignKey(nil), t.foreignKeys...)
	clone.referencingForeignKeys = append([]*ForeignKey(nil), t.referencingForeignKeys...)
	return &clone
}

func (t *Table) RewriteReferences(r *graph.RefRewriter) error {
	var err error
	if t.columns, err = graph.RewriteSlice(r, t.columns); err != nil {
		return err
	}
	if t.primaryKey, err = graph.RewriteSlice(r, t.primaryKey); err != nil {
		return err
	}
	if t.parent != nil {
		if t.parent, err = graph.Rewrite(r, t.parent); err != nil {
			return err
		}
	}
	if t.children, err = graph.RewriteSlice(r, t.children); err != nil {
		return err
	}
	if t.indexes, err = graph.RewriteSlice(r, t.indexes); err != nil {
		return err
	}
	if t.foreignKeys, err = graph.RewriteSlice(r, t.foreignKeys); err != nil {
		return err
	}
	if t.referencingForeignKeys, err = graph.RewriteSlice(r, t.referencingForeignKeys); err != nil {
		return err
	}
	if t.ownerIndex != nil {
		if t.ownerIndex, err = graph.Rewrite(r, t.ownerIndex); err != nil {
			return err
		}
	}
	return nil
}

// DeepDelete removes the nodes only this table owns: its columns and its key
// columns. Indexes and foreign keys are shared edges and must be dropped
// first; a drop that leaves them behind fails canonicalization.
func (t *Table) DeepDelete(d *graph.Deleter) {
	for _, c := range t.columns {
		d.Delete(c)
	}
	for _, k := range t.primaryKey {
		d.Delete(k)
	}
}

func (t *Table) Validate() error {
	if t.name == "" || t.id == 0 {
		return status.IncompleteNode("Table", "name or id")
	}
	if len(t.name) > limits.MaxSchemaNameLength {
		return status.Errorf(status.InvalidArgument,
			"table name %s exceeds the maximum length of %d", t.name, limits.MaxSchemaNameLength)
	}
	if len(t.columns) == 0 {
		return status.Errorf(status.InvalidArgument,
			"table %s must define at least one column", t.name)
	}
	for _, c := range t.columns {
		if c.Table() != t {
			return status.InternalError("%s is not owned by %s", c, t)
		}
	}
	for _, k := range t.primaryKey {
		if k.Column().Table() != t {
			return status.InternalError(
				"%s names %s, which belongs to another table", k, k.Column())
		}
	}
	if t.parent != nil && !containsTable(t.parent.children, t) {
		return status.InternalError(
			"%s is not registered as a child of its parent %s", t, t.parent)
	}
	for _, child := range t.children {
		if child.parent != t {
			return status.InternalError("%s does not point back at parent %s", child, t)
		}
	}
	for _, fk := range t.foreignKeys {
		if fk.ReferencingTable() != t {
			return status.InternalError("%s is not referencing %s", fk, t)
		}
	}
	for _, fk := range t.referencingForeignKeys {
		if fk.ReferencedTable() != t {
			return status.InternalError("%s does not reference %s", fk, t)
		}
	}
	if t.ownerIndex != nil && t.ownerIndex.IndexDataTable() != t {
		return status.InternalError("%s is not the data table of its owner %s", t, t.ownerIndex)
	}
	return nil
}

func containsTable(tables []*Table, t *Table) bool {
	for _, candidate := range tables {
		if candidate == t {
			return true
		}
	}
	return false
}

// TableBuilder accumulates the fields of a Table. Get exposes the node under
// construction so columns and constraints can reference it before Build.
type TableBuilder struct {
	t *Table
}

func NewTableBuilder() *TableBuilder {
	return &TableBuilder{t: &Table{}}
}

func (b *TableBuilder) Get() *Table { return b.t }

func (b *TableBuilder) SetID(id uint64) *TableBuilder     { b.t.id = id; return b }
func (b *TableBuilder) SetName(name string) *TableBuilder { b.t.name = name; return b }

func (b *TableBuilder) SetOwnerIndex(i *Index) *TableBuilder { b.t.ownerIndex = i; return b }

func (b *TableBuilder) AddColumn(c *Column) *TableBuilder {
	b.t.columns = append(b.t.columns, c)
	return b
}

func (b *TableBuilder) AddKeyColumn(k *KeyColumn) *TableBuilder {
	b.t.primaryKey = append(b.t.primaryKey, k)
	return b
}

func (b *TableBuilder) SetParent(parent *Table) *TableBuilder {
	b.t.parent = parent
	return b
}

func (b *TableBuilder) SetOnDelete(action OnDeleteAction) *TableBuilder {
	b.t.onDelete = action
	return b
}

func (b *TableBuilder) Build() (*Table, error) {
	switch {
	case b.t.name == "":
		return nil, status.IncompleteNode("Table", "name")
	case b.t.id == 0:
		return nil, status.IncompleteNode("Table "+b.t.name, "id")
	}
	return b.t, nil
}

// TableEditor is the mutable facade over a table clone during EditNode.
type TableEditor struct {
	t *Table
}

func NewTableEditor(t *Table) *TableEditor { return &TableEditor{t: t} }

func (e *TableEditor) Get() *Table { return e.t }

func (e *TableEditor) AddColumn(c *Column) {
	e.t.columns = append(e.t.columns, c)
}

func (e *TableEditor) AddChildTable(child *Table) {
	e.t.children = append(e.t.children, child)
}

func (e *TableEditor) AddIndex(i *Index) {
	e.t.indexes = append(e.t.indexes, i)
}

func (e *TableEditor) AddForeignKey(fk *ForeignKey) {
	e.t.foreignKeys = append(e.t.foreignKeys, fk)
}

func (e *TableEditor) AddReferencingForeignKey(fk *ForeignKey) {
	e.t.referencingForeignKeys = append(e.t.referencingForeignKeys, fk)
}

func (e *TableEditor) SetOnDelete(action OnDeleteAction) {
	e.t.onDelete = action
}

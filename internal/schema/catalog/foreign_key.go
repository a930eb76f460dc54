package catalog

import (
	"fmt"

	"github.com/isabella232/cloud-spanner-emulator/internal/limits"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/graph"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// ForeignKey relates a referencing column list in one table to a referenced
// column list in another (possibly the same) table. The edge is recorded on
// both tables.
type ForeignKey struct {
	constraintName string // user-declared; empty when generated
	generatedName  string

	referencingTable *Table
	referencedTable  *Table

	referencingColumns []*Column
	referencedColumns  []*Column
}

// Name returns the effective constraint name.
func (fk *ForeignKey) Name() string {
	if fk.constraintName != "" {
		return fk.constraintName
	}
	return fk.generatedName
}

// Generated reports whether the constraint name was synthesized rather than
// declared.
func (fk *ForeignKey) Generated() bool { return fk.constraintName == "" }

func (fk *ForeignKey) ReferencingTable() *Table      { return fk.referencingTable }
func (fk *ForeignKey) ReferencedTable() *Table       { return fk.referencedTable }
func (fk *ForeignKey) ReferencingColumns() []*Column { return fk.referencingColumns }
func (fk *ForeignKey) ReferencedColumns() []*Column  { return fk.referencedColumns }

func (fk *ForeignKey) String() string {
	return fmt.Sprintf("Foreign Key %s", fk.Name())
}

// SchemaNameInfo reports the constraint name. Generated names are not global:
// they never clash with user-declared names across schema generations.
func (fk *ForeignKey) SchemaNameInfo() *graph.SchemaNameInfo {
	return &graph.SchemaNameInfo{
		Kind:   "Foreign Key",
		Name:   fk.Name(),
		Global: !fk.Generated(),
	}
}

func (fk *ForeignKey) ReferencedNodes() []graph.SchemaNode {
	refs := []graph.SchemaNode{fk.referencingTable, fk.referencedTable}
	for _, c := range fk.referencingColumns {
		refs = append(refs, c)
	}
	for _, c := range fk.referencedColumns {
		refs = append(refs, c)
	}
	return refs
}

func (fk *ForeignKey) ShallowClone() graph.SchemaNode {
	clone := *fk
	clone.referencingColumns = append([]*Column(nil), fk.referencingColumns...)
	clone.referencedColumns = append([]*Column(nil), fk.referencedColumns...)
	return &clone
}

func (fk *ForeignKey) RewriteReferences(r *graph.RefRewriter) error {
	var err error
	if fk.referencingTable, err = graph.Rewrite(r, fk.referencingTable); err != nil {
		return err
	}
	if fk.referencedTable, err = graph.Rewrite(r, fk.referencedTable); err != nil {
		return err
	}
	// Column references are required: a column used by a foreign key cannot
	// be dropped while the constraint exists.
	for pos, c := range fk.referencingColumns {
		if fk.referencingColumns[pos], err = graph.Rewrite(r, c); err != nil {
			return err
		}
	}
	for pos, c := range fk.referencedColumns {
		if fk.referencedColumns[pos], err = graph.Rewrite(r, c); err != nil {
			return err
		}
	}
	return nil
}

func (fk *ForeignKey) DeepDelete(*graph.Deleter) {}

func (fk *ForeignKey) Validate() error {
	if fk.Name() == "" {
		return status.IncompleteNode("ForeignKey", "constraint name")
	}
	if !fk.Generated() && len(fk.constraintName) > limits.MaxSchemaNameLength {
		return status.Errorf(status.InvalidArgument,
			"foreign key name %s exceeds the maximum length of %d",
			fk.constraintName, limits.MaxSchemaNameLength)
	}
	if fk.referencingTable == nil || fk.referencedTable == nil {
		return status.IncompleteNode(fk.String(), "referencing or referenced table")
	}
	if len(fk.referencingColumns) == 0 {
		return status.Errorf(status.InvalidArgument,
			"foreign key %s must name at least one column", fk.Name())
	}
	if len(fk.referencingColumns) != len(fk.referencedColumns) {
		return status.Errorf(status.InvalidArgument,
			"foreign key %s names %d referencing columns but %d referenced columns",
			fk.Name(), len(fk.referencingColumns), len(fk.referencedColumns))
	}
	for _, c := range fk.referencingColumns {
		if c.Table() != fk.referencingTable {
			return status.InternalError("%s does not belong to referencing %s of %s",
				c, fk.referencingTable, fk)
		}
	}
	for _, c := range fk.referencedColumns {
		if c.Table() != fk.referencedTable {
			return status.InternalError("%s does not belong to referenced %s of %s",
				c, fk.referencedTable, fk)
		}
	}
	return nil
}

// ForeignKeyBuilder accumulates a ForeignKey. Get exposes the node before
// Build so both endpoint tables can register it as a forward reference.
type ForeignKeyBuilder struct {
	fk *ForeignKey
}

func NewForeignKeyBuilder() *ForeignKeyBuilder {
	return &ForeignKeyBuilder{fk: &ForeignKey{}}
}

func (b *ForeignKeyBuilder) Get() *ForeignKey { return b.fk }

func (b *ForeignKeyBuilder) SetConstraintName(name string) *ForeignKeyBuilder {
	b.fk.constraintName = name
	return b
}

func (b *ForeignKeyBuilder) SetGeneratedName(name string) *ForeignKeyBuilder {
	b.fk.generatedName = name
	return b
}

func (b *ForeignKeyBuilder) SetReferencingTable(t *Table) *ForeignKeyBuilder {
	b.fk.referencingTable = t
	return b
}

func (b *ForeignKeyBuilder) SetReferencedTable(t *Table) *ForeignKeyBuilder {
	b.fk.referencedTable = t
	return b
}

func (b *ForeignKeyBuilder) AddReferencingColumn(c *Column) *ForeignKeyBuilder {
	b.fk.referencingColumns = append(b.fk.referencingColumns, c)
	return b
}

func (b *ForeignKeyBuilder) AddReferencedColumn(c *Column) *ForeignKeyBuilder {
	b.fk.referencedColumns = append(b.fk.referencedColumns, c)
	return b
}

func (b *ForeignKeyBuilder) Build() (*ForeignKey, error) {
	switch {
	case b.fk.Name() == "":
		return nil, status.IncompleteNode("ForeignKey", "constraint name")
	case b.fk.referencingTable == nil:
		return nil, status.IncompleteNode(b.fk.String(), "referencing table")
	case b.fk.referencedTable == nil:
		return nil, status.IncompleteNode(b.fk.String(), "referenced table")
	}
	return b.fk, nil
}

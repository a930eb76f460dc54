package catalog

import (
	"fmt"

	"github.com/isabella232/cloud-spanner-emulator/internal/limits"
	"github.com/isabella232/cloud-spanner-emulator/internal/schema/graph"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// IndexDataTablePrefix prefixes the synthetic table backing an index. The
// prefix is not a valid leading character for user table names, so data
// tables can never collide with them.
const IndexDataTablePrefix = "_index_data_"

// Index is a secondary index. Its keys and stored columns are materialized by
// a synthetic data table interleaved in the indexed table.
type Index struct {
	name         string
	unique       bool
	nullFiltered bool

	indexedTable   *Table
	indexDataTable *Table

	// keyColumns is the prefix of the data table's primary key covering the
	// declared index keys, in declaration order.
	keyColumns    []*KeyColumn
	storedColumns []*Column
}

func (i *Index) Name() string             { return i.name }
func (i *Index) Unique() bool             { return i.unique }
func (i *Index) NullFiltered() bool       { return i.nullFiltered }
func (i *Index) IndexedTable() *Table     { return i.indexedTable }
func (i *Index) IndexDataTable() *Table   { return i.indexDataTable }
func (i *Index) KeyColumns() []*KeyColumn { return i.keyColumns }
func (i *Index) StoredColumns() []*Column { return i.storedColumns }

func (i *Index) String() string { return fmt.Sprintf("Index %s", i.name) }

func (i *Index) SchemaNameInfo() *graph.SchemaNameInfo {
	return &graph.SchemaNameInfo{Kind: "Index", Name: i.name, Global: true}
}

func (i *Index) ReferencedNodes() []graph.SchemaNode {
	refs := []graph.SchemaNode{i.indexedTable, i.indexDataTable}
	for _, k := range i.keyColumns {
		refs = append(refs, k)
	}
	for _, c := range i.storedColumns {
		refs = append(refs, c)
	}
	return refs
}

func (i *Index) ShallowClone() graph.SchemaNode {
	clone := *i
	clone.keyColumns = append([]*KeyColumn(nil), i.keyColumns...)
	clone.storedColumns = append([]*Column(nil), i.storedColumns...)
	return &clone
}

func (i *Index) RewriteReferences(r *graph.RefRewriter) error {
	var err error
	if i.indexedTable, err = graph.Rewrite(r, i.indexedTable); err != nil {
		return err
	}
	if i.indexDataTable, err = graph.Rewrite(r, i.indexDataTable); err != nil {
		return err
	}
	if i.keyColumns, err = graph.RewriteSlice(r, i.keyColumns); err != nil {
		return err
	}
	if i.storedColumns, err = graph.RewriteSlice(r, i.storedColumns); err != nil {
		return err
	}
	return nil
}

// DeepDelete removes the data table along with the index; nothing else can
// reference it.
func (i *Index) DeepDelete(d *graph.Deleter) {
	d.Delete(i.indexDataTable)
}

func (i *Index) Validate() error {
	if i.name == "" {
		return status.IncompleteNode("Index", "name")
	}
	if len(i.name) > limits.MaxSchemaNameLength {
		return status.Errorf(status.InvalidArgument,
			"index name %s exceeds the maximum length of %d", i.name, limits.MaxSchemaNameLength)
	}
	if i.indexedTable == nil || i.indexDataTable == nil {
		return status.IncompleteNode(i.String(), "indexed table or data table")
	}
	if i.indexDataTable.OwnerIndex() != i {
		return status.InternalError("%s does not own its data table %s", i, i.indexDataTable)
	}
	dataPK := i.indexDataTable.PrimaryKey()
	if len(i.keyColumns) == 0 || len(i.keyColumns) > len(dataPK) {
		return status.Errorf(status.InvalidArgument,
			"index %s must have between 1 and %d key columns", i.name, len(dataPK))
	}
	for pos, k := range i.keyColumns {
		if dataPK[pos] != k {
			return status.InternalError(
				"%s key columns are not a prefix of its data table primary key", i)
		}
		if i.nullFiltered && k.Column().Nullable() {
			return status.InternalError(
				"null-filtered %s has nullable key column %s", i, k.Column().Name())
		}
	}
	for _, c := range i.storedColumns {
		if c.Table() != i.indexDataTable {
			return status.InternalError("stored %s does not live on the data table of %s", c, i)
		}
		if c.SourceColumn() == nil || c.SourceColumn().Table() != i.indexedTable {
			return status.InternalError(
				"stored %s of %s is not sourced from the indexed table", c, i)
		}
	}
	if i.indexDataTable.Parent() == nil || i.indexDataTable.OnDelete() != OnDeleteCascade {
		return status.InternalError(
			"data table of %s must be interleaved with ON DELETE CASCADE", i)
	}
	return nil
}

// IndexBuilder accumulates the fields of an Index.
type IndexBuilder struct {
	i *Index
}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{i: &Index{}}
}

func (b *IndexBuilder) Get() *Index { return b.i }

func (b *IndexBuilder) SetName(name string) *IndexBuilder { b.i.name = name; return b }

func (b *IndexBuilder) SetUnique(unique bool) *IndexBuilder {
	b.i.unique = unique
	return b
}

func (b *IndexBuilder) SetNullFiltered(nullFiltered bool) *IndexBuilder {
	b.i.nullFiltered = nullFiltered
	return b
}

func (b *IndexBuilder) SetIndexedTable(t *Table) *IndexBuilder {
	b.i.indexedTable = t
	return b
}

func (b *IndexBuilder) SetIndexDataTable(t *Table) *IndexBuilder {
	b.i.indexDataTable = t
	return b
}

func (b *IndexBuilder) AddKeyColumn(k *KeyColumn) *IndexBuilder {
	b.i.keyColumns = append(b.i.keyColumns, k)
	return b
}

func (b *IndexBuilder) AddStoredColumn(c *Column) *IndexBuilder {
	b.i.storedColumns = append(b.i.storedColumns, c)
	return b
}

func (b *IndexBuilder) Build() (*Index, error) {
	switch {
	case b.i.name == "":
		return nil, status.IncompleteNode("Index", "name")
	case b.i.indexedTable == nil:
		return nil, status.IncompleteNode("Index "+b.i.name, "indexed table")
	case b.i.indexDataTable == nil:
		return nil, status.IncompleteNode("Index "+b.i.name, "index data table")
	}
	return b.i, nil
}

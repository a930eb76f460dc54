package catalog

import (
	"fmt"

	"github.com/isabella232/cloud-spanner-emulator/internal/schema/graph"
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// KeyColumn is one part of a primary key: a column plus its sort order.
type KeyColumn struct {
	column     *Column
	descending bool
}

func (k *KeyColumn) Column() *Column  { return k.column }
func (k *KeyColumn) Descending() bool { return k.descending }

func (k *KeyColumn) String() string {
	order := "ASC"
	if k.descending {
		order = "DESC"
	}
	return fmt.Sprintf("KeyColumn %s %s", k.column.Name(), order)
}

func (k *KeyColumn) SchemaNameInfo() *graph.SchemaNameInfo { return nil }

func (k *KeyColumn) ReferencedNodes() []graph.SchemaNode {
	return []graph.SchemaNode{k.column}
}

func (k *KeyColumn) ShallowClone() graph.SchemaNode {
	clone := *k
	return &clone
}

func (k *KeyColumn) RewriteReferences(r *graph.RefRewriter) error {
	var err error
	k.column, err = graph.Rewrite(r, k.column)
	return err
}

func (k *KeyColumn) DeepDelete(*graph.Deleter) {}

func (k *KeyColumn) Validate() error {
	if k.column == nil {
		return status.IncompleteNode("KeyColumn", "column")
	}
	return nil
}

// KeyColumnBuilder builds a KeyColumn.
type KeyColumnBuilder struct {
	kc *KeyColumn
}

func NewKeyColumnBuilder() *KeyColumnBuilder {
	return &KeyColumnBuilder{kc: &KeyColumn{}}
}

func (b *KeyColumnBuilder) Get() *KeyColumn { return b.kc }

func (b *KeyColumnBuilder) SetColumn(c *Column) *KeyColumnBuilder {
	b.kc.column = c
	return b
}

func (b *KeyColumnBuilder) SetDescending(desc bool) *KeyColumnBuilder {
	b.kc.descending = desc
	return b
}

func (b *KeyColumnBuilder) Build() (*KeyColumn, error) {
	if b.kc.column == nil {
		return nil, status.IncompleteNode("KeyColumn", "column")
	}
	return b.kc, nil
}

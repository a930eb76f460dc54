package catalog

import (
	"strings"

	"github.com/isabella232/cloud-spanner-emulator/internal/schema/graph"
)

// Schema is an immutable snapshot: a canonicalized graph plus name-indexed
// views over it. Snapshots are freely shareable; readers holding an old
// snapshot are unaffected by later schema changes.
type Schema struct {
	g *graph.SchemaGraph

	tables       []*Table          // user tables, creation order
	indexes      []*Index          // creation order
	tablesLower  map[string]*Table // includes index data tables
	tablesExact  map[string]*Table
	indexesLower map[string]*Index
}

// NewSchema freezes a canonicalized graph into a snapshot.
func NewSchema(g *graph.SchemaGraph) *Schema {
	s := &Schema{
		g:            g,
		tablesLower:  make(map[string]*Table),
		tablesExact:  make(map[string]*Table),
		indexesLower: make(map[string]*Index),
	}
	for _, node := range g.Nodes() {
		switch n := node.(type) {
		case *Table:
			if n.OwnerIndex() == nil {
				s.tables = append(s.tables, n)
			}
			s.tablesLower[strings.ToLower(n.Name())] = n
			s.tablesExact[n.Name()] = n
		case *Index:
			s.indexes = append(s.indexes, n)
			s.indexesLower[strings.ToLower(n.Name())] = n
		}
	}
	return s
}

var emptySchema = NewSchema(graph.NewSchemaGraph(nil))

// EmptySchema returns the process-wide zero-node snapshot.
func EmptySchema() *Schema { return emptySchema }

// Graph returns the underlying schema graph.
func (s *Schema) Graph() *graph.SchemaGraph { return s.g }

// Size returns the total node count of the snapshot.
func (s *Schema) Size() int { return s.g.Size() }

// Tables returns the user tables in creation order. Index data tables are
// excluded.
func (s *Schema) Tables() []*Table { return s.tables }

// Indexes returns the indexes in creation order.
func (s *Schema) Indexes() []*Index { return s.indexes }

// NumIndexes returns the number of indexes.
func (s *Schema) NumIndexes() int { return len(s.indexes) }

// FindTable resolves a table by name, case-insensitively.
func (s *Schema) FindTable(name string) *Table {
	return s.tablesLower[strings.ToLower(name)]
}

// FindTableCaseSensitive resolves a table by exact name.
func (s *Schema) FindTableCaseSensitive(name string) *Table {
	return s.tablesExact[name]
}

// FindIndex resolves an index by name, case-insensitively.
func (s *Schema) FindIndex(name string) *Index {
	return s.indexesLower[strings.ToLower(name)]
}

// FindColumn resolves table.column, case-insensitively on both parts.
func (s *Schema) FindColumn(table, column string) *Column {
	t := s.FindTable(table)
	if t == nil {
		return nil
	}
	return t.FindColumn(column)
}

// FindForeignKey resolves a foreign key by table and constraint name.
func (s *Schema) FindForeignKey(table, constraint string) *ForeignKey {
	t := s.FindTable(table)
	if t == nil {
		return nil
	}
	return t.FindForeignKey(constraint)
}

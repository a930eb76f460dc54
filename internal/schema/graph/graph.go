package graph

// SchemaGraph is a frozen collection of schema nodes in creation order.
type SchemaGraph struct {
	nodes []SchemaNode
	index map[SchemaNode]bool
}

// NewSchemaGraph freezes nodes into a graph. The slice is taken over.
func NewSchemaGraph(nodes []SchemaNode) *SchemaGraph {
	g := &SchemaGraph{nodes: nodes, index: make(map[SchemaNode]bool, len(nodes))}
	for _, n := range nodes {
		g.index[n] = true
	}
	return g
}

// Nodes returns the graph's nodes in creation order. Callers must not modify
// the returned slice.
func (g *SchemaGraph) Nodes() []SchemaNode { return g.nodes }

// Size returns the total node count.
func (g *SchemaGraph) Size() int { return len(g.nodes) }

// Contains reports whether n is a member of this graph.
func (g *SchemaGraph) Contains(n SchemaNode) bool { return g.index[n] }

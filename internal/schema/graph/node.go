// Package graph implements the immutable schema node graph and the functional
// editor that produces new graphs from it. Nodes are pointer-identified
// immutable values; every change clones the touched nodes and rewrites the
// references of everything that can reach them ("canonicalization").
package graph

// SchemaNameInfo describes the name a node contributes to the catalog.
// Global names (tables, indexes, foreign keys) share one namespace.
type SchemaNameInfo struct {
	Kind   string
	Name   string
	Global bool
}

// SchemaNode is one node of a schema graph.
//
// Implementations must be immutable once added to a graph. Mutation happens
// only on clones owned by a SchemaGraphEditor, through the typed editor
// facades of the catalog package.
type SchemaNode interface {
	// SchemaNameInfo returns the node's name record, or nil for unnamed
	// nodes such as key columns.
	SchemaNameInfo() *SchemaNameInfo

	// ReferencedNodes returns every node this node holds a reference to.
	ReferencedNodes() []SchemaNode

	// ShallowClone returns a copy of the node. Reference slices are copied
	// so the clone can be mutated without aliasing the original.
	ShallowClone() SchemaNode

	// RewriteReferences replaces each reference through r. Owned container
	// entries whose target was deleted are dropped; required references to
	// deleted nodes surface a dangling-reference error.
	RewriteReferences(r *RefRewriter) error

	// DeepDelete registers the nodes this node exclusively owns, so that
	// deleting it also deletes them.
	DeepDelete(d *Deleter)

	// Validate checks the node's structural invariants against the graph
	// it belongs to.
	Validate() error

	// String is a short diagnostic description, e.g. `Table T1`.
	String() string
}

// RefRewriter resolves old references to their post-edit replacements during
// canonicalization.
type RefRewriter struct {
	owner   SchemaNode
	resolve func(owner, ref SchemaNode) (SchemaNode, error)
}

// Resolve maps ref to its replacement. A reference to a deleted node is a
// dangling reference and returns an error naming both ends.
func (r *RefRewriter) Resolve(ref SchemaNode) (SchemaNode, error) {
	return r.resolve(r.owner, ref)
}

// Dropped reports whether ref was deleted in the current edit.
func (r *RefRewriter) Dropped(ref SchemaNode) bool {
	_, err := r.resolve(r.owner, ref)
	return err != nil
}

// Rewrite resolves a required, typed reference.
func Rewrite[T SchemaNode](r *RefRewriter, ref T) (T, error) {
	resolved, err := r.Resolve(ref)
	if err != nil {
		var zero T
		return zero, err
	}
	return resolved.(T), nil
}

// RewriteSlice resolves an owned reference list, dropping deleted entries.
func RewriteSlice[T SchemaNode](r *RefRewriter, refs []T) ([]T, error) {
	out := refs[:0]
	for _, ref := range refs {
		if r.Dropped(ref) {
			continue
		}
		resolved, err := r.Resolve(ref)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved.(T))
	}
	return out, nil
}

// Deleter collects the transitive set of nodes removed by a delete.
type Deleter struct {
	deleted map[SchemaNode]bool
}

// Delete marks n deleted and recurses into the nodes it owns.
func (d *Deleter) Delete(n SchemaNode) {
	if n == nil || d.deleted[n] {
		return
	}
	d.deleted[n] = true
	n.DeepDelete(d)
}

package graph

import (
	"github.com/isabella232/cloud-spanner-emulator/internal/status"
)

// SchemaGraphEditor is a functional builder over an immutable source graph.
//
// A statement applies its changes through AddNode, DeleteNode and EditNode,
// then calls CanonicalizeGraph exactly once to obtain the new graph. The
// editor clones every node that can transitively reach a changed node and
// rewrites references so the result is internally consistent.
type SchemaGraphEditor struct {
	source *SchemaGraph

	clones  map[SchemaNode]SchemaNode // original -> edited clone
	cloneOf map[SchemaNode]SchemaNode // edited clone -> original
	deleted map[SchemaNode]bool
	added   []SchemaNode

	canonicalized bool
}

// NewSchemaGraphEditor starts an edit over source.
func NewSchemaGraphEditor(source *SchemaGraph) *SchemaGraphEditor {
	return &SchemaGraphEditor{
		source:  source,
		clones:  make(map[SchemaNode]SchemaNode),
		cloneOf: make(map[SchemaNode]SchemaNode),
		deleted: make(map[SchemaNode]bool),
	}
}

// HasModifications reports whether any edit was applied since construction.
func (e *SchemaGraphEditor) HasModifications() bool {
	return len(e.clones) > 0 || len(e.deleted) > 0 || len(e.added) > 0
}

// AddNode registers a freshly built node for inclusion in the new graph.
func (e *SchemaGraphEditor) AddNode(n SchemaNode) error {
	if e.canonicalized {
		return status.InternalError("schema graph editor already canonicalized")
	}
	if n == nil {
		return status.InternalError("cannot add nil schema node")
	}
	if e.source.Contains(n) {
		return status.InternalError("node %s is already part of the schema graph", n)
	}
	e.added = append(e.added, n)
	return nil
}

// DeleteNode removes an existing node, along with every node it owns.
func (e *SchemaGraphEditor) DeleteNode(n SchemaNode) error {
	if e.canonicalized {
		return status.InternalError("schema graph editor already canonicalized")
	}
	if !e.source.Contains(n) {
		return status.InternalError("cannot delete %s: not a member of the schema graph", n)
	}
	if _, edited := e.clones[n]; edited {
		return status.InternalError("cannot delete %s: node was edited in the same statement", n)
	}
	d := &Deleter{deleted: e.deleted}
	d.Delete(n)
	return nil
}

// EditNode produces a modified copy of node. The edit callback receives the
// clone; repeated edits of the same node, including edits addressed to the
// clone itself, all see the same copy.
func (e *SchemaGraphEditor) EditNode(node SchemaNode, edit func(clone SchemaNode) error) error {
	if e.canonicalized {
		return status.InternalError("schema graph editor already canonicalized")
	}
	if node == nil {
		return status.InternalError("cannot edit nil schema node")
	}
	// Edits addressed to an existing clone mutate that clone in place.
	if _, isClone := e.cloneOf[node]; isClone {
		return edit(node)
	}
	// A node outside the graph is a builder draft (a statement may register
	// forward references on a node it has not added yet); drafts are mutable
	// and edited directly.
	if !e.source.Contains(node) {
		return edit(node)
	}
	if e.deleted[node] {
		return status.InternalError("cannot edit %s: node was deleted", node)
	}
	clone, ok := e.clones[node]
	if !ok {
		clone = node.ShallowClone()
		e.clones[node] = clone
		e.cloneOf[clone] = node
	}
	return edit(clone)
}

// CanonicalizeGraph computes the closure of the applied edits and returns the
// resulting graph. The editor cannot be used afterwards.
func (e *SchemaGraphEditor) CanonicalizeGraph() (*SchemaGraph, error) {
	if e.canonicalized {
		return nil, status.InternalError("schema graph editor already canonicalized")
	}
	e.canonicalized = true

	// Grow the set of affected originals until a fixed point: a node that
	// references an edited or deleted node must itself be rewritten.
	dirty := make(map[SchemaNode]bool, len(e.clones)+len(e.deleted))
	for n := range e.clones {
		dirty[n] = true
	}
	for n := range e.deleted {
		dirty[n] = true
	}
	for changed := true; changed; {
		changed = false
		for _, n := range e.source.Nodes() {
			if dirty[n] {
				continue
			}
			for _, ref := range n.ReferencedNodes() {
				if dirty[ref] {
					dirty[n] = true
					changed = true
					break
				}
			}
		}
	}

	// Clone affected nodes that were not explicitly edited or deleted.
	for n := range dirty {
		if e.deleted[n] {
			continue
		}
		if _, ok := e.clones[n]; !ok {
			clone := n.ShallowClone()
			e.clones[n] = clone
			e.cloneOf[clone] = n
		}
	}

	resolve := func(owner, ref SchemaNode) (SchemaNode, error) {
		if ref == nil {
			return nil, status.InternalError("%s holds a nil reference", owner)
		}
		orig := ref
		if o, ok := e.cloneOf[ref]; ok {
			orig = o
		}
		if e.deleted[orig] {
			return nil, status.DroppedNodeStillReferenced(orig.String(), owner.String())
		}
		if clone, ok := e.clones[orig]; ok {
			return clone, nil
		}
		return ref, nil
	}

	// Rewrite references of every clone and every added node, in source
	// order so dangling-reference errors are deterministic.
	for _, n := range e.source.Nodes() {
		clone, ok := e.clones[n]
		if !ok {
			continue
		}
		if err := clone.RewriteReferences(&RefRewriter{owner: clone, resolve: resolve}); err != nil {
			return nil, err
		}
	}
	for _, n := range e.added {
		if err := n.RewriteReferences(&RefRewriter{owner: n, resolve: resolve}); err != nil {
			return nil, err
		}
	}

	// Assemble the new graph: surviving nodes in source order, replaced by
	// their clones, then the added nodes in add order.
	nodes := make([]SchemaNode, 0, e.source.Size()+len(e.added))
	for _, n := range e.source.Nodes() {
		if e.deleted[n] {
			continue
		}
		if clone, ok := e.clones[n]; ok {
			nodes = append(nodes, clone)
			continue
		}
		nodes = append(nodes, n)
	}
	nodes = append(nodes, e.added...)
	result := NewSchemaGraph(nodes)

	// Closure check: every reference must land inside the new graph.
	for _, n := range result.Nodes() {
		for _, ref := range n.ReferencedNodes() {
			if !result.Contains(ref) {
				return nil, status.InternalError(
					"canonicalization left %s referencing %s outside the graph", n, ref)
			}
		}
	}

	// Structural validation, in graph order.
	for _, n := range result.Nodes() {
		if err := n.Validate(); err != nil {
			return nil, err
		}
	}
	return result, nil
}

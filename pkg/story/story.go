package story

import (
	"fmt"
	"strings"
)

// Node is a single addressable unit of the story graph. It holds an
// identifier, a payload value, and an ordered list of non-owning child
// references. The children order is the choice order during traversal:
// choice 1 is Children[0], choice 2 is Children[1], and so on.
//
// Nodes are created by [Tree.SetRoot] and [Tree.Link]; the ID never changes
// once assigned. A node may appear in the children lists of several parents,
// but a single parent never lists the same node twice.
type Node[T any] struct {
	ID       string
	Value    T
	Children []*Node[T]
}

// Leaf reports whether the node has no children, i.e. whether a traversal
// session terminates on reaching it.
func (n *Node[T]) Leaf() bool { return len(n.Children) == 0 }

// Text returns the node's payload formatted as trimmed text.
func (n *Node[T]) Text() string { return Text(n.Value) }

// Text formats a payload value as text with leading and trailing
// whitespace removed. This is the canonical payload-to-text conversion used
// by listings and traversal prompts.
func Text[T any](v T) string {
	return strings.TrimSpace(fmt.Sprint(v))
}

// Tree is a story graph that owns all of its nodes via an id-keyed registry.
// Exactly one node exists per id for the lifetime of the tree; the root
// pointer and all children lists are views into registry entries.
//
// The zero value is not usable - use [New] to create a valid Tree.
// Tree is not safe for concurrent use without external synchronization.
type Tree[T any] struct {
	root  *Node[T]
	nodes map[string]*Node[T]
}

// New creates an empty story tree.
func New[T any]() *Tree[T] {
	return &Tree[T]{nodes: make(map[string]*Node[T])}
}

// SetRoot designates the node with the given id as the traversal entry
// point, materializing it if necessary. If the id already exists, its
// payload is overwritten with value. Reassigning the root never removes the
// previous root's node from the registry.
func (t *Tree[T]) SetRoot(id string, value T) *Node[T] {
	node, ok := t.nodes[id]
	if ok {
		node.Value = value
	} else {
		node = &Node[T]{ID: id, Value: value}
		t.nodes[id] = node
	}
	t.root = node
	return node
}

// Link ensures both endpoints exist and appends the child to the parent's
// children list.
//
// A missing parent is materialized with a zero-value payload: it acts as a
// graph anchor until its own payload is set later, either by SetRoot or by
// appearing as a child elsewhere. A missing child is materialized with the
// given value; if the child already exists its payload is preserved and
// value is discarded (first write wins). Linking is idempotent: a parent's
// children list never holds two references to the same node.
func (t *Tree[T]) Link(parentID, childID string, value T) {
	parent, ok := t.nodes[parentID]
	if !ok {
		var zero T
		parent = &Node[T]{ID: parentID, Value: zero}
		t.nodes[parentID] = parent
	}

	child, ok := t.nodes[childID]
	if !ok {
		child = &Node[T]{ID: childID, Value: value}
		t.nodes[childID] = child
	}

	for _, c := range parent.Children {
		if c == child {
			return
		}
	}
	parent.Children = append(parent.Children, child)
}

// Find returns the node with the given id and true, or nil and false if no
// such node exists. Repeated calls return the same node reference.
func (t *Tree[T]) Find(id string) (*Node[T], bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Root returns the designated entry node, or nil if no root has been set.
func (t *Tree[T]) Root() *Node[T] { return t.root }

// Len returns the number of registered nodes.
func (t *Tree[T]) Len() int { return len(t.nodes) }

// EdgeCount returns the total number of parent-to-child references.
func (t *Tree[T]) EdgeCount() int {
	count := 0
	for _, n := range t.nodes {
		count += len(n.Children)
	}
	return count
}

// IDs returns all registered ids in deterministic listing order.
func (t *Tree[T]) IDs() []string {
	ids := make([]string, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}

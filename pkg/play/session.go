package play

import (
	"errors"

	"github.com/fabulatree/fabula/pkg/story"
)

var (
	// ErrNoRoot is returned by [NewSession] when the tree has no root node.
	ErrNoRoot = errors.New("story has no root node")

	// ErrUnknownNode is returned by [Resume] when the node id is not
	// registered in the tree.
	ErrUnknownNode = errors.New("unknown node")

	// ErrOutOfRange is returned by [Session.Choose] when the choice number
	// does not select one of the current node's children. The session stays
	// at the current node.
	ErrOutOfRange = errors.New("choice out of range")

	// ErrFinished is returned by [Session.Choose] after the session has
	// reached a childless node.
	ErrFinished = errors.New("session finished")
)

// Session is one interactive traversal of a story tree, from a starting node
// to a terminal condition. It is a pure consumer of the finished graph: no
// structural mutation happens during play. There is no backtracking; the
// only way to revisit a node is an edge that routes back to it.
type Session[T any] struct {
	current *story.Node[T]
	done    bool
}

// NewSession starts a session at the tree's root.
// Returns ErrNoRoot if no root has been designated.
func NewSession[T any](t *story.Tree[T]) (*Session[T], error) {
	root := t.Root()
	if root == nil {
		return nil, ErrNoRoot
	}
	return at(root), nil
}

// Resume starts a session positioned at an arbitrary node, identified by id.
// This is how stateless front-ends (an HTTP handler, for instance) rebuild
// the machine between requests. Returns ErrUnknownNode if the id is not
// registered.
func Resume[T any](t *story.Tree[T], nodeID string) (*Session[T], error) {
	node, ok := t.Find(nodeID)
	if !ok {
		return nil, ErrUnknownNode
	}
	return at(node), nil
}

func at[T any](n *story.Node[T]) *Session[T] {
	return &Session[T]{current: n, done: n.Leaf()}
}

// Current returns the node the session is positioned at. After the session
// finishes this is the terminal node.
func (s *Session[T]) Current() *story.Node[T] { return s.current }

// Choices returns the selectable children of the current node in choice
// order: choice k corresponds to Choices()[k-1]. A finished session has no
// choices.
func (s *Session[T]) Choices() []*story.Node[T] {
	if s.done {
		return nil
	}
	return s.current.Children
}

// Done reports whether the session has terminated, i.e. the current node
// has no children.
func (s *Session[T]) Done() bool { return s.done }

// Choose moves the session to the k-th child of the current node (1-based).
// It returns the new current node. ErrOutOfRange leaves the session
// unchanged; ErrFinished is returned once the session is done.
func (s *Session[T]) Choose(k int) (*story.Node[T], error) {
	if s.done {
		return nil, ErrFinished
	}
	if k < 1 || k > len(s.current.Children) {
		return nil, ErrOutOfRange
	}
	s.current = s.current.Children[k-1]
	s.done = s.current.Leaf()
	return s.current, nil
}

package story

import (
	"fmt"
	"io"
	"strings"
)

// WriteListing writes a full listing of every registered node to w in
// deterministic order (see [SortIDs]). Each entry shows the node id, its
// trimmed payload text, and its children ids in stored order; a childless
// node is explicitly marked. An empty tree produces a single empty-tree
// notice instead of an empty listing.
func (t *Tree[T]) WriteListing(w io.Writer) error {
	if len(t.nodes) == 0 {
		_, err := fmt.Fprintln(w, "Tree is empty.")
		return err
	}

	var b strings.Builder
	b.WriteString("===== Story Tree =====\n")
	for _, id := range t.IDs() {
		node := t.nodes[id]
		fmt.Fprintf(&b, "Node %s: %s\n", id, node.Text())
		if len(node.Children) == 0 {
			b.WriteString("  Child -> (none)\n")
		} else {
			for _, c := range node.Children {
				fmt.Fprintf(&b, "  Child -> %s\n", c.ID)
			}
		}
		b.WriteString("\n")
	}
	b.WriteString("======================\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// Listing returns the full listing as a string. See [Tree.WriteListing].
func (t *Tree[T]) Listing() string {
	var b strings.Builder
	_ = t.WriteListing(&b)
	return b.String()
}

package story_test

import (
	"fmt"
	"os"

	"github.com/fabulatree/fabula/pkg/story"
)

func ExampleTree_basic() {
	// Edges may be declared before the nodes they mention: missing nodes
	// are materialized on first reference.
	tr := story.New[string]()
	tr.Link("1", "2", "Take the bridge")
	tr.Link("1", "3", "Wade the river")
	tr.SetRoot("1", "You reach a river.")

	fmt.Println("Nodes:", tr.Len())
	fmt.Println("Edges:", tr.EdgeCount())
	fmt.Println("Root:", tr.Root().Text())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Root: You reach a river.
}

func ExampleTree_WriteListing() {
	tr := story.New[string]()
	tr.SetRoot("1", "A fork in the road.")
	tr.Link("1", "2", "Left")

	_ = tr.WriteListing(os.Stdout)
	// Output:
	// ===== Story Tree =====
	// Node 1: A fork in the road.
	//   Child -> 2
	//
	// Node 2: Left
	//   Child -> (none)
	//
	// ======================
}

func ExampleTree_sharedChild() {
	// Two parents can point at the same child; the registry keeps a single
	// node instance per id.
	tr := story.New[string]()
	tr.Link("A", "C", "The paths converge.")
	tr.Link("B", "C", "ignored: C already exists")

	c, _ := tr.Find("C")
	fmt.Println(c.Text())
	fmt.Println("Nodes:", tr.Len())
	// Output:
	// The paths converge.
	// Nodes: 3
}

// Package viz renders story graphs as node-link diagrams.
//
// [ToDOT] produces Graphviz DOT text in the deterministic listing order, so
// identical trees always yield identical diagrams. [RenderSVG] and
// [RenderPNG] rasterize the DOT through the embedded Graphviz engine.
package viz

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/fabulatree/fabula/pkg/story"
)

// Options configures DOT conversion.
type Options struct {
	// Labels includes the trimmed node text underneath each id.
	// When false, only the id is shown.
	Labels bool

	// MaxLabel truncates node text to this many runes (0 = no limit).
	MaxLabel int
}

// ToDOT converts a story tree to Graphviz DOT format. Nodes are emitted in
// listing order and edges in each parent's stored children order. The root
// node, when set, is drawn with a double border.
func ToDOT[T any](t *story.Tree[T], opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph story {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	root := t.Root()
	for _, id := range t.IDs() {
		node, _ := t.Find(id)
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(node, opts))}
		if root != nil && node == root {
			attrs = append(attrs, "peripheries=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, id := range t.IDs() {
		node, _ := t.Find(id)
		for i, child := range node.Children {
			fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", id, child.ID, i+1)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel[T any](n *story.Node[T], opts Options) string {
	if !opts.Labels {
		return n.ID
	}
	text := n.Text()
	if opts.MaxLabel > 0 {
		runes := []rune(text)
		if len(runes) > opts.MaxLabel {
			text = string(runes[:opts.MaxLabel]) + "..."
		}
	}
	if text == "" {
		return n.ID
	}
	return n.ID + "\n" + text
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

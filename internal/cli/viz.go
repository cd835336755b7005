package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fabulatree/fabula/pkg/storyfile"
	"github.com/fabulatree/fabula/pkg/viz"
)

// Output formats supported by the viz command.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
)

// vizCommand creates the viz command for rendering a story as a diagram.
func (c *CLI) vizCommand() *cobra.Command {
	var (
		format   string
		output   string
		labels   bool
		maxLabel int
	)

	cmd := &cobra.Command{
		Use:   "viz [story.toml]",
		Short: "Render a story as a node-link diagram",
		Long: `Render a story as a node-link diagram.

The story graph is converted to Graphviz DOT with nodes in listing order,
the root drawn with a double border, and edges labeled by choice number.
DOT output goes to stdout unless --output is given; svg and png are
rendered through the embedded Graphviz engine and written next to the
input file by default.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format); err != nil {
				return err
			}
			st, err := c.loadStory(args[0])
			if err != nil {
				return err
			}
			opts := viz.Options{Labels: labels, MaxLabel: maxLabel}
			return c.runViz(cmd.Context(), st, args[0], format, output, opts)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", FormatDOT, "output format: dot (default), svg, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout for dot, input name for svg/png)")
	cmd.Flags().BoolVar(&labels, "labels", false, "include node text in labels")
	cmd.Flags().IntVar(&maxLabel, "max-label", 40, "truncate label text to this many characters (0 = no limit)")

	return cmd
}

// runViz converts the story and writes the requested format.
func (c *CLI) runViz(ctx context.Context, st *storyfile.Story, input, format, output string, opts viz.Options) error {
	dot := viz.ToDOT(st.Tree, opts)

	if format == FormatDOT {
		if output == "" {
			fmt.Print(dot)
			return nil
		}
		if err := os.WriteFile(output, []byte(dot), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Wrote DOT graph")
		printFile(output)
		printStats(st.Tree.Len(), st.Tree.EdgeCount())
		return nil
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = viz.RenderSVG(ctx, dot)
	case FormatPNG:
		data, err = viz.RenderPNG(ctx, dot)
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}

	path := outputPath(input, output, format)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	printSuccess("Rendered %s diagram", strings.ToUpper(format))
	printFile(path)
	printStats(st.Tree.Len(), st.Tree.EdgeCount())
	return nil
}

// validateFormat checks the requested output format.
func validateFormat(format string) error {
	switch format {
	case FormatDOT, FormatSVG, FormatPNG:
		return nil
	}
	return fmt.Errorf("unsupported format %q (want dot, svg, or png)", format)
}

// outputPath picks the output file: the explicit -o value if given,
// otherwise the input name with its extension swapped.
func outputPath(input, output, format string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "." + format
}

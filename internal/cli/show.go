package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// showCommand creates the show command for printing a story's structure.
func (c *CLI) showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [story.toml]",
		Short: "Print every node of a story in order",
		Long: `Print every node of a story in order.

Nodes are listed numerically by id (non-numeric ids last), each with its
text and outgoing choices. The output is deterministic for a given story,
so it diffs cleanly across edits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.loadStory(args[0])
			if err != nil {
				return err
			}
			return st.Tree.WriteListing(os.Stdout)
		},
	}

	return cmd
}

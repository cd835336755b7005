package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fabulatree/fabula/pkg/play"
)

// playCommand creates the play command for interactive traversal.
func (c *CLI) playCommand() *cobra.Command {
	var tui bool

	cmd := &cobra.Command{
		Use:   "play [story.toml]",
		Short: "Play a story interactively",
		Long: `Play a story interactively.

By default the adventure runs as a plain line-oriented prompt loop on
stdin/stdout, suitable for pipes and scripting. With --tui it runs as a
full-screen terminal UI with arrow-key navigation instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.loadStory(args[0])
			if err != nil {
				return err
			}
			if tui {
				return c.runPlayTUI(st)
			}
			return play.Run(st.Tree, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&tui, "tui", false, "use the full-screen terminal UI")

	return cmd
}

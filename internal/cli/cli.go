// Package cli implements the fabula command-line interface.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/fabulatree/fabula/pkg/buildinfo"
	"github.com/fabulatree/fabula/pkg/storyfile"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "fabula"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Fabula plays branching stories from the terminal",
		Long:         `Fabula loads branching stories from TOML files and lets you play them interactively, inspect their structure, render them as diagrams, or serve them over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.playCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.vizCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Story Loading
// =============================================================================

// loadStory reads and validates a story file, logging basic shape info.
func (c *CLI) loadStory(path string) (*storyfile.Story, error) {
	start := time.Now()
	st, err := storyfile.Load(path)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded story",
		"path", path,
		"title", st.Title,
		"nodes", st.Tree.Len(),
		"edges", st.Tree.EdgeCount(),
		"duration", time.Since(start).Round(time.Microsecond))
	return st, nil
}

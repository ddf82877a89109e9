package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
//
// Global flags:
//   - --config: config file (default $XDG_CONFIG_HOME/roomkit/config.toml)
//   - --storage: override the storage backend
//   - --ephemeral: keep state in memory for this invocation only
//
// The logger is attached to the command context in PersistentPreRun and is
// accessible to all commands via loggerFromContext.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Roomkit arranges furniture in a virtual room",
		Long:         `Roomkit places catalog furniture in a room, snaps it to a grid, keeps an undo history and exports the layout as JSON, a share link or a bill of materials.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/roomkit/config.toml)")
	flags.StringVar(&c.backend, "storage", "", "storage backend: file, memory, null, sqlite or redis")
	flags.BoolVar(&c.ephemeral, "ephemeral", false, "keep state in memory for this invocation only")
	_ = root.RegisterFlagCompletionFunc("storage", cobra.FixedCompletions(
		[]string{"file", "memory", "null", "sqlite", "redis"}, cobra.ShellCompDirectiveNoFileComp))

	// Register all subcommands
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.templatesCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.rotateCommand())
	root.AddCommand(c.removeCommand())
	root.AddCommand(c.clearCommand())
	root.AddCommand(c.undoCommand())
	root.AddCommand(c.redoCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.importCommand())
	root.AddCommand(c.backgroundCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.completionCommand())

	return root
}

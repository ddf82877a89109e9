package cli

import (
	"github.com/spf13/cobra"
)

// undoCommand creates the "undo" command.
func (c *CLI) undoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Undo the last change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				if !s.Undo() {
					printInfo("Nothing to undo")
					return nil
				}
				past, future := len(s.Placement().Past()), len(s.Placement().Future())
				printSuccess("Undone (%d item(s) placed)", len(s.Placed()))
				printDetail("%d more undo · %d redo", past, future)
				return nil
			})
		},
	}
}

// redoCommand creates the "redo" command.
func (c *CLI) redoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "redo",
		Short: "Redo the last undone change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				if !s.Redo() {
					printInfo("Nothing to redo")
					return nil
				}
				past, future := len(s.Placement().Past()), len(s.Placement().Future())
				printSuccess("Redone (%d item(s) placed)", len(s.Placed()))
				printDetail("%d undo · %d more redo", past, future)
				return nil
			})
		},
	}
}

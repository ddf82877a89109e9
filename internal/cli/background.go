package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/room"
)

// backgroundCommand creates the "background" command group.
func (c *CLI) backgroundCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "background",
		Aliases: []string{"bg"},
		Short:   "Manage the room backdrop",
	}
	cmd.AddCommand(c.backgroundShowCommand())
	cmd.AddCommand(c.backgroundImageCommand())
	cmd.AddCommand(c.backgroundTemplateCommand())
	cmd.AddCommand(c.backgroundClearCommand())
	return cmd
}

func (c *CLI) backgroundShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current backdrop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				bg := s.Background().Background()
				out := cmd.OutOrStdout()
				switch bg.Kind {
				case room.KindNone:
					fmt.Fprintln(out, "none")
				case room.KindUploaded:
					fmt.Fprintf(out, "uploaded %s\n", bg.ImageURL)
				case room.KindTemplate:
					fmt.Fprintf(out, "template %s (%s)\n", bg.TemplateID, s.Background().ResolveURL())
				}
				return nil
			})
		},
	}
}

func (c *CLI) backgroundImageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "image <url>",
		Short: "Use an uploaded image as the backdrop",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				if err := s.SetBackgroundImage(args[0]); err != nil {
					return err
				}
				printSuccess("Background set to %s", StyleLink.Render(args[0]))
				return nil
			})
		},
	}
}

func (c *CLI) backgroundTemplateCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "template <id>",
		Short:             "Use a built-in room template as the backdrop",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeTemplateIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				if err := s.SetBackgroundTemplate(args[0]); err != nil {
					return err
				}
				printSuccess("Background set to template %s", StyleHighlight.Render(args[0]))
				return nil
			})
		},
	}
}

func (c *CLI) backgroundClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove the backdrop",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				s.ClearBackground()
				printSuccess("Background cleared")
				return nil
			})
		},
	}
}

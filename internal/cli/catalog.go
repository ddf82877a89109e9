package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/room"
)

// catalogCommand creates the "catalog" command listing placeable items.
func (c *CLI) catalogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the furniture that can be placed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			reg, err := loadCatalog(cfg)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderCatalogTable(reg.Items()))
			return nil
		},
	}
}

// templatesCommand creates the "templates" command listing room templates.
func (c *CLI) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the built-in room templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, t := range room.Templates() {
				fmt.Fprintln(out, StyleTitle.Render(t.ID)+"  "+t.Name)
				fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf("image %s · plane %sx%s · grid %s",
					t.ImageURL, formatNumber(t.PlaneSize[0]), formatNumber(t.PlaneSize[1]), formatNumber(t.GridSize))))
			}
			return nil
		},
	}
}

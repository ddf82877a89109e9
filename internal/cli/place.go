package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/errors"
	"github.com/matzehuels/roomkit/pkg/geom"
)

// addCommand creates the "add" command placing a catalog item at the origin.
func (c *CLI) addCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "add <catalog-id>",
		Short:             "Place a new instance of a catalog item at the origin",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeCatalogIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				p, err := s.Add(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), p.InstanceID)
				loggerFromContext(cmd.Context()).Debug("placed", "instance", p.InstanceID, "catalog", p.CatalogID)
				return nil
			})
		},
	}
}

// listCommand creates the "list" command printing the placed instances.
func (c *CLI) listCommand() *cobra.Command {
	var bom bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List placed furniture",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				out := cmd.OutOrStdout()
				placed := s.Placed()
				if len(placed) == 0 {
					printInfo("The room is empty")
					printNextStep("Place something", appName+" add chair_01")
					return nil
				}
				if bom {
					fmt.Fprintln(out, renderBOMTable(s.BillOfMaterials()))
					return nil
				}
				fmt.Fprintln(out, renderPlacedTable(placed, s.Catalog(), ""))
				printDetail("positions in room units (%s), rotations in radians", s.cfg.Units)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&bom, "bom", false, "show the bill of materials instead")
	return cmd
}

// moveCommand creates the "move" command. Positions are snapped and
// clamped like the end of a drag unless --no-snap is given.
//
// Flag parsing stops at the instance id so coordinates such as -2.5 are
// read as numbers; flags must come first.
func (c *CLI) moveCommand() *cobra.Command {
	var rot string
	var noSnap bool
	cmd := &cobra.Command{
		Use:               "move [--rot rx,ry,rz] [--no-snap] <instance-id> <x> <y> <z>",
		Short:             "Move a placed instance",
		Example:           "  roomkit move --no-snap i1 -2.5 0 1.25",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: c.completeInstanceIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := parseVec(args[1:])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(s *session) error {
				p, ok := s.Get(args[0])
				if !ok {
					return errors.New(errors.ErrCodeInstanceNotFound, "no placed instance %q", args[0])
				}
				rotation := p.Rotation
				if rot != "" {
					if rotation, err = parseVecList(rot); err != nil {
						return err
					}
				}
				if noSnap {
					s.UpdateTransform(p.InstanceID, pos, rotation)
				} else {
					pos = s.DragEnd(p.InstanceID, pos, rotation)
				}
				printSuccess("Moved %s to %s", p.InstanceID, StyleValue.Render(formatVec(pos)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&rot, "rot", "", "rotation as rx,ry,rz in radians")
	cmd.Flags().BoolVar(&noSnap, "no-snap", false, "store the position exactly as given")
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// rotateCommand creates the "rotate" command.
func (c *CLI) rotateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "rotate <instance-id> <rx> <ry> <rz>",
		Short:             "Set the rotation of a placed instance (radians)",
		Example:           "  roomkit rotate i1 0 -1.57 0",
		Args:              cobra.ExactArgs(4),
		ValidArgsFunction: c.completeInstanceIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rotation, err := parseVec(args[1:])
			if err != nil {
				return err
			}
			return c.withSession(cmd, func(s *session) error {
				p, ok := s.Get(args[0])
				if !ok {
					return errors.New(errors.ErrCodeInstanceNotFound, "no placed instance %q", args[0])
				}
				s.UpdateTransform(p.InstanceID, p.Position, rotation)
				printSuccess("Rotated %s to %s", p.InstanceID, StyleValue.Render(formatVec(rotation)))
				return nil
			})
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

// removeCommand creates the "remove" command.
func (c *CLI) removeCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "remove <instance-id>",
		Aliases:           []string{"rm"},
		Short:             "Remove a placed instance",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeInstanceIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				if _, ok := s.Get(args[0]); !ok {
					return errors.New(errors.ErrCodeInstanceNotFound, "no placed instance %q", args[0])
				}
				s.Remove(args[0])
				printSuccess("Removed %s", args[0])
				return nil
			})
		},
	}
}

// clearCommand creates the "clear" command.
func (c *CLI) clearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all placed furniture (undoable)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				n := len(s.Placed())
				s.Clear()
				printSuccess("Cleared %d item(s)", n)
				printDetail("Undo with: %s undo", appName)
				return nil
			})
		},
	}
}

// parseVec parses three coordinates.
func parseVec(args []string) (geom.Vec3, error) {
	var v geom.Vec3
	if len(args) != 3 {
		return v, errors.New(errors.ErrCodeInvalidInput, "expected 3 coordinates, got %d", len(args))
	}
	for i, a := range args {
		f, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
		if err != nil {
			return v, errors.New(errors.ErrCodeInvalidInput, "invalid coordinate: %s", a)
		}
		v[i] = f
	}
	return v, nil
}

// parseVecList parses "x,y,z".
func parseVecList(s string) (geom.Vec3, error) {
	return parseVec(strings.Split(s, ","))
}

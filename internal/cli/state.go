package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/storage"
)

// stateCommand creates the saved-state management command.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Manage the saved room",
	}

	cmd.AddCommand(c.stateClearCommand())
	cmd.AddCommand(c.statePathCommand())

	return cmd
}

// stateClearCommand creates the "state clear" subcommand.
func (c *CLI) stateClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the saved layout, history and background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				n := len(s.Placed())
				if err := s.Reset(cmd.Context()); err != nil {
					return err
				}
				printSuccess("Cleared saved room (%d item(s))", n)
				printKeyValue("Backend", s.cfg.Storage.Backend)
				return nil
			})
		},
	}
}

// statePathCommand creates the "state path" subcommand.
func (c *CLI) statePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the room is saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			path, err := statePath(cfg.StorageConfig())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

// statePath describes the location of the configured backend.
func statePath(sc storage.Config) (string, error) {
	switch sc.Backend {
	case "", storage.BackendFile:
		if sc.Dir != "" {
			return sc.Dir, nil
		}
		return storage.DefaultDir()
	case storage.BackendSQLite:
		if sc.SQLitePath != "" {
			return sc.SQLitePath, nil
		}
		dir, err := storage.DefaultDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, "roomkit.db"), nil
	case storage.BackendRedis:
		return "redis://" + sc.RedisAddr + "/" + sc.RedisPrefix, nil
	}
	return "(" + string(sc.Backend) + ", not persisted)", nil
}

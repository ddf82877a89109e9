package cli

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/errors"
	"github.com/matzehuels/roomkit/pkg/placement"
)

// Export formats accepted by the export command.
const (
	formatJSON  = "json"
	formatCSV   = "csv"
	formatShare = "share"
)

// exportCommand creates the "export" command.
func (c *CLI) exportCommand() *cobra.Command {
	var output, origin string
	cmd := &cobra.Command{
		Use:       "export <json|csv|share>",
		Short:     "Export the layout as JSON, a CSV bill of materials or a share link",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{formatJSON, formatCSV, formatShare},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(s *session) error {
				var buf bytes.Buffer
				switch args[0] {
				case formatJSON:
					if err := s.ExportJSON(&buf); err != nil {
						return err
					}
				case formatCSV:
					buf.WriteString(s.BillOfMaterialsCSV())
					buf.WriteByte('\n')
				case formatShare:
					link, err := s.ShareLink(origin)
					if err != nil {
						return err
					}
					buf.WriteString(link)
					buf.WriteByte('\n')
				default:
					return errors.New(errors.ErrCodeInvalidInput, "unknown export format %q (use json, csv or share)", args[0])
				}
				return writeOutput(cmd.OutOrStdout(), output, buf.Bytes())
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	cmd.Flags().StringVar(&origin, "origin", "", "share link origin (default from config)")
	return cmd
}

// importCommand creates the "import" command. The argument is a JSON file,
// "-" for stdin, or a share link.
func (c *CLI) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|-|link>",
		Short: "Replace the layout with a JSON export or a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			return c.withSession(cmd, func(s *session) error {
				var (
					res placement.LoadResult
					err error
				)
				switch {
				case src == "-":
					res, err = s.ImportJSON(cmd.InOrStdin())
				case isShareLink(src):
					res, err = s.ImportShareLink(cmd.Context(), src)
				default:
					f, openErr := os.Open(src)
					if openErr != nil {
						return errors.Wrap(errors.ErrCodeInvalidInput, openErr, "open %s", src)
					}
					defer f.Close()
					res, err = s.ImportJSON(f)
				}
				if err != nil {
					return err
				}
				printSuccess("Imported %d item(s)", res.Loaded)
				if n := len(res.Fallbacks); n > 0 {
					printWarning("%d item(s) had unknown catalog ids and were replaced", n)
				}
				return nil
			})
		},
	}
}

// isShareLink reports whether s looks like a share link rather than a path.
func isShareLink(s string) bool {
	switch {
	case strings.HasPrefix(s, "http://"), strings.HasPrefix(s, "https://"):
		return true
	case strings.HasPrefix(s, "?"), strings.HasPrefix(s, "%7B"), strings.HasPrefix(s, "{"):
		return true
	}
	return false
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeStorageWrite, err, "write %s", path)
	}
	printFile(path)
	return nil
}


package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/roomkit/pkg/room"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for roomkit.

To load completions:

Bash:
  $ source <(roomkit completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ roomkit completion bash > /etc/bash_completion.d/roomkit
  # macOS:
  $ roomkit completion bash > $(brew --prefix)/etc/bash_completion.d/roomkit

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ roomkit completion zsh > "${fpath[1]}/_roomkit"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ roomkit completion fish | source

  # To load completions for each session, execute once:
  $ roomkit completion fish > ~/.config/fish/completions/roomkit.fish

PowerShell:
  PS> roomkit completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> roomkit completion powershell > roomkit.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}

	return cmd
}

// completeInstanceIDs completes the first argument with placed instance ids.
func (c *CLI) completeInstanceIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	s, err := c.openSession(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer s.Close()

	var ids []string
	for _, p := range s.Placed() {
		if strings.HasPrefix(p.InstanceID, toComplete) {
			ids = append(ids, p.InstanceID+"\t"+p.CatalogID)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeCatalogIDs completes catalog item ids.
func (c *CLI) completeCatalogIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	reg, err := loadCatalog(cfg)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var ids []string
	for _, it := range reg.Items() {
		if strings.HasPrefix(it.ID, toComplete) {
			ids = append(ids, it.ID+"\t"+it.Name)
		}
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

// completeTemplateIDs completes room template ids.
func completeTemplateIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var ids []string
	for _, t := range room.Templates() {
		ids = append(ids, t.ID+"\t"+t.Name)
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

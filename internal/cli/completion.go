package cli

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for bash or zsh.

To load completions:

Bash:

  $ source <(syscerts completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ syscerts completion bash > /etc/bash_completion.d/syscerts
  # macOS:
  $ syscerts completion bash > $(brew --prefix)/etc/bash_completion.d/syscerts

Zsh:

  $ syscerts completion zsh > "${fpath[1]}/_syscerts"

  # You will need to start a new shell for this setup to take effect.`,
	ValidArgs: []string{"bash", "zsh"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE:      runCompletion,
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

func runCompletion(cmd *cobra.Command, args []string) error {
	switch shell := args[0]; shell {
	case "bash":
		return cmd.Root().GenBashCompletion(stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(stdout)
	default:
		return usageError("unsupported shell: %s. Supported shells: bash, zsh", shell)
	}
}

package cmd

import (
	"github.com/spf13/cobra"
)

// completionCmd represents the completion command.
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for taskflow.

To load completions:

Bash:
  $ source <(taskflow completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ taskflow completion bash > /etc/bash_completion.d/taskflow
  # macOS:
  $ taskflow completion bash > $(brew --prefix)/etc/bash_completion.d/taskflow

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ taskflow completion zsh > "${fpath[1]}/_taskflow"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ taskflow completion fish | source

  # To load completions for each session, execute once:
  $ taskflow completion fish > ~/.config/fish/completions/taskflow.fish
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(stdout)
		case "fish":
			return rootCmd.GenFishCompletion(stdout, true)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}

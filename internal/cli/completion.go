package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/watertower/pkg/generate"
	"github.com/matzehuels/watertower/pkg/render/sink"
)

// completionCommand creates the completion command. Besides subcommands and
// flag names, the generated scripts complete preset names, output formats
// and styles.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for watertower.

Once loaded, flag values complete as well:
  watertower analyze --preset <TAB>     default, deep, shallow, ...
  watertower render -f <TAB>            txt, svg, png, json
  watertower render --style <TAB>       grid, flat`,
		Example: `  # bash, current session
  source <(watertower completion bash)

  # zsh, every session
  watertower completion zsh > "${fpath[1]}/_watertower"

  # fish
  watertower completion fish > ~/.config/fish/completions/watertower.fish

  # PowerShell
  watertower completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// completeValues offers values as the completions of flag on cmd.
func completeValues(cmd *cobra.Command, flag string, values []string) {
	_ = cmd.RegisterFlagCompletionFunc(flag, cobra.FixedCompletions(values, cobra.ShellCompDirectiveNoFileComp))
}

func completePresets(cmd *cobra.Command) { completeValues(cmd, "preset", generate.Presets()) }

func completeRenderFlags(cmd *cobra.Command) {
	completeValues(cmd, "format", sink.Formats)
	completeValues(cmd, "style", sink.Styles)
}

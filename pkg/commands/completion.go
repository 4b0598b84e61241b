package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generates bash completion scripts",
		Long: `To load completion run

. <(rowcount completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(rowcount completion)
`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = topLevel.GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	}

	topLevel.AddCommand(cmd)
}

// projectCompletions offers project titles for the first argument.
func projectCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	e, err := env.Open(io.Discard)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer e.Close()

	all, err := e.Service.List(context.Background())
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var titles []string
	for _, p := range all {
		if strings.HasPrefix(strings.ToLower(p.Title), strings.ToLower(toComplete)) {
			titles = append(titles, p.Title)
		}
	}
	return titles, cobra.ShellCompDirectiveNoFileComp
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

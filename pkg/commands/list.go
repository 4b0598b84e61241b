package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/runner/list"
)

func addList(topLevel *cobra.Command) {
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects.",
		Example: `
rowcount list
rowcount ls -k
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env.Open(cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			l := list.List{
				ShowID:  ido.ShowID,
				Out:     cmd.OutOrStdout(),
				Service: e.Service,
			}
			return output.HandleError(l.Do(cmd.Context()))
		},
	}

	options.AddShowIDArgs(cmd, ido)

	topLevel.AddCommand(cmd)
}

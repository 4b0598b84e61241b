package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/runner/show"
)

func addShow(topLevel *cobra.Command) {
	so := &show.Show{}
	po := &options.ProjectOptions{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "show [project]",
		Short: "Show where you are in a project.",
		Example: `
rowcount show "Ribbed Scarf"
rowcount show scarf --sessions
rowcount show 3f2a -o yaml > scarf.yaml
`,
		ValidArgsFunction: projectCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ref, err := po.Resolve(args)
			if err != nil {
				return output.HandleError(err)
			}
			e, err := env.Open(cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			so.Project = ref
			so.ShowID = ido.ShowID
			so.Out = cmd.OutOrStdout()
			so.Service = e.Service
			return output.HandleError(so.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&so.Output, "output", "o", show.OutputPretty,
		"Output format. One of 'pretty', 'json' or 'yaml'.")
	cmd.Flags().BoolVar(&so.Sessions, "sessions", false,
		"Include the session history.")
	options.AddProjectArg(cmd, po)
	options.AddShowIDArgs(cmd, ido)

	topLevel.AddCommand(cmd)
}

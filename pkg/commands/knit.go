package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/runner/knit"
)

func addKnit(topLevel *cobra.Command) {
	ko := &knit.Knit{}
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:   "knit [project]",
		Short: "Open a project in the interactive row counter.",
		Example: `
rowcount knit "Ribbed Scarf"
`,
		ValidArgsFunction: projectCompletions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			// Without a project the runner offers a picker.
			ref, _ := po.Resolve(args)
			e, err := env.Open(cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			ko.Project = ref
			ko.Service = e.Service
			ko.Log = e.Log
			return output.HandleError(ko.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVarP(&ko.Watch, "watch", "w", true,
		"Reload when another process changes the project.")
	options.AddProjectArg(cmd, po)

	topLevel.AddCommand(cmd)
}

package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/runner/remove"
)

func addRemove(topLevel *cobra.Command) {
	ro := &remove.Remove{}
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:     "remove [project]",
		Aliases: []string{"rm"},
		Short:   "Remove a project and its sessions.",
		Example: `
rowcount remove "Ribbed Scarf"
rowcount rm 3f2a --yes
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

			ro.Project = ref
			ro.In = cmd.InOrStdin()
			ro.Out = cmd.OutOrStdout()
			ro.Service = e.Service
			return output.HandleError(ro.Do(cmd.Context()))
		},
	}

	cmd.Flags().BoolVarP(&ro.Yes, "yes", "y", false,
		"Do not ask for confirmation.")
	options.AddProjectArg(cmd, po)

	topLevel.AddCommand(cmd)
}

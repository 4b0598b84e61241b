package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/runner/move"
)

func addMoves(topLevel *cobra.Command) {
	addMove(topLevel, move.Next, []string{"n"}, "Advance to the next row.", true)
	addMove(topLevel, move.Previous, []string{"back"}, "Step back one row.", true)
	addMove(topLevel, move.Repeat, nil, "Start the repeat that follows the current row.", false)
	addMove(topLevel, move.Again, nil, "At the end of a repeat, knit it once more.", false)
	addMove(topLevel, move.Finish, nil, "At the end of a repeat, move on with the pattern.", false)
}

func addMove(topLevel *cobra.Command, action move.Action, aliases []string, short string, counted bool) {
	mo := &move.Move{Action: action}
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:     string(action) + " [project]",
		Aliases: aliases,
		Short:   short,
		Example: `
rowcount ` + string(action) + ` "Ribbed Scarf"
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

			mo.Project = ref
			mo.Out = cmd.OutOrStdout()
			mo.Service = e.Service
			return output.HandleError(mo.Do(cmd.Context()))
		},
	}

	if counted {
		cmd.Flags().IntVarP(&mo.Times, "times", "n", 1,
			"Move this many rows.")
	}
	cmd.Flags().BoolVarP(&mo.Quiet, "quiet", "q", false,
		"Only print the status, not the instructions.")
	options.AddProjectArg(cmd, po)

	topLevel.AddCommand(cmd)
}

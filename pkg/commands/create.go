package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/runner/create"
)

func addCreate(topLevel *cobra.Command) {
	co := &create.Create{}
	ido := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:     "create <title>",
		Aliases: []string{"new"},
		Short:   "Create a project from a pattern.",
		Long: `Create a project from a knitting pattern, one instruction per line.

Lines like "Row 3: k2, p2" and "Rows 4-8: knit" become rows, and
"Repeat rows 1-4 3 times" or "Repeat rows 5-6 until piece measures 10cm"
become repeat sections. Everything else is kept as a plain instruction.`,
		Example: `
rowcount create "Ribbed Scarf" -f scarf.txt
rowcount create "Hat" --start-row 12 --worked "3h 20m" < hat.txt
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := env.Open(cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			co.Title = joinArgs(args)
			co.ShowID = ido.ShowID
			co.In = cmd.InOrStdin()
			co.Out = cmd.OutOrStdout()
			co.Service = e.Service
			return output.HandleError(co.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVarP(&co.File, "file", "f", "-",
		`Pattern file, "-" reads standard input.`)
	cmd.Flags().IntVar(&co.StartRow, "start-row", 0,
		"Row number to start on, for a project already under way.")
	cmd.Flags().StringVar(&co.Worked, "worked", "",
		`Time already spent, e.g. "2h 30m".`)
	options.AddShowIDArgs(cmd, ido)

	topLevel.AddCommand(cmd)
}

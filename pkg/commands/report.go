package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/runner/report"
)

func addReport(topLevel *cobra.Command) {
	ro := &report.Report{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize time and rows knitted recently.",
		Example: `
rowcount report
rowcount report --window 30d
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env.Open(cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			ro.Out = cmd.OutOrStdout()
			ro.Service = e.Service
			return output.HandleError(ro.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&ro.Window, "window", report.DefaultWindow,
		`How far back to look, e.g. "7d" or "12h".`)

	topLevel.AddCommand(cmd)
}

package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where projects are stored.",
		Example: `
rowcount info
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env.Open(cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := info.Info{
				Config: e.Config,
				KV:     e.KV,
				Out:    cmd.OutOrStdout(),
			}
			err = s.Do(cmd.Context())
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

package commands

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/runner/serve"
)

func addServe(topLevel *cobra.Command) {
	var (
		addr  string
		token string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Share the local store over HTTP.",
		Long: `Serve the project store over the HTTP storage API. Another machine can use
it by setting backend: remote and remote.url to this server.`,
		Example: `
rowcount serve --addr 0.0.0.0:8787 --token s3cret
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := env.Open(cmd.ErrOrStderr())
			if err != nil {
				return output.HandleError(err)
			}
			defer e.Close()

			s := serve.Serve{
				Addr:  e.Config.ServeAddr,
				Token: e.Config.ServeToken,
				KV:    e.KV,
				Log:   e.Log,
				OnListening: func(a net.Addr) {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Storage API listening on http://%s\n", a)
				},
			}
			if cmd.Flags().Changed("addr") {
				s.Addr = addr
			}
			if cmd.Flags().Changed("token") {
				s.Token = token
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", serve.DefaultAddr, "listen address (default from serve.addr)")
	cmd.Flags().StringVar(&token, "token", "", "bearer token clients must send (default from serve.token)")

	topLevel.AddCommand(cmd)
}

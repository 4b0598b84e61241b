package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/printers"
)

var (
	output = &options.OutputOptions{}
	env    = &options.StoreOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "rowcount",
		Short: base.Wrap80("Follow knitting patterns row by row and keep track of the time spent."),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return printers.SetColor(output.Color)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddOutputArgs(cmd, output)
	options.AddStoreArgs(cmd, env)

	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addCreate(topLevel)
	addList(topLevel)
	addShow(topLevel)
	addMoves(topLevel)
	addSession(topLevel)
	addKnit(topLevel)
	addRemove(topLevel)
	addReport(topLevel)
	addInfo(topLevel)
	addServe(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

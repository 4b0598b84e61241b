package commands

import (
	"github.com/spf13/cobra"

	"tableflip.dev/rowcount/pkg/commands/options"
	"tableflip.dev/rowcount/pkg/runner/sessions"
)

func addSession(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"timer"},
		Short:   "Time a work session on a project.",
		Example: `
rowcount session start "Ribbed Scarf"
rowcount next "Ribbed Scarf" -n 4
rowcount session end "Ribbed Scarf"
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	addSessionAction(cmd, sessions.Start, "Start timing.")
	addSessionAction(cmd, sessions.Pause, "Pause the running session.")
	addSessionAction(cmd, sessions.Resume, "Resume a paused session.")
	addSessionAction(cmd, sessions.Toggle, "Start, pause or resume, whichever applies.")
	addSessionAction(cmd, sessions.End, "End the session and add it to the project.")
	addSessionAction(cmd, sessions.Discard, "Drop the session without recording it.")
	addSessionAction(cmd, sessions.Status, "Show the session and the project position.")

	topLevel.AddCommand(cmd)
}

func addSessionAction(parent *cobra.Command, action sessions.Action, short string) {
	po := &options.ProjectOptions{}

	cmd := &cobra.Command{
		Use:               string(action) + " [project]",
		Short:             short,
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

			s := sessions.Session{
				Project: ref,
				Action:  action,
				Out:     cmd.OutOrStdout(),
				Service: e.Service,
			}
			return output.HandleError(s.Do(cmd.Context()))
		},
	}

	options.AddProjectArg(cmd, po)

	parent.AddCommand(cmd)
}

package options

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ProjectOptions selects the project a command works on.
type ProjectOptions struct {
	Project string
}

// AddProjectArg registers --project. The project can also be given as the
// first positional argument or through ROWCOUNT_PROJECT.
func AddProjectArg(cmd *cobra.Command, o *ProjectOptions) {
	cmd.Flags().StringVarP(&o.Project, "project", "p", "",
		"Project id, unique id prefix or title.")
}

// Resolve returns the selected project reference.
func (o *ProjectOptions) Resolve(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if o.Project != "" {
		return o.Project, nil
	}
	if p := os.Getenv("ROWCOUNT_PROJECT"); p != "" {
		return p, nil
	}
	return "", errors.New("no project given; pass a title or id, or set ROWCOUNT_PROJECT")
}

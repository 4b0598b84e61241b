package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/timeutil"
)

// DefaultWindow is how far back a report looks when no window is given.
const DefaultWindow = "7d"

type Report struct {
	// Window is a duration such as "7d" or "12h".
	Window string
	Now    func() time.Time

	Out     io.Writer
	Service *app.Service
}

func (n *Report) Do(ctx context.Context) error {
	if n.Service == nil {
		return errors.New("can not report, no store")
	}
	out := n.Out
	if out == nil {
		out = color.Output
	}
	window := n.Window
	if window == "" {
		window = DefaultWindow
	}
	d, err := timeutil.ParseWorked(window)
	if err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("window must be greater than zero")
	}
	now := time.Now
	if n.Now != nil {
		now = n.Now
	}
	until := now()
	result, err := n.Service.Report(ctx, until.Add(-d), until)
	if err != nil {
		return err
	}

	title := color.New(color.Bold, color.Underline)
	_, _ = title.Fprintf(out, "Last %s\n", timeutil.FormatCompact(d))
	if len(result.Sections) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(out, " no sessions\n")
		return nil
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Project"), bold.Sprint("Sessions"), bold.Sprint("Rows"), bold.Sprint("Time"))
	for _, s := range result.Sections {
		tbl.AddRow(s.Project.Title, len(s.Sessions), s.Rows, timeutil.FormatElapsed(s.Time))
	}
	tbl.AddRow(bold.Sprint("Total"), "", result.Rows, bold.Sprint(timeutil.FormatElapsed(result.Time)))
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}

package printers

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/mattn/go-isatty"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/pattern"
	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
	"tableflip.dev/rowcount/pkg/timeutil"
)

// DefaultWidth is the wrap width for instruction text.
const DefaultWidth = 80

// PrettyPrint renders projects for a terminal.
type PrettyPrint struct {
	Out    io.Writer
	Width  int
	ShowID bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// SetColor applies a --color mode: always, never or auto. Auto honors
// NO_COLOR and CLICOLOR.
func SetColor(mode string) error {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "", "auto":
		color.NoColor = termenv.EnvNoColor() || !IsTerminal(os.Stdout)
	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}
	return nil
}

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) width() int {
	if pp.Width > 0 {
		return pp.Width
	}
	return DefaultWidth
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.out(), title)
}

// Note prints a faint aside.
func (pp *PrettyPrint) Note(format string, args ...interface{}) {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprintf(pp.out(), " "+format+"\n", args...)
}

// Projects prints one table row per project.
func (pp *PrettyPrint) Projects(list []*project.Project) {
	if len(list) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no projects\n")
		return
	}
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 40
	header := []interface{}{bold.Sprint("Title"), bold.Sprint("Position"), bold.Sprint("Time"), bold.Sprint("Sessions")}
	if pp.ShowID {
		header = append([]interface{}{bold.Sprint("ID")}, header...)
	}
	tbl.AddRow(header...)
	for _, p := range list {
		row := []interface{}{p.Title, Position(p), timeutil.FormatElapsed(p.TotalTime), len(p.Sessions)}
		if pp.ShowID {
			row = append([]interface{}{faint.Sprint(p.ID)}, row...)
		}
		tbl.AddRow(row...)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Instructions prints the instructions worth showing for the current
// position, the current one highlighted.
func (pp *PrettyPrint) Instructions(p *project.Project) {
	v := p.View()
	cur := color.New(color.Bold, color.FgHiGreen)
	marker := color.New(color.FgHiMagenta, color.Italic)
	plain := color.New(color.Faint)
	normal := color.New()

	for _, i := range v.Visible {
		in := p.Pattern.Instructions[i]
		text := wordwrap.String(in.String(), pp.width()-4)
		text = strings.ReplaceAll(text, "\n", "\n    ")
		switch {
		case i == v.Current:
			_, _ = cur.Fprintf(pp.out(), " ▶  %s\n", text)
		case pattern.IsMarker(in):
			_, _ = marker.Fprintf(pp.out(), "    %s\n", text)
		case pattern.IsPlain(in):
			_, _ = plain.Fprintf(pp.out(), "    %s\n", text)
		default:
			_, _ = normal.Fprintf(pp.out(), "    %s\n", text)
		}
	}
}

// Status prints where the knitter is, what they can do next and how long
// they have worked, including a running session.
func (pp *PrettyPrint) Status(p *project.Project, t *session.Tracker) {
	v := p.View()
	label := color.New(color.Faint)
	value := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(label.Sprint("Project"), value.Sprint(p.Title))
	tbl.AddRow(label.Sprint("Position"), value.Sprint(Position(p)))
	if v.Active != nil {
		tbl.AddRow(label.Sprint("Repeat"), RepeatProgress(v))
	}
	if hint := Hint(v); hint != "" {
		tbl.AddRow(label.Sprint("Next"), hint)
	}
	total := p.TotalTime
	if t != nil && t.Current() != session.Idle {
		tbl.AddRow(label.Sprint("Session"), fmt.Sprintf("%s (%s, %d rows)", timeutil.FormatElapsed(t.Elapsed()), t.Current(), t.Rows))
		total += t.Elapsed()
	}
	tbl.AddRow(label.Sprint("Total"), timeutil.FormatElapsed(total))
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// SessionSummary prints a finished session and the new project total.
func (pp *PrettyPrint) SessionSummary(rec session.Record, total time.Duration) {
	c := color.New(color.FgHiGreen)
	f := color.New(color.Faint)
	_, _ = c.Fprintf(pp.out(), "Session saved: %s, %d rows.\n", timeutil.FormatElapsed(rec.Duration), rec.RowsCompleted)
	_, _ = f.Fprintf(pp.out(), "Total time %s\n", timeutil.FormatElapsed(total))
}

// Sessions prints the session history of a project.
func (pp *PrettyPrint) Sessions(p *project.Project) {
	if len(p.Sessions) == 0 {
		f := color.New(color.Faint, color.Italic)
		_, _ = f.Fprint(pp.out(), " no sessions yet\n")
		return
	}
	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("When"), bold.Sprint("Time"), bold.Sprint("Rows"))
	for _, s := range p.Sessions {
		tbl.AddRow(s.Timestamp.Local().Format("2006-01-02 15:04"), timeutil.FormatElapsed(s.Duration), s.RowsCompleted)
	}
	_, _ = fmt.Fprintln(pp.out(), tbl)
}

// Position describes the cursor in words.
func Position(p *project.Project) string {
	switch c := p.Cursor.(type) {
	case cursor.PreStart:
		return "getting started"
	case cursor.Final:
		if c.Instruction >= 0 && c.Instruction < len(p.Pattern.Instructions) {
			return "finishing: " + p.Pattern.Instructions[c.Instruction].String()
		}
		return "finishing"
	}
	n, ok := p.CurrentRowNumber()
	if !ok {
		return "-"
	}
	return fmt.Sprintf("row %d", n)
}

// RepeatProgress describes the active repeat ("rows 1-2, pass 2 of 3").
func RepeatProgress(v cursor.View) string {
	if v.Active == nil {
		return ""
	}
	s := fmt.Sprintf("rows %d-%d, pass %d", v.Active.Start, v.Active.End, v.Completed+1)
	if v.Active.Kind == pattern.Specified && v.Active.Count > 0 {
		s += fmt.Sprintf(" of %d", v.Active.Count)
	}
	return s
}

// Hint names the repeat action available at this position, if any.
func Hint(v cursor.View) string {
	switch {
	case v.NextRepeat != nil:
		return "start repeat " + v.NextRepeat.String()
	case v.AtRepeatEnd && v.CanRepeatAgain:
		return "repeat again or finish repeats"
	case v.AtRepeatEnd:
		return "finish repeats"
	case v.Done:
		return "pattern complete"
	}
	return ""
}

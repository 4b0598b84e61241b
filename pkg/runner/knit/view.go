package knit

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/pattern"
	"tableflip.dev/rowcount/pkg/printers"
	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
	"tableflip.dev/rowcount/pkg/timeutil"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	currentStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	markerStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("177"))
	plainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	pausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	panelStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1)
)

var (
	startColor, _ = colorful.Hex("#5A56E0")
	endColor, _   = colorful.Hex("#EE6FF8")
)

// positionStyle tints the position label along the progress bar gradient.
func positionStyle(done float64) lipgloss.Style {
	c := startColor.BlendLuv(endColor, done).Clamped()
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
}

// chrome is the number of lines around the instruction panel.
const chrome = 12

func (m Model) View() string {
	p := m.project
	v := p.View()
	width := m.width
	if width <= 0 {
		width = 80
	}
	if width < 24 {
		width = 24
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate.StringWithTail(p.Title, uint(width-2), "…")))
	b.WriteString("  ")
	b.WriteString(positionStyle(Progress(p)).Render(printers.Position(p)))
	b.WriteString("\n")

	m.progress.Width = width - 2
	if m.progress.Width > 60 {
		m.progress.Width = 60
	}
	b.WriteString(m.progress.ViewAs(Progress(p)))
	b.WriteString("\n")

	b.WriteString(panelStyle.Width(width - 2).Render(m.instructions(p, v, width-6)))
	b.WriteString("\n")

	if v.Active != nil {
		b.WriteString(markerStyle.Render(printers.RepeatProgress(v)))
		b.WriteString("\n")
	}
	if hint := printers.Hint(v); hint != "" {
		b.WriteString(hintStyle.Render(hint))
		b.WriteString("\n")
	}
	b.WriteString(m.timer())
	b.WriteString("\n")
	if m.status != "" {
		style := faintStyle
		if m.failed {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) instructions(p *project.Project, v cursor.View, width int) string {
	if width < 20 {
		width = 20
	}
	size := len(v.Visible)
	if m.height > 0 {
		size = m.height - chrome
		if size < 3 {
			size = 3
		}
	}
	lines := make([]string, 0, size)
	for _, i := range Window(v.Visible, v.Current, size) {
		in := p.Pattern.Instructions[i]
		text := wordwrap.String(in.String(), width-3)
		text = strings.ReplaceAll(text, "\n", "\n   ")
		switch {
		case i == v.Current:
			lines = append(lines, currentStyle.Render("▶  "+text))
		case pattern.IsMarker(in):
			lines = append(lines, markerStyle.Render("   "+text))
		case pattern.IsPlain(in):
			lines = append(lines, plainStyle.Render("   "+text))
		default:
			lines = append(lines, "   "+text)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) timer() string {
	t := m.session
	total := m.project.TotalTime + t.Elapsed()
	var state string
	switch t.Current() {
	case session.Running:
		state = runningStyle.Render(fmt.Sprintf("● %s", timeutil.FormatElapsed(t.Elapsed()))) +
			faintStyle.Render(fmt.Sprintf("  %d rows", t.Rows))
	case session.Paused:
		state = pausedStyle.Render(fmt.Sprintf("❚❚ %s", timeutil.FormatElapsed(t.Elapsed()))) +
			faintStyle.Render(fmt.Sprintf("  %d rows", t.Rows))
	default:
		state = faintStyle.Render("timer stopped")
	}
	return state + faintStyle.Render("  total "+timeutil.FormatElapsed(total))
}

func formatRecord(rec session.Record) string {
	return fmt.Sprintf("%s, %d rows", timeutil.FormatElapsed(rec.Duration), rec.RowsCompleted)
}

// Progress is how far through the pattern's rows the project is, from 0
// before the first row to 1 on the final instruction.
func Progress(p *project.Project) float64 {
	rows := len(p.Pattern.Rows())
	switch c := p.Cursor.(type) {
	case cursor.Final:
		return 1
	case cursor.AtRow:
		if rows > 0 {
			return float64(c.Index+1) / float64(rows)
		}
	case cursor.InRepeat:
		if rows > 0 {
			return float64(c.Index+1) / float64(rows)
		}
	}
	return 0
}

// Window returns at most size entries of visible, keeping current in view
// with some context above it.
func Window(visible []int, current, size int) []int {
	if size <= 0 || len(visible) <= size {
		return visible
	}
	pos := 0
	for i, idx := range visible {
		if idx == current {
			pos = i
			break
		}
	}
	start := pos - size/3
	if start < 0 {
		start = 0
	}
	if start+size > len(visible) {
		start = len(visible) - size
	}
	return visible[start : start+size]
}

package knit

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/rowcount/pkg/printers"
	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/timeutil"
)

type projectItem struct {
	p *project.Project
}

func (i projectItem) Title() string { return i.p.Title }
func (i projectItem) Description() string {
	return fmt.Sprintf("%s · %s", printers.Position(i.p), timeutil.FormatElapsed(i.p.TotalTime))
}
func (i projectItem) FilterValue() string { return i.p.Title }

// picker lets the knitter choose a project when none was named.
type picker struct {
	list   list.Model
	chosen string
}

func newPicker(projects []*project.Project) picker {
	items := make([]list.Item, 0, len(projects))
	for _, p := range projects {
		items = append(items, projectItem{p: p})
	}
	l := list.New(items, list.NewDefaultDelegate(), 60, 20)
	l.Title = "Pick a project"
	l.SetShowStatusBar(false)
	return picker{list: l}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if it, ok := m.list.SelectedItem().(projectItem); ok {
				m.chosen = it.p.ID
			}
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m picker) View() string {
	return m.list.View()
}

// Pick shows the project list and returns the chosen project id, or "" when
// the knitter quit without choosing.
func Pick(ctx context.Context, projects []*project.Project) (string, error) {
	final, err := tea.NewProgram(newPicker(projects), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return "", err
	}
	return final.(picker).chosen, nil
}

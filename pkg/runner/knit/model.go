package knit

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
	"tableflip.dev/rowcount/pkg/store"
)

// Model is the row-by-row knitting view of one project.
type Model struct {
	svc     *app.Service
	ctx     context.Context
	id      string
	project *project.Project
	session *session.Tracker
	events  <-chan store.Event

	keys     keyMap
	help     help.Model
	progress progress.Model

	status  string
	failed  bool
	busy    bool
	stale   bool
	leaving bool
	pausing bool

	width  int
	height int
}

type (
	tickMsg  time.Time
	eventMsg store.Event
	stepMsg  struct {
		step   *app.Step
		err    error
		reload bool
	}
	endMsg struct {
		step *app.Step
		rec  session.Record
		err  error
	}
)

// New builds the model from an opened project. events may be nil when the
// store cannot be watched.
func New(ctx context.Context, svc *app.Service, step *app.Step, events <-chan store.Event) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		svc:      svc,
		ctx:      ctx,
		id:       step.Project.ID,
		project:  step.Project,
		session:  step.Session,
		events:   events,
		keys:     newKeyMap(),
		help:     help.New(),
		progress: progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		width:    80,
	}
	if m.session == nil {
		m.session = &session.Tracker{}
	}
	m.keys.sync(m.project.View(), m.session.Current())
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tick(), m.waitForEvent())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) waitForEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	ch := m.events
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m Model) reload() tea.Cmd {
	svc, ctx, id := m.svc, m.ctx, m.id
	return func() tea.Msg {
		step, err := svc.Session(ctx, id)
		return stepMsg{step: step, err: err, reload: true}
	}
}

func (m Model) run(op func(context.Context, string) (*app.Step, error)) tea.Cmd {
	ctx, id := m.ctx, m.id
	return func() tea.Msg {
		step, err := op(ctx, id)
		return stepMsg{step: step, err: err}
	}
}

func (m Model) endSession() tea.Cmd {
	svc, ctx, id := m.svc, m.ctx, m.id
	return func() tea.Msg {
		step, rec, err := svc.EndSession(ctx, id)
		return endMsg{step: step, rec: rec, err: err}
	}
}

// relevant reports whether a store change touches this project.
func (m Model) relevant(ev store.Event) bool {
	return ev.Type == store.EventInvalidated ||
		ev.Key == store.ProjectKey(m.id) ||
		ev.Key == store.SessionKey(m.id)
}

func (m *Model) apply(step *app.Step) {
	if step == nil {
		return
	}
	m.project = step.Project
	if step.Session != nil {
		m.session = step.Session
	}
	m.keys.sync(m.project.View(), m.session.Current())
}

func (m *Model) fail(err error) {
	m.failed = true
	switch {
	case errors.Is(err, app.ErrStoreUnavailable):
		m.status = "not saved: " + err.Error()
	default:
		m.status = err.Error()
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		return m, tick()

	case eventMsg:
		next := m.waitForEvent()
		if !m.relevant(store.Event(msg)) {
			return m, next
		}
		if m.busy {
			m.stale = true
			return m, next
		}
		return m, tea.Batch(next, m.reload())

	case stepMsg:
		if !msg.reload {
			m.busy = false
		}
		m.apply(msg.step)
		switch {
		case msg.err != nil:
			m.fail(msg.err)
		case msg.reload:
		case msg.step != nil && !msg.step.Changed:
			m.failed = false
			m.status = "nothing to do from here"
		default:
			m.failed = false
			m.status = ""
		}
		if m.leaving {
			return m.leave()
		}
		if m.stale && !m.busy {
			m.stale = false
			return m, m.reload()
		}
		return m, nil

	case endMsg:
		m.busy = false
		m.apply(msg.step)
		if m.leaving {
			return m.leave()
		}
		if msg.err != nil {
			m.fail(msg.err)
			return m, nil
		}
		m.failed = false
		m.status = "session saved: " + formatRecord(msg.rec)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// leave quits once nothing is in flight, pausing a running session first.
func (m Model) leave() (tea.Model, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	if !m.pausing && m.session.Current() == session.Running {
		m.pausing = true
		m.busy = true
		return m, m.run(m.svc.PauseSession)
	}
	return m, tea.Quit
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.leaving = true
		return m.leave()
	}
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	if m.busy {
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Next):
		cmd = m.run(m.svc.Next)
	case key.Matches(msg, m.keys.Prev):
		cmd = m.run(m.svc.Previous)
	case key.Matches(msg, m.keys.Repeat):
		cmd = m.run(m.svc.StartRepeat)
	case key.Matches(msg, m.keys.Again):
		cmd = m.run(m.svc.RepeatAgain)
	case key.Matches(msg, m.keys.Finish):
		cmd = m.run(m.svc.FinishRepeats)
	case key.Matches(msg, m.keys.Session):
		cmd = m.run(m.svc.ToggleSession)
	case key.Matches(msg, m.keys.End):
		cmd = m.endSession()
	case key.Matches(msg, m.keys.Discard):
		cmd = m.run(m.svc.DiscardSession)
	}
	if cmd != nil {
		m.busy = true
	}
	return m, cmd
}

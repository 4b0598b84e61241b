// Package mcp provides the Model Context Protocol server integration for rowcount.
package mcp

import (
	"context"
	"errors"
	"time"

	"tableflip.dev/rowcount/pkg/app"
	"tableflip.dev/rowcount/pkg/pattern"
	"tableflip.dev/rowcount/pkg/printers"
	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
)

// Service adapts the app service to transport-friendly results for the MCP
// server.
type Service struct {
	App *app.Service
}

// ProjectSummary describes a project for listings.
type ProjectSummary struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Position    string `json:"position"`
	TotalTimeMs int64  `json:"totalTimeMs"`
	Sessions    int    `json:"sessions"`
	Created     string `json:"created,omitempty"`
}

// RepeatDTO is a repeat section and, when active, the passes done.
type RepeatDTO struct {
	Start     int    `json:"start"`
	End       int    `json:"end"`
	Text      string `json:"text"`
	Kind      string `json:"kind"`
	Count     int    `json:"count,omitempty"`
	Completed int    `json:"completed"`
}

// SessionDTO is the in-flight session of a project.
type SessionDTO struct {
	State     string `json:"state"`
	ElapsedMs int64  `json:"elapsedMs"`
	Rows      int    `json:"rowsCompleted"`
}

// ProjectDTO is a project with the derived navigation state an agent needs
// to decide on the next action.
type ProjectDTO struct {
	ProjectSummary
	Changed            bool       `json:"changed"`
	Instruction        string     `json:"instruction,omitempty"`
	Hint               string     `json:"hint,omitempty"`
	Done               bool       `json:"done"`
	NextRepeat         *RepeatDTO `json:"nextRepeat,omitempty"`
	ActiveRepeat       *RepeatDTO `json:"activeRepeat,omitempty"`
	CanRepeatAgain     bool       `json:"canRepeatAgain"`
	MustFinishRepeats  bool       `json:"mustFinishRepeats"`
	VisibleInstruction []string   `json:"visibleInstructions,omitempty"`
	Session            SessionDTO `json:"session"`
}

// CreateOptions captures the parameters used to create a project.
type CreateOptions struct {
	Title    string
	Pattern  string
	StartRow int
	Worked   time.Duration
}

// NewService builds a service over a.
func NewService(a *app.Service) *Service {
	return &Service{App: a}
}

func (s *Service) ready() error {
	if s.App == nil {
		return errors.New("project service is not configured")
	}
	return nil
}

// ListProjects summarizes every project, oldest first.
func (s *Service) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	all, err := s.App.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ProjectSummary, 0, len(all))
	for _, p := range all {
		out = append(out, summarize(p))
	}
	return out, nil
}

// GetProject returns one project by id, id prefix or title.
func (s *Service) GetProject(ctx context.Context, ref string) (*ProjectDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	step, err := s.App.Session(ctx, ref)
	if err != nil {
		return nil, err
	}
	dto := toDTO(step)
	return &dto, nil
}

// CreateProject compiles a pattern into a new project.
func (s *Service) CreateProject(ctx context.Context, opts CreateOptions) (*ProjectDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	p, err := s.App.Create(ctx, app.CreateRequest{
		Title:    opts.Title,
		Pattern:  opts.Pattern,
		StartRow: opts.StartRow,
		Worked:   opts.Worked,
	})
	if err != nil {
		return nil, err
	}
	dto := toDTO(&app.Step{Project: p, Session: &session.Tracker{}, Changed: true})
	return &dto, nil
}

// Transition names accepted by Move.
const (
	Advance       = "advance"
	Retreat       = "retreat"
	StartRepeat   = "start_repeat"
	RepeatAgain   = "repeat_again"
	FinishRepeats = "finish_repeats"
)

// Move applies a named transition to a project.
func (s *Service) Move(ctx context.Context, ref, op string) (*ProjectDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var fn func(context.Context, string) (*app.Step, error)
	switch op {
	case Advance:
		fn = s.App.Next
	case Retreat:
		fn = s.App.Previous
	case StartRepeat:
		fn = s.App.StartRepeat
	case RepeatAgain:
		fn = s.App.RepeatAgain
	case FinishRepeats:
		fn = s.App.FinishRepeats
	default:
		return nil, errors.New("unknown transition " + op)
	}
	step, err := fn(ctx, ref)
	if err != nil {
		return nil, err
	}
	dto := toDTO(step)
	return &dto, nil
}

// Session operations accepted by SessionAction.
const (
	SessionStart   = "start"
	SessionPause   = "pause"
	SessionResume  = "resume"
	SessionToggle  = "toggle"
	SessionEnd     = "end"
	SessionDiscard = "discard"
)

// SessionAction applies a session operation to a project.
func (s *Service) SessionAction(ctx context.Context, ref, action string) (*ProjectDTO, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	var (
		step *app.Step
		err  error
	)
	switch action {
	case SessionStart:
		step, err = s.App.StartSession(ctx, ref)
	case SessionPause:
		step, err = s.App.PauseSession(ctx, ref)
	case SessionResume:
		step, err = s.App.ResumeSession(ctx, ref)
	case SessionToggle:
		step, err = s.App.ToggleSession(ctx, ref)
	case SessionEnd:
		step, _, err = s.App.EndSession(ctx, ref)
	case SessionDiscard:
		step, err = s.App.DiscardSession(ctx, ref)
	default:
		return nil, errors.New("unknown session action " + action)
	}
	if err != nil {
		return nil, err
	}
	dto := toDTO(step)
	return &dto, nil
}

func summarize(p *project.Project) ProjectSummary {
	sum := ProjectSummary{
		ID:          p.ID,
		Title:       p.Title,
		Position:    printers.Position(p),
		TotalTimeMs: p.TotalTime.Milliseconds(),
		Sessions:    len(p.Sessions),
	}
	if !p.Created.IsZero() {
		sum.Created = p.Created.UTC().Format(time.RFC3339)
	}
	return sum
}

func toRepeat(r *pattern.RepeatSection, completed int) *RepeatDTO {
	if r == nil {
		return nil
	}
	return &RepeatDTO{
		Start:     r.Start,
		End:       r.End,
		Text:      r.Text,
		Kind:      string(r.Kind),
		Count:     r.Count,
		Completed: completed,
	}
}

func toDTO(step *app.Step) ProjectDTO {
	p := step.Project
	v := p.View()
	dto := ProjectDTO{
		ProjectSummary:    summarize(p),
		Changed:           step.Changed,
		Hint:              printers.Hint(v),
		Done:              v.Done,
		NextRepeat:        toRepeat(v.NextRepeat, 0),
		ActiveRepeat:      toRepeat(v.Active, v.Completed),
		CanRepeatAgain:    v.CanRepeatAgain,
		MustFinishRepeats: v.MustFinish,
	}
	if v.Current >= 0 && v.Current < len(p.Pattern.Instructions) {
		dto.Instruction = p.Pattern.Instructions[v.Current].String()
	}
	if v.Active != nil {
		for _, i := range v.Visible {
			dto.VisibleInstruction = append(dto.VisibleInstruction, p.Pattern.Instructions[i].String())
		}
	}
	if t := step.Session; t != nil {
		dto.Session = SessionDTO{
			State:     string(t.Current()),
			ElapsedMs: t.Elapsed().Milliseconds(),
			Rows:      t.Rows,
		}
	} else {
		dto.Session.State = string(session.Idle)
	}
	return dto
}

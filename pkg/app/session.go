package app

import (
	"context"

	"tableflip.dev/rowcount/pkg/session"
)

// Session returns the project and its in-flight session.
func (s *Service) Session(ctx context.Context, ref string) (*Step, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	t, err := s.tracker(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return &Step{Project: p, Session: t}, nil
}

func (s *Service) sessionOp(ctx context.Context, ref, op string, fn func(*session.Tracker) error) (*Step, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	t, err := s.tracker(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	step := &Step{Project: p, Session: t}
	if err := fn(t); err != nil {
		return step, err
	}
	step.Changed = true
	s.log().Info(op, "project", p.ID, "state", t.Current())
	return step, s.persistSession(ctx, p.ID, t)
}

// StartSession starts timing a work session.
func (s *Service) StartSession(ctx context.Context, ref string) (*Step, error) {
	return s.sessionOp(ctx, ref, "session started", (*session.Tracker).Start)
}

// PauseSession pauses the running session.
func (s *Service) PauseSession(ctx context.Context, ref string) (*Step, error) {
	return s.sessionOp(ctx, ref, "session paused", (*session.Tracker).Pause)
}

// ResumeSession resumes a paused session.
func (s *Service) ResumeSession(ctx context.Context, ref string) (*Step, error) {
	return s.sessionOp(ctx, ref, "session resumed", (*session.Tracker).Resume)
}

// ToggleSession starts, pauses or resumes, whichever applies.
func (s *Service) ToggleSession(ctx context.Context, ref string) (*Step, error) {
	return s.sessionOp(ctx, ref, "session toggled", (*session.Tracker).Toggle)
}

// DiscardSession drops the session without recording it.
func (s *Service) DiscardSession(ctx context.Context, ref string) (*Step, error) {
	return s.sessionOp(ctx, ref, "session discarded", (*session.Tracker).Discard)
}

// EndSession records the session on the project and adds its time to the
// project total.
func (s *Service) EndSession(ctx context.Context, ref string) (*Step, session.Record, error) {
	var rec session.Record
	if err := s.ready(); err != nil {
		return nil, rec, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Open(ctx, ref)
	if err != nil {
		return nil, rec, err
	}
	t, err := s.tracker(ctx, p.ID)
	if err != nil {
		return nil, rec, err
	}
	step := &Step{Project: p, Session: t}
	rec, err = t.End()
	if err != nil {
		return step, rec, err
	}
	p.AddSession(rec)
	step.Changed = true
	s.log().Info("session ended", "project", p.ID, "duration", rec.Duration, "rows", rec.RowsCompleted)

	saveErr := s.persist(ctx, p)
	if err := s.persistSession(ctx, p.ID, t); err != nil && saveErr == nil {
		saveErr = err
	}
	return step, rec, saveErr
}

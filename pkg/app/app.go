package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/pattern"
	"tableflip.dev/rowcount/pkg/project"
	"tableflip.dev/rowcount/pkg/session"
	"tableflip.dev/rowcount/pkg/store"
)

var (
	// ErrStoreUnavailable wraps a failed write after a transition. The
	// transition itself stands; Save retries the write.
	ErrStoreUnavailable = errors.New("app: store unavailable")
	ErrDuplicateTitle   = errors.New("app: a project with this title already exists")
	ErrEmptyTitle       = errors.New("app: title required")
	ErrEmptyPattern     = errors.New("app: pattern required")
	ErrAmbiguous        = errors.New("app: project reference is ambiguous")
)

// Service provides the project operations shared by the CLI, the knit UI
// and the MCP server. Transitions are serialized.
type Service struct {
	Projects *store.Projects
	Log      *slog.Logger
	// Now is the clock for sessions and creation times.
	Now func() time.Time

	mu sync.Mutex
}

// New returns a Service over kv.
func New(kv store.KV, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{Projects: &store.Projects{KV: kv, Log: log}, Log: log}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) log() *slog.Logger {
	if s.Log != nil {
		return s.Log
	}
	return slog.Default()
}

func (s *Service) ready() error {
	if s.Projects == nil || s.Projects.KV == nil {
		return errors.New("app: no store configured")
	}
	return nil
}

// CreateRequest describes a new project.
type CreateRequest struct {
	Title   string
	Pattern string
	// StartRow is the row number to begin on; zero starts at the beginning.
	StartRow int
	// Worked is time already spent before tracking began.
	Worked time.Duration
}

// Create compiles the pattern and stores a new project. Titles are unique
// ignoring case.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*project.Project, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if strings.TrimSpace(req.Pattern) == "" {
		return nil, ErrEmptyPattern
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.Projects.All(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range all {
		if strings.EqualFold(p.Title, title) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTitle, p.Title)
		}
	}

	p := project.New(title, req.Pattern, req.StartRow, req.Worked, s.now())
	if err := s.Projects.Save(ctx, p); err != nil {
		return nil, err
	}
	s.log().Info("created project", "project", p.ID, "title", p.Title,
		"instructions", len(p.Pattern.Instructions), "repeats", len(p.Pattern.Repeats))
	return p, nil
}

// List returns every project, oldest first.
func (s *Service) List(ctx context.Context) ([]*project.Project, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	all, err := s.Projects.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(all, func(i, j int) bool {
		lt, rt := all[i].Created.Time, all[j].Created.Time
		if lt.Equal(rt) {
			return all[i].Title < all[j].Title
		}
		return lt.Before(rt)
	})
	return all, nil
}

// Open finds a project by id, exact title, title ignoring case or unique id
// prefix.
func (s *Service) Open(ctx context.Context, ref string) (*project.Project, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty project reference", store.ErrNotFound)
	}
	p, err := s.Projects.Load(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	all, err := s.Projects.All(ctx)
	if err != nil {
		return nil, err
	}
	var titled, matches []*project.Project
	for _, p := range all {
		if p.Title == ref {
			return p, nil
		}
		if strings.EqualFold(p.Title, ref) {
			titled = append(titled, p)
		}
		if strings.HasPrefix(p.ID, ref) {
			matches = append(matches, p)
		}
	}
	// Stores written before titles were compared ignoring case can hold
	// "Hat" and "hat" side by side.
	switch len(titled) {
	case 0:
	case 1:
		return titled[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d titles", ErrAmbiguous, ref, len(titled))
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: project %q", store.ErrNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d projects", ErrAmbiguous, ref, len(matches))
	}
}

// Delete removes a project and its in-flight session.
func (s *Service) Delete(ctx context.Context, ref string) (*project.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.Open(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.Projects.Delete(ctx, p.ID); err != nil {
		return nil, err
	}
	s.log().Info("deleted project", "project", p.ID, "title", p.Title)
	return p, nil
}

// Save writes p, for retrying after ErrStoreUnavailable.
func (s *Service) Save(ctx context.Context, p *project.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(ctx, p)
}

func (s *Service) persist(ctx context.Context, p *project.Project) error {
	if err := s.Projects.Save(ctx, p); err != nil {
		s.log().Error("project not saved", "project", p.ID, "error", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.log().Debug("saved project", "project", p.ID, "cursor", fmt.Sprintf("%T", p.Cursor))
	return nil
}

func (s *Service) persistSession(ctx context.Context, id string, t *session.Tracker) error {
	if err := s.Projects.SaveSession(ctx, id, t); err != nil {
		s.log().Error("session not saved", "project", id, "error", err)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Step is the outcome of a transition: the updated project, its session
// and whether the cursor moved.
type Step struct {
	Project *project.Project
	Session *session.Tracker
	Changed bool
}

// View derives the navigation view of the step's project.
func (st *Step) View() cursor.View {
	return st.Project.View()
}

func (s *Service) tracker(ctx context.Context, id string) (*session.Tracker, error) {
	t, err := s.Projects.Session(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Now = s.now
	return t, nil
}

// move loads the project and its session, applies fn to the cursor and
// persists the result. delta is added to a running session's row count
// when the cursor moves. On a failed write the returned Step still holds
// the new state.
func (s *Service) move(ctx context.Context, ref, op string, delta int, fn func(pattern.Pattern, cursor.Cursor) (cursor.Cursor, bool, error)) (*Step, error) {
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

	cur := p.Cursor
	if cur == nil {
		cur = cursor.Start(p.Pattern, 0)
	}
	next, changed, err := fn(p.Pattern, cur)
	if err != nil {
		return step, err
	}
	p.Cursor = next
	step.Changed = changed
	if !changed {
		return step, nil
	}
	s.log().Debug(op, "project", p.ID, "cursor", fmt.Sprintf("%#v", next))

	saveErr := s.persist(ctx, p)
	if delta != 0 && t.Current() == session.Running {
		t.CountRow(delta)
		if err := s.persistSession(ctx, p.ID, t); err != nil && saveErr == nil {
			saveErr = err
		}
	}
	return step, saveErr
}

// Next advances one row.
func (s *Service) Next(ctx context.Context, ref string) (*Step, error) {
	return s.move(ctx, ref, "next", 1, func(p pattern.Pattern, c cursor.Cursor) (cursor.Cursor, bool, error) {
		next, changed := cursor.Advance(p, c)
		return next, changed, nil
	})
}

// Previous steps back one row.
func (s *Service) Previous(ctx context.Context, ref string) (*Step, error) {
	return s.move(ctx, ref, "previous", -1, func(p pattern.Pattern, c cursor.Cursor) (cursor.Cursor, bool, error) {
		prev, changed := cursor.Retreat(p, c)
		return prev, changed, nil
	})
}

// StartRepeat enters the repeat whose marker follows the current row.
func (s *Service) StartRepeat(ctx context.Context, ref string) (*Step, error) {
	return s.move(ctx, ref, "start repeat", 0, func(p pattern.Pattern, c cursor.Cursor) (cursor.Cursor, bool, error) {
		section, _ := cursor.NextRepeat(p, c)
		next, err := cursor.StartRepeat(p, c, section)
		return next, err == nil, err
	})
}

// RepeatAgain loops back to the start of the active repeat.
func (s *Service) RepeatAgain(ctx context.Context, ref string) (*Step, error) {
	return s.move(ctx, ref, "repeat again", 0, func(p pattern.Pattern, c cursor.Cursor) (cursor.Cursor, bool, error) {
		next, err := cursor.RepeatAgain(p, c)
		return next, err == nil, err
	})
}

// FinishRepeats leaves the active repeat.
func (s *Service) FinishRepeats(ctx context.Context, ref string) (*Step, error) {
	return s.move(ctx, ref, "finish repeats", 0, func(p pattern.Pattern, c cursor.Cursor) (cursor.Cursor, bool, error) {
		next, err := cursor.FinishRepeats(p, c)
		return next, err == nil, err
	})
}

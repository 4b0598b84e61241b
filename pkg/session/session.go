// Package session tracks one timed stretch of work on a project: start,
// pause, resume, and either end (recorded) or discard (forgotten).
package session

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidState is returned when an operation is not allowed in the
// tracker's current state.
var ErrInvalidState = errors.New("session: invalid state")

// State of a Tracker.
type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

// Record is one completed session as stored on a project.
type Record struct {
	Timestamp     time.Time
	Duration      time.Duration
	RowsCompleted int
}

// Tracker is the session state machine. The zero value is an idle tracker
// using time.Now.
type Tracker struct {
	State     State     `json:"state"`
	StartedAt time.Time `json:"startedAt,omitempty"`
	PausedAt  time.Time `json:"pausedAt,omitempty"`
	Rows      int       `json:"rowsCompleted"`

	// Now is the clock. Tests replace it.
	Now func() time.Time `json:"-"`
}

func (t *Tracker) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Tracker) state() State {
	if t.State == "" {
		return Idle
	}
	return t.State
}

func (t *Tracker) expect(op string, allowed ...State) error {
	cur := t.state()
	for _, s := range allowed {
		if cur == s {
			return nil
		}
	}
	return fmt.Errorf("%w: cannot %s while %s", ErrInvalidState, op, cur)
}

// Current returns the tracker state.
func (t *Tracker) Current() State {
	return t.state()
}

// Start begins a new session.
func (t *Tracker) Start() error {
	if err := t.expect("start", Idle); err != nil {
		return err
	}
	t.State = Running
	t.StartedAt = t.now()
	t.PausedAt = time.Time{}
	t.Rows = 0
	return nil
}

// Pause freezes the elapsed time.
func (t *Tracker) Pause() error {
	if err := t.expect("pause", Running); err != nil {
		return err
	}
	t.State = Paused
	t.PausedAt = t.now()
	return nil
}

// Resume continues a paused session. The start time is shifted forward by
// the length of the pause so that Elapsed excludes it.
func (t *Tracker) Resume() error {
	if err := t.expect("resume", Paused); err != nil {
		return err
	}
	t.StartedAt = t.StartedAt.Add(t.now().Sub(t.PausedAt))
	t.PausedAt = time.Time{}
	t.State = Running
	return nil
}

// Toggle starts an idle session, pauses a running one and resumes a paused
// one.
func (t *Tracker) Toggle() error {
	switch t.state() {
	case Idle:
		return t.Start()
	case Running:
		return t.Pause()
	default:
		return t.Resume()
	}
}

// Elapsed is the working time of the current session, zero when idle.
func (t *Tracker) Elapsed() time.Duration {
	switch t.state() {
	case Running:
		return t.now().Sub(t.StartedAt)
	case Paused:
		return t.PausedAt.Sub(t.StartedAt)
	default:
		return 0
	}
}

// End closes the session and returns its record.
func (t *Tracker) End() (Record, error) {
	if err := t.expect("end", Running, Paused); err != nil {
		return Record{}, err
	}
	rec := Record{
		Timestamp:     t.now(),
		Duration:      t.Elapsed(),
		RowsCompleted: t.Rows,
	}
	t.reset()
	return rec, nil
}

// Discard drops the session without recording anything.
func (t *Tracker) Discard() error {
	if err := t.expect("discard", Running, Paused); err != nil {
		return err
	}
	t.reset()
	return nil
}

// CountRow adjusts the in-flight row count by delta. Only a running session
// counts; the count never drops below zero.
func (t *Tracker) CountRow(delta int) {
	if t.state() != Running {
		return
	}
	t.Rows += delta
	if t.Rows < 0 {
		t.Rows = 0
	}
}

func (t *Tracker) reset() {
	t.State = Idle
	t.StartedAt = time.Time{}
	t.PausedAt = time.Time{}
	t.Rows = 0
}

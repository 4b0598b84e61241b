package session

import (
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func newTracker(c *fakeClock) *Tracker {
	return &Tracker{Now: c.Now}
}

func TestStartPauseResumeEnd(t *testing.T) {
	clock := newClock()
	tr := newTracker(clock)

	if err := tr.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(10 * time.Minute)
	tr.CountRow(1)
	tr.CountRow(1)

	if err := tr.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	clock.Advance(30 * time.Minute)
	if got := tr.Elapsed(); got != 10*time.Minute {
		t.Fatalf("elapsed frozen while paused, expected 10m got %v", got)
	}
	tr.CountRow(1)

	if err := tr.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	clock.Advance(5 * time.Minute)
	if got := tr.Elapsed(); got != 15*time.Minute {
		t.Fatalf("expected 15m excluding the pause, got %v", got)
	}

	rec, err := tr.End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if rec.Duration != 15*time.Minute || rec.RowsCompleted != 2 || !rec.Timestamp.Equal(clock.t) {
		t.Fatalf("unexpected record %+v", rec)
	}
	if tr.Current() != Idle || tr.Elapsed() != 0 {
		t.Fatalf("expected idle tracker after end, got %+v", tr)
	}
}

func TestEndWhilePaused(t *testing.T) {
	clock := newClock()
	tr := newTracker(clock)
	_ = tr.Start()
	clock.Advance(time.Minute)
	_ = tr.Pause()
	clock.Advance(time.Hour)
	rec, err := tr.End()
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if rec.Duration != time.Minute {
		t.Fatalf("expected 1m, got %v", rec.Duration)
	}
}

func TestDiscard(t *testing.T) {
	clock := newClock()
	tr := newTracker(clock)
	_ = tr.Start()
	tr.CountRow(3)
	if err := tr.Discard(); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if tr.Current() != Idle || tr.Rows != 0 {
		t.Fatalf("expected reset tracker, got %+v", tr)
	}
}

func TestCountRowClampsAtZero(t *testing.T) {
	tr := newTracker(newClock())
	_ = tr.Start()
	tr.CountRow(-1)
	if tr.Rows != 0 {
		t.Fatalf("expected clamp at zero, got %d", tr.Rows)
	}
}

func TestToggle(t *testing.T) {
	tr := newTracker(newClock())
	for _, want := range []State{Running, Paused, Running, Paused} {
		if err := tr.Toggle(); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		if tr.Current() != want {
			t.Fatalf("expected %s, got %s", want, tr.Current())
		}
	}
}

func TestInvalidStates(t *testing.T) {
	tests := []struct {
		name string
		prep func(*Tracker)
		op   func(*Tracker) error
	}{
		{"pause idle", func(*Tracker) {}, (*Tracker).Pause},
		{"resume idle", func(*Tracker) {}, (*Tracker).Resume},
		{"discard idle", func(*Tracker) {}, (*Tracker).Discard},
		{"end idle", func(*Tracker) {}, func(tr *Tracker) error { _, err := tr.End(); return err }},
		{"start running", func(tr *Tracker) { _ = tr.Start() }, (*Tracker).Start},
		{"resume running", func(tr *Tracker) { _ = tr.Start() }, (*Tracker).Resume},
		{"pause paused", func(tr *Tracker) { _ = tr.Start(); _ = tr.Pause() }, (*Tracker).Pause},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTracker(newClock())
			tt.prep(tr)
			if err := tt.op(tr); !errors.Is(err, ErrInvalidState) {
				t.Fatalf("expected ErrInvalidState, got %v", err)
			}
		})
	}
}

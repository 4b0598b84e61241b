// Package project holds the persisted knitting project: its compiled
// pattern, where the knitter is in it and how long they have worked on it.
package project

import (
	"time"

	"github.com/google/uuid"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/pattern"
	"tableflip.dev/rowcount/pkg/session"
)

// CurrentSchema is the record version written by this release. Records
// without a schema predate it and get Upgrade applied once on load.
const CurrentSchema = 2

// Project is one pattern being knitted.
type Project struct {
	ID          string
	Title       string
	PatternText string
	Pattern     pattern.Pattern

	Cursor cursor.Cursor

	TotalTime time.Duration
	Sessions  []session.Record

	Created Timestamp
	Schema  int
}

// New compiles text into a project positioned at startRow (a row number,
// zero for the natural start) with existing time already worked.
func New(title, text string, startRow int, existing time.Duration, now time.Time) *Project {
	p := pattern.Compile(text)
	if existing < 0 {
		existing = 0
	}
	return &Project{
		ID:          uuid.New().String(),
		Title:       title,
		PatternText: text,
		Pattern:     p,
		Cursor:      cursor.Start(p, startRow),
		TotalTime:   existing,
		Created:     Timestamp{Time: now},
		Schema:      CurrentSchema,
	}
}

// AddSession appends a finished session and adds its duration to the total.
func (p *Project) AddSession(rec session.Record) {
	p.Sessions = append(p.Sessions, rec)
	p.TotalTime += rec.Duration
}

// View derives the navigation view for the current cursor.
func (p *Project) View() cursor.View {
	return cursor.Inspect(p.Pattern, p.position())
}

func (p *Project) position() cursor.Cursor {
	if p.Cursor == nil {
		return cursor.Start(p.Pattern, 0)
	}
	return p.Cursor
}

// CurrentRowNumber returns the row number under the cursor, if it is on a
// numbered row.
func (p *Project) CurrentRowNumber() (int, bool) {
	row, ok := p.Pattern.Row(cursor.RowIndex(p.position()))
	if !ok {
		return 0, false
	}
	return row.Number, true
}

// Upgrade brings a record written by an older release up to CurrentSchema.
// Old records always started on the first numbered row, even when cast on
// instructions preceded it; such records move to the preamble. It reports
// whether the record changed and needs to be written back.
func (p *Project) Upgrade() bool {
	if p.Schema >= CurrentSchema {
		return false
	}
	if at, ok := p.position().(cursor.AtRow); ok && at.Index == 0 && p.Pattern.HasPreamble() {
		p.Cursor = cursor.PreStart{}
	}
	p.Schema = CurrentSchema
	return true
}

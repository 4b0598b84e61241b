package project

import (
	"encoding/json"
	"fmt"
	"time"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/pattern"
	"tableflip.dev/rowcount/pkg/session"
)

type wireSession struct {
	Timestamp     Timestamp `json:"timestamp"`
	DurationMs    *int64    `json:"durationMs,omitempty"`
	RowsCompleted int       `json:"rowsCompleted"`

	Datetime  *Timestamp `json:"datetime,omitempty"`
	TimeSpent *int64     `json:"timeSpent,omitempty"`
}

type wireProject struct {
	ID                      string                  `json:"id"`
	Title                   string                  `json:"title"`
	PatternText             string                  `json:"patternText"`
	Instructions            pattern.Instructions    `json:"instructions,omitempty"`
	RepeatSections          []pattern.RepeatSection `json:"repeatSections"`
	CurrentRowIndex         *int                    `json:"currentRowIndex,omitempty"`
	OnFinalInstructionIndex *int                    `json:"onFinalInstructionIndex"`
	ActiveRepeat            *pattern.RepeatSection  `json:"activeRepeat"`
	RepeatsCompleted        int                     `json:"repeatsCompleted"`
	TotalTime               int64                   `json:"totalTime"`
	Sessions                []wireSession           `json:"sessions"`
	Created                 Timestamp               `json:"created"`
	Schema                  int                     `json:"schema,omitempty"`

	// Field names written by the first release.
	Rows               pattern.Instructions `json:"rows,omitempty"`
	CurrentRow         *int                 `json:"currentRow,omitempty"`
	OnFinalInstruction *int                 `json:"onFinalInstruction,omitempty"`
}

func millis(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}

// MarshalJSON writes the flat cursor fields: currentRowIndex (-1 before the
// first row), onFinalInstructionIndex, activeRepeat and repeatsCompleted.
func (p *Project) MarshalJSON() ([]byte, error) {
	w := wireProject{
		ID:             p.ID,
		Title:          p.Title,
		PatternText:    p.PatternText,
		Instructions:   p.Pattern.Instructions,
		RepeatSections: p.Pattern.Repeats,
		TotalTime:      millis(p.TotalTime),
		Sessions:       make([]wireSession, 0, len(p.Sessions)),
		Created:        p.Created,
		Schema:         p.Schema,
	}
	if w.Instructions == nil {
		w.Instructions = pattern.Instructions{}
	}
	if w.RepeatSections == nil {
		w.RepeatSections = []pattern.RepeatSection{}
	}

	row := 0
	switch c := p.position().(type) {
	case cursor.PreStart:
		row = -1
	case cursor.AtRow:
		row = c.Index
	case cursor.InRepeat:
		row = c.Index
		section := c.Repeat
		w.ActiveRepeat = &section
		w.RepeatsCompleted = c.Completed
	case cursor.Final:
		row = len(p.Pattern.Rows()) - 1
		if row < 0 {
			row = 0
		}
		w.OnFinalInstructionIndex = &c.Instruction
	default:
		return nil, fmt.Errorf("project: unknown cursor %T", c)
	}
	w.CurrentRowIndex = &row

	for _, s := range p.Sessions {
		ms := millis(s.Duration)
		w.Sessions = append(w.Sessions, wireSession{
			Timestamp:     Timestamp{Time: s.Timestamp},
			DurationMs:    &ms,
			RowsCompleted: s.RowsCompleted,
		})
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads both the current shape and the first-release shape
// (rows, currentRow, onFinalInstruction, sessions with datetime and
// timeSpent).
func (p *Project) UnmarshalJSON(b []byte) error {
	var w wireProject
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}

	pat := pattern.Pattern{Instructions: w.Instructions, Repeats: w.RepeatSections}
	if len(pat.Instructions) == 0 {
		pat.Instructions = w.Rows
	}
	if len(pat.Instructions) == 0 && w.PatternText != "" {
		pat = pattern.Compile(w.PatternText)
	}

	*p = Project{
		ID:          w.ID,
		Title:       w.Title,
		PatternText: w.PatternText,
		Pattern:     pat,
		TotalTime:   time.Duration(w.TotalTime) * time.Millisecond,
		Created:     w.Created,
		Schema:      w.Schema,
	}

	row := 0
	switch {
	case w.CurrentRowIndex != nil:
		row = *w.CurrentRowIndex
	case w.CurrentRow != nil:
		row = *w.CurrentRow
	}
	final := w.OnFinalInstructionIndex
	if final == nil {
		final = w.OnFinalInstruction
	}
	switch {
	case final != nil:
		p.Cursor = cursor.Final{Instruction: *final}
	case w.ActiveRepeat != nil:
		p.Cursor = cursor.InRepeat{Index: row, Repeat: *w.ActiveRepeat, Completed: w.RepeatsCompleted}
	case row < 0:
		p.Cursor = cursor.PreStart{}
	default:
		p.Cursor = cursor.AtRow{Index: row}
	}
	p.Cursor = cursor.Clamp(pat, p.Cursor)

	for _, s := range w.Sessions {
		ts := s.Timestamp
		if ts.IsZero() && s.Datetime != nil {
			ts = *s.Datetime
		}
		ms := s.DurationMs
		if ms == nil {
			ms = s.TimeSpent
		}
		rec := session.Record{Timestamp: ts.Time, RowsCompleted: s.RowsCompleted}
		if ms != nil {
			rec.Duration = time.Duration(*ms) * time.Millisecond
		}
		p.Sessions = append(p.Sessions, rec)
	}
	return nil
}

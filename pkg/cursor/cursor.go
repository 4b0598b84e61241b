// Package cursor is the navigation state machine that walks a compiled
// pattern: it moves between numbered rows, loops through repeat sections and
// parks on the unnumbered instructions before the first row and after the
// last one.
package cursor

import (
	"errors"
	"fmt"

	"tableflip.dev/rowcount/pkg/pattern"
)

// ErrInvalidTransition is returned when a repeat transition is requested
// outside its guard condition. The cursor is left unchanged.
var ErrInvalidTransition = errors.New("cursor: invalid transition")

// Cursor is one of PreStart, AtRow, InRepeat or Final.
type Cursor interface {
	cursor()
}

// PreStart sits on the unnumbered instructions before the first row
// ("Cast on 20 stitches").
type PreStart struct{}

// AtRow sits on numbered row Index of the row view.
type AtRow struct {
	Index int
}

// InRepeat sits on numbered row Index while looping over Repeat. Completed
// counts the passes through the section already knitted.
type InRepeat struct {
	Index     int
	Repeat    pattern.RepeatSection
	Completed int
}

// Final sits on a trailing unnumbered instruction ("Cast off"). Instruction
// is an absolute index into the pattern's instructions.
type Final struct {
	Instruction int
}

func (PreStart) cursor() {}
func (AtRow) cursor()    {}
func (InRepeat) cursor() {}
func (Final) cursor()    {}

// Start returns the cursor for a freshly created project. When startRow names
// an existing row number the cursor begins there; otherwise it begins before
// the first row if anything precedes it, or on the first row.
func Start(p pattern.Pattern, startRow int) Cursor {
	if startRow > 0 {
		if idx := p.RowIndex(startRow); idx >= 0 {
			return AtRow{Index: idx}
		}
	}
	if p.HasPreamble() {
		return PreStart{}
	}
	return AtRow{Index: 0}
}

// Clamp fits a cursor read from storage onto p. A Final that does not point
// at a plain instruction falls back to the last row, and row indices outside
// the row view are pulled back inside it.
func Clamp(p pattern.Pattern, c Cursor) Cursor {
	n := len(p.Rows())
	fit := func(i int) int {
		switch {
		case i < 0:
			return 0
		case i >= n:
			return n - 1
		}
		return i
	}
	switch c := c.(type) {
	case Final:
		if c.Instruction >= 0 && c.Instruction < len(p.Instructions) && pattern.IsPlain(p.Instructions[c.Instruction]) {
			return c
		}
		if n == 0 {
			return Start(p, 0)
		}
		return AtRow{Index: n - 1}
	case AtRow:
		if n == 0 {
			return Start(p, 0)
		}
		c.Index = fit(c.Index)
		return c
	case InRepeat:
		if n == 0 {
			return Start(p, 0)
		}
		c.Index = fit(c.Index)
		return c
	case nil:
		return Start(p, 0)
	default:
		return c
	}
}

// RowIndex returns the row view position the cursor points at, or -1 when
// the cursor is on an unnumbered instruction.
func RowIndex(c Cursor) int {
	switch c := c.(type) {
	case AtRow:
		return c.Index
	case InRepeat:
		return c.Index
	default:
		return -1
	}
}

// Active returns the repeat section being looped over, if any.
func Active(c Cursor) (pattern.RepeatSection, int, bool) {
	if r, ok := c.(InRepeat); ok {
		return r.Repeat, r.Completed, true
	}
	return pattern.RepeatSection{}, 0, false
}

func invalid(op, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidTransition, op, fmt.Sprintf(format, args...))
}

func rowNumber(p pattern.Pattern, idx int) (int, bool) {
	row, ok := p.Row(idx)
	if !ok {
		return 0, false
	}
	return row.Number, true
}

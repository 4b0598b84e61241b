package cursor

import (
	"tableflip.dev/rowcount/pkg/pattern"
)

// Advance moves to the next row. At the end row of an active repeat it loops
// back to the repeat's start row; the repeat stays active until it is
// finished explicitly. changed reports whether the row position moved.
func Advance(p pattern.Pattern, c Cursor) (next Cursor, changed bool) {
	n := len(p.Rows())
	switch c := c.(type) {
	case InRepeat:
		if num, ok := rowNumber(p, c.Index); ok && num == c.Repeat.End {
			start := p.RowIndex(c.Repeat.Start)
			if start < 0 {
				return c, false
			}
			c2 := c
			c2.Index = start
			return c2, start != c.Index
		}
		if c.Index < n-1 {
			c.Index++
			return c, true
		}
		return c, false
	case PreStart:
		if n == 0 {
			return c, false
		}
		return AtRow{Index: 0}, true
	case AtRow:
		if c.Index < n-1 {
			return AtRow{Index: c.Index + 1}, true
		}
		return c, false
	default:
		return c, false
	}
}

// Retreat moves to the previous position: off the final instruction back
// into the last repeat, backwards through repeat passes, out of a repeat
// to the row before its marker, and from the first row to the preamble.
func Retreat(p pattern.Pattern, c Cursor) (prev Cursor, changed bool) {
	n := len(p.Rows())
	switch c := c.(type) {
	case Final:
		return retreatFromFinal(p, c, n), true
	case InRepeat:
		num, ok := rowNumber(p, c.Index)
		if ok && num == c.Repeat.Start {
			if c.Completed > 1 {
				end := p.RowIndex(c.Repeat.End)
				if end < 0 {
					return c, false
				}
				return InRepeat{Index: end, Repeat: c.Repeat, Completed: c.Completed - 1}, true
			}
			return exitRepeatBackward(p, c)
		}
		if c.Index > 0 {
			c.Index--
			return c, true
		}
		return c, false
	case AtRow:
		if c.Index == 0 && p.HasPreamble() {
			return PreStart{}, true
		}
		if c.Index > 0 {
			return AtRow{Index: c.Index - 1}, true
		}
		return c, false
	default:
		return c, false
	}
}

func retreatFromFinal(p pattern.Pattern, c Final, n int) Cursor {
	for i := c.Instruction - 1; i >= 0 && i < len(p.Instructions); i-- {
		m, ok := p.Instructions[i].(pattern.RepeatMarker)
		if !ok {
			continue
		}
		end := p.RowIndex(m.End)
		if end < 0 {
			break
		}
		completed := 1
		if m.Kind == pattern.Specified && m.Count > 0 {
			completed = m.Count
		}
		return InRepeat{Index: end, Repeat: m.RepeatSection, Completed: completed}
	}
	if n == 0 {
		return AtRow{Index: 0}
	}
	return AtRow{Index: n - 1}
}

// exitRepeatBackward leaves the repeat through its marker and lands on the
// closest numbered row written before the marker. Without one the move
// cannot be resolved and the cursor stays put.
func exitRepeatBackward(p pattern.Pattern, c InRepeat) (Cursor, bool) {
	marker := p.MarkerIndex(c.Repeat.Start, c.Repeat.End)
	for i := marker - 1; i >= 0; i-- {
		if pattern.IsRow(p.Instructions[i]) {
			return AtRow{Index: p.RowIndexAt(i)}, true
		}
	}
	return c, false
}

// NextRepeat returns the repeat section whose marker immediately follows the
// current row, when no repeat is active.
func NextRepeat(p pattern.Pattern, c Cursor) (pattern.RepeatSection, bool) {
	at, ok := c.(AtRow)
	if !ok {
		return pattern.RepeatSection{}, false
	}
	rows := p.Rows()
	if at.Index < 0 || at.Index >= len(rows) {
		return pattern.RepeatSection{}, false
	}
	abs := rows[at.Index] + 1
	if abs >= len(p.Instructions) {
		return pattern.RepeatSection{}, false
	}
	m, ok := p.Instructions[abs].(pattern.RepeatMarker)
	if !ok {
		return pattern.RepeatSection{}, false
	}
	return m.RepeatSection, true
}

// StartRepeat enters section, whose marker must directly follow the current
// row. The pass that led up to the marker counts as the first one.
func StartRepeat(p pattern.Pattern, c Cursor, section pattern.RepeatSection) (Cursor, error) {
	if _, _, active := Active(c); active {
		return c, invalid("start repeat", "a repeat is already active")
	}
	next, ok := NextRepeat(p, c)
	if !ok {
		return c, invalid("start repeat", "no repeat follows the current row")
	}
	if !next.Same(section) {
		return c, invalid("start repeat", "%s does not follow the current row", section)
	}
	start := p.RowIndex(next.Start)
	if start < 0 {
		return c, invalid("start repeat", "row %d does not exist", next.Start)
	}
	return InRepeat{Index: start, Repeat: next, Completed: 1}, nil
}

func atRepeatEnd(p pattern.Pattern, c Cursor) (InRepeat, bool) {
	r, ok := c.(InRepeat)
	if !ok {
		return InRepeat{}, false
	}
	num, ok := rowNumber(p, r.Index)
	return r, ok && num == r.Repeat.End
}

// RepeatAgain loops back to the start of the active repeat from its end row
// and counts another pass. The specified count is advisory and not enforced
// here; see View.CanRepeatAgain.
func RepeatAgain(p pattern.Pattern, c Cursor) (Cursor, error) {
	r, ok := atRepeatEnd(p, c)
	if !ok {
		return c, invalid("repeat again", "not at the end row of an active repeat")
	}
	start := p.RowIndex(r.Repeat.Start)
	if start < 0 {
		return c, invalid("repeat again", "row %d does not exist", r.Repeat.Start)
	}
	return InRepeat{Index: start, Repeat: r.Repeat, Completed: r.Completed + 1}, nil
}

// FinishRepeats leaves the active repeat from its end row and moves to
// whatever follows the repeat marker: the next repeat (entered with no
// passes counted), the next numbered row, or the first trailing unnumbered
// instruction. A following repeat whose start row does not exist leaves the
// cursor on the end row, outside any repeat.
func FinishRepeats(p pattern.Pattern, c Cursor) (Cursor, error) {
	r, ok := atRepeatEnd(p, c)
	if !ok {
		return c, invalid("finish repeats", "not at the end row of an active repeat")
	}
	stay := AtRow{Index: r.Index}
	marker := p.MarkerIndex(r.Repeat.Start, r.Repeat.End)
	if marker < 0 {
		return stay, nil
	}
	for i := marker + 1; i < len(p.Instructions); i++ {
		switch in := p.Instructions[i].(type) {
		case pattern.RepeatMarker:
			start := p.RowIndex(in.Start)
			if start < 0 {
				return stay, nil
			}
			return InRepeat{Index: start, Repeat: in.RepeatSection, Completed: 0}, nil
		case pattern.NumberedRow:
			return AtRow{Index: p.RowIndexAt(i)}, nil
		}
	}
	for i := marker + 1; i < len(p.Instructions); i++ {
		if pattern.IsPlain(p.Instructions[i]) {
			return Final{Instruction: i}, nil
		}
	}
	return stay, nil
}

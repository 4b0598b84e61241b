package cursor

import "tableflip.dev/rowcount/pkg/pattern"

// View is what a front end needs to render a cursor position and decide
// which repeat actions to offer.
type View struct {
	// Current is the absolute index of the highlighted instruction, or -1.
	Current int
	// Visible lists the absolute indices worth showing: only the repeat
	// range while a repeat is active, only the final instruction when
	// parked on it, everything otherwise.
	Visible []int

	NextRepeat     *pattern.RepeatSection
	Active         *pattern.RepeatSection
	Completed      int
	AtRepeatEnd    bool
	CanRepeatAgain bool
	MustFinish     bool
	IsLastRow      bool
	// Done is set on the final instruction, or on the last row when nothing
	// is left to repeat.
	Done bool
}

// Inspect derives the View for c.
func Inspect(p pattern.Pattern, c Cursor) View {
	rows := p.Rows()
	v := View{Current: -1}

	switch c := c.(type) {
	case PreStart:
		if len(p.Instructions) > 0 {
			v.Current = 0
		}
	case AtRow:
		if c.Index >= 0 && c.Index < len(rows) {
			v.Current = rows[c.Index]
		}
		v.IsLastRow = c.Index == len(rows)-1
	case InRepeat:
		if c.Index >= 0 && c.Index < len(rows) {
			v.Current = rows[c.Index]
		}
		v.IsLastRow = c.Index == len(rows)-1
		section := c.Repeat
		v.Active = &section
		v.Completed = c.Completed
		if num, ok := rowNumber(p, c.Index); ok && num == section.End {
			v.AtRepeatEnd = true
			v.CanRepeatAgain = section.Kind == pattern.UserDecided ||
				(section.Kind == pattern.Specified && c.Completed+1 < section.Count)
			v.MustFinish = !v.CanRepeatAgain
		}
	case Final:
		if c.Instruction >= 0 && c.Instruction < len(p.Instructions) {
			v.Current = c.Instruction
		}
		v.Done = true
	}

	if next, ok := NextRepeat(p, c); ok {
		v.NextRepeat = &next
	}
	if v.IsLastRow && v.Active == nil && v.NextRepeat == nil {
		v.Done = true
	}

	switch {
	case v.Active != nil:
		for _, abs := range rows {
			row := p.Instructions[abs].(pattern.NumberedRow)
			if row.Number >= v.Active.Start && row.Number <= v.Active.End {
				v.Visible = append(v.Visible, abs)
			}
		}
	case v.Done && v.Current >= 0 && !pattern.IsRow(p.Instructions[v.Current]):
		v.Visible = []int{v.Current}
	default:
		for i := range p.Instructions {
			v.Visible = append(v.Visible, i)
		}
	}
	return v
}

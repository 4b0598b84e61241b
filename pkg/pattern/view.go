package pattern

// Rows returns the absolute indices of the numbered rows, in order. This is
// the row view that cursor row indices point into.
func (p Pattern) Rows() []int {
	rows := make([]int, 0, len(p.Instructions))
	for i, in := range p.Instructions {
		if IsRow(in) {
			rows = append(rows, i)
		}
	}
	return rows
}

// Row returns the numbered row at position i of the row view.
func (p Pattern) Row(i int) (NumberedRow, bool) {
	rows := p.Rows()
	if i < 0 || i >= len(rows) {
		return NumberedRow{}, false
	}
	return p.Instructions[rows[i]].(NumberedRow), true
}

// RowIndex returns the row view position of the first row numbered n, or -1.
func (p Pattern) RowIndex(n int) int {
	pos := 0
	for _, in := range p.Instructions {
		if r, ok := in.(NumberedRow); ok {
			if r.Number == n {
				return pos
			}
			pos++
		}
	}
	return -1
}

// RowIndexAt converts an absolute instruction index holding a numbered row
// into its row view position, or -1.
func (p Pattern) RowIndexAt(abs int) int {
	if abs < 0 || abs >= len(p.Instructions) || !IsRow(p.Instructions[abs]) {
		return -1
	}
	pos := 0
	for i := 0; i < abs; i++ {
		if IsRow(p.Instructions[i]) {
			pos++
		}
	}
	return pos
}

// FirstRow returns the absolute index of the first numbered row, or -1.
func (p Pattern) FirstRow() int {
	for i, in := range p.Instructions {
		if IsRow(in) {
			return i
		}
	}
	return -1
}

// HasPreamble reports whether numbered rows exist and something precedes
// the first of them, which is what allows the cursor to sit before row one.
func (p Pattern) HasPreamble() bool {
	return p.FirstRow() > 0
}

// MarkerIndex returns the absolute index of the first repeat marker looping
// over start..end, or -1.
func (p Pattern) MarkerIndex(start, end int) int {
	for i, in := range p.Instructions {
		if m, ok := in.(RepeatMarker); ok && m.Start == start && m.End == end {
			return i
		}
	}
	return -1
}

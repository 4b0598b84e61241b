// Package pattern turns free-form knitting pattern text into an addressable
// sequence of instructions and the repeat sections that loop over them.
package pattern

import "fmt"

// RepeatKind says who decides how many times a repeat section runs.
type RepeatKind string

const (
	// UserDecided repeats run until the knitter chooses to stop
	// ("repeat rows 1 to 4 until piece measures 20cm").
	UserDecided RepeatKind = "user-decided"
	// Specified repeats name a count ("repeat rows 1 to 4 three times").
	Specified RepeatKind = "specified"
)

// RepeatSection is a loop descriptor discovered from a
// "repeat rows X to Y ..." line.
type RepeatSection struct {
	Start      int
	End        int
	Text       string
	SourceLine int
	Kind       RepeatKind
	// Count is only meaningful when Kind is Specified.
	Count int
}

// Same reports whether both sections loop over the same row range.
func (r RepeatSection) Same(o RepeatSection) bool {
	return r.Start == o.Start && r.End == o.End
}

func (r RepeatSection) String() string {
	if r.Kind == Specified {
		return fmt.Sprintf("rows %d-%d x%d", r.Start, r.End, r.Count)
	}
	return fmt.Sprintf("rows %d-%d", r.Start, r.End)
}

// Instruction is one physical step of a compiled pattern. It is one of
// NumberedRow, RepeatMarker or PlainInstruction.
type Instruction interface {
	// Source is the index of the non-blank source line that produced it.
	Source() int
	// String is the display text.
	String() string

	instruction()
}

// NumberedRow is a knitting row with a row number.
type NumberedRow struct {
	Number     int
	Text       string
	SourceLine int
}

// RepeatMarker stands in the sequence where a repeat directive was written.
type RepeatMarker struct {
	RepeatSection
}

// PlainInstruction is any line without a row number, such as "Cast on 20".
type PlainInstruction struct {
	Text       string
	SourceLine int
}

func (r NumberedRow) Source() int    { return r.SourceLine }
func (r NumberedRow) String() string { return r.Text }

func (r RepeatMarker) Source() int    { return r.SourceLine }
func (r RepeatMarker) String() string { return r.Text }

func (p PlainInstruction) Source() int    { return p.SourceLine }
func (p PlainInstruction) String() string { return p.Text }

func (NumberedRow) instruction()      {}
func (RepeatMarker) instruction()     {}
func (PlainInstruction) instruction() {}

// IsRow reports whether in is a NumberedRow.
func IsRow(in Instruction) bool {
	_, ok := in.(NumberedRow)
	return ok
}

// IsMarker reports whether in is a RepeatMarker.
func IsMarker(in Instruction) bool {
	_, ok := in.(RepeatMarker)
	return ok
}

// IsPlain reports whether in is a PlainInstruction.
func IsPlain(in Instruction) bool {
	_, ok := in.(PlainInstruction)
	return ok
}

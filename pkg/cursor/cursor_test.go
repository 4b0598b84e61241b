package cursor

import (
	"errors"
	"reflect"
	"testing"

	"tableflip.dev/rowcount/pkg/pattern"
)

const scenario = "Cast on 10\nRow 1: knit\nRow 2: purl\nRepeat rows 1 to 2 three times\nCast off"

func mustAdvance(t *testing.T, p pattern.Pattern, c Cursor) Cursor {
	t.Helper()
	next, changed := Advance(p, c)
	if !changed {
		t.Fatalf("expected advance from %#v to move", c)
	}
	return next
}

func TestScenario(t *testing.T) {
	p := pattern.Compile(scenario)

	c := Start(p, 0)
	if _, ok := c.(PreStart); !ok {
		t.Fatalf("expected PreStart, got %#v", c)
	}
	c = mustAdvance(t, p, c)
	if RowIndex(c) != 0 {
		t.Fatalf("expected row 0, got %#v", c)
	}
	c = mustAdvance(t, p, c)
	if RowIndex(c) != 1 {
		t.Fatalf("expected row 1, got %#v", c)
	}

	section, ok := NextRepeat(p, c)
	if !ok {
		t.Fatalf("expected a repeat after row 2")
	}
	c, err := StartRepeat(p, c, section)
	if err != nil {
		t.Fatalf("start repeat: %v", err)
	}
	want := InRepeat{Index: 0, Repeat: p.Repeats[0], Completed: 1}
	if !reflect.DeepEqual(c, want) {
		t.Fatalf("expected %#v, got %#v", want, c)
	}

	for i := 0; i < 2; i++ {
		c = mustAdvance(t, p, c)
		if c, err = RepeatAgain(p, c); err != nil {
			t.Fatalf("repeat again: %v", err)
		}
	}
	c = mustAdvance(t, p, c)
	r := c.(InRepeat)
	if r.Completed != 3 || r.Index != 1 {
		t.Fatalf("expected three passes at row index 1, got %#v", r)
	}

	c, err = FinishRepeats(p, c)
	if err != nil {
		t.Fatalf("finish repeats: %v", err)
	}
	if !reflect.DeepEqual(c, Final{Instruction: 4}) {
		t.Fatalf("expected Final on cast off, got %#v", c)
	}
	if v := Inspect(p, c); !v.Done || v.Current != 4 || !reflect.DeepEqual(v.Visible, []int{4}) {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestAdvanceRetreatRoundTrip(t *testing.T) {
	p := pattern.Compile("Cast on\nRows 1-5: knit\nCast off")
	for i := 0; i < 4; i++ {
		c := Cursor(AtRow{Index: i})
		next, changed := Advance(p, c)
		if !changed {
			t.Fatalf("row %d: expected advance", i)
		}
		back, changed := Retreat(p, next)
		if !changed {
			t.Fatalf("row %d: expected retreat", i)
		}
		if !reflect.DeepEqual(back, c) {
			t.Fatalf("row %d: expected %#v, got %#v", i, c, back)
		}
	}
}

func TestBoundaries(t *testing.T) {
	p := pattern.Compile("Cast on\nRow 1: knit\nRow 2: purl")
	if c, changed := Retreat(p, PreStart{}); changed || c != (PreStart{}) {
		t.Fatalf("retreat from PreStart must be a no-op, got %#v", c)
	}
	if c, changed := Advance(p, AtRow{Index: 1}); changed || c != (AtRow{Index: 1}) {
		t.Fatalf("advance past last row must be a no-op, got %#v", c)
	}
	if c, changed := Retreat(p, AtRow{Index: 0}); !changed || c != (PreStart{}) {
		t.Fatalf("expected retreat to PreStart, got %#v", c)
	}

	bare := pattern.Compile("Row 1: knit\nRow 2: purl")
	if c := Start(bare, 0); c != (AtRow{Index: 0}) {
		t.Fatalf("expected start on first row, got %#v", c)
	}
	if c, changed := Retreat(bare, AtRow{Index: 0}); changed || c != (AtRow{Index: 0}) {
		t.Fatalf("retreat from first row without preamble must be a no-op, got %#v", c)
	}
	if c := Start(bare, 2); c != (AtRow{Index: 1}) {
		t.Fatalf("expected start on row 2, got %#v", c)
	}
}

func TestRepeatLoopsOnAdvance(t *testing.T) {
	p := pattern.Compile("Row 1: a\nRow 2: b\nRow 3: c\nRepeat rows 2 to 3 until long enough\nRow 4: d")
	c, err := StartRepeat(p, AtRow{Index: 2}, p.Repeats[0])
	if err != nil {
		t.Fatalf("start repeat: %v", err)
	}
	if RowIndex(c) != 1 {
		t.Fatalf("expected start at row 2 (index 1), got %#v", c)
	}
	c = mustAdvance(t, p, c)
	c = mustAdvance(t, p, c)
	r := c.(InRepeat)
	if r.Index != 1 || r.Completed != 1 {
		t.Fatalf("expected loop back to index 1 with pass count untouched, got %#v", r)
	}

	c = mustAdvance(t, p, c)
	v := Inspect(p, c)
	if !v.AtRepeatEnd || !v.CanRepeatAgain || v.MustFinish {
		t.Fatalf("user decided repeat should allow repeating, got %+v", v)
	}
	if !reflect.DeepEqual(v.Visible, []int{1, 2}) {
		t.Fatalf("expected repeat rows visible, got %v", v.Visible)
	}
	c, err = FinishRepeats(p, c)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if c != (AtRow{Index: 3}) {
		t.Fatalf("expected row 4, got %#v", c)
	}
}

func TestFinishEntersFollowingRepeat(t *testing.T) {
	p := pattern.Compile("Row 1: a\nRow 2: b\nRepeat rows 1 to 2 twice\nRepeat rows 2 to 2 3 times\nCast off")
	c := Cursor(InRepeat{Index: 1, Repeat: p.Repeats[0], Completed: 2})
	c, err := FinishRepeats(p, c)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	want := InRepeat{Index: 1, Repeat: p.Repeats[1], Completed: 0}
	if !reflect.DeepEqual(c, want) {
		t.Fatalf("expected %#v, got %#v", want, c)
	}
	v := Inspect(p, c)
	if !v.AtRepeatEnd || !v.CanRepeatAgain {
		t.Fatalf("expected to be able to repeat again, got %+v", v)
	}
	c, _ = RepeatAgain(p, c)
	c, _ = RepeatAgain(p, c)
	if v := Inspect(p, c); !v.MustFinish || v.CanRepeatAgain {
		t.Fatalf("expected the count to be exhausted, got %+v", v)
	}
}

func TestFinishStopsAtUnknownRepeat(t *testing.T) {
	p := pattern.Compile("Row 1: a\nRow 2: b\nRepeat rows 1 to 2 twice\nRepeat rows 7 to 8 twice\nRow 3: c")
	c := Cursor(InRepeat{Index: 1, Repeat: p.Repeats[0], Completed: 2})
	c, err := FinishRepeats(p, c)
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if c != (AtRow{Index: 1}) {
		t.Fatalf("expected to stay on row 2, got %#v", c)
	}
}

func TestRetreatThroughRepeat(t *testing.T) {
	p := pattern.Compile(scenario)
	section := p.Repeats[0]

	c := Cursor(InRepeat{Index: 0, Repeat: section, Completed: 2})
	c, changed := Retreat(p, c)
	if !changed || !reflect.DeepEqual(c, InRepeat{Index: 1, Repeat: section, Completed: 1}) {
		t.Fatalf("expected backward loop to the end row, got %#v", c)
	}
	c, _ = Retreat(p, c)
	if !reflect.DeepEqual(c, InRepeat{Index: 0, Repeat: section, Completed: 1}) {
		t.Fatalf("expected to step back within the repeat, got %#v", c)
	}
	c, changed = Retreat(p, c)
	if !changed || c != (AtRow{Index: 1}) {
		t.Fatalf("expected to exit onto row 2, got %#v", c)
	}
}

func TestRetreatExitWithoutPrecedingRowIsNoop(t *testing.T) {
	p := pattern.Compile("Repeat rows 1 to 2 twice\nRow 1: a\nRow 2: b")
	c := Cursor(InRepeat{Index: 0, Repeat: p.Repeats[0], Completed: 1})
	next, changed := Retreat(p, c)
	if changed || !reflect.DeepEqual(next, c) {
		t.Fatalf("expected no-op, got %#v", next)
	}
}

func TestRetreatFromFinal(t *testing.T) {
	p := pattern.Compile(scenario)
	c, changed := Retreat(p, Final{Instruction: 4})
	want := InRepeat{Index: 1, Repeat: p.Repeats[0], Completed: 3}
	if !changed || !reflect.DeepEqual(c, want) {
		t.Fatalf("expected %#v, got %#v", want, c)
	}

	plain := pattern.Compile("Row 1: a\nRow 2: b\nCast off")
	c, _ = Retreat(plain, Final{Instruction: 2})
	if c != (AtRow{Index: 1}) {
		t.Fatalf("expected last row, got %#v", c)
	}

	open := pattern.Compile("Row 1: a\nRepeat rows 1 to 1 until done\nCast off")
	c, _ = Retreat(open, Final{Instruction: 2})
	if r := c.(InRepeat); r.Completed != 1 {
		t.Fatalf("user decided repeat should restore one pass, got %#v", r)
	}
}

func TestGuards(t *testing.T) {
	p := pattern.Compile(scenario)
	section := p.Repeats[0]

	if _, err := StartRepeat(p, AtRow{Index: 0}, section); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition without following marker, got %v", err)
	}
	if _, err := StartRepeat(p, InRepeat{Index: 1, Repeat: section, Completed: 1}, section); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition with active repeat, got %v", err)
	}
	if _, err := StartRepeat(p, PreStart{}, section); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from PreStart, got %v", err)
	}
	other := pattern.RepeatSection{Start: 7, End: 9}
	if _, err := StartRepeat(p, AtRow{Index: 1}, other); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition for mismatched section, got %v", err)
	}
	if _, err := RepeatAgain(p, AtRow{Index: 1}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition without repeat, got %v", err)
	}
	mid := InRepeat{Index: 0, Repeat: section, Completed: 1}
	if _, err := RepeatAgain(p, mid); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition away from end row, got %v", err)
	}
	if _, err := FinishRepeats(p, mid); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected invalid transition away from end row, got %v", err)
	}
	if c, err := FinishRepeats(p, mid); err == nil || c != Cursor(mid) {
		t.Fatalf("expected cursor unchanged on error, got %#v", c)
	}
}

func TestInspectDone(t *testing.T) {
	p := pattern.Compile("Row 1: a\nRow 2: b")
	if v := Inspect(p, AtRow{Index: 1}); !v.Done || !v.IsLastRow {
		t.Fatalf("expected last row to be done, got %+v", v)
	}
	q := pattern.Compile(scenario)
	v := Inspect(q, AtRow{Index: 1})
	if v.Done || v.NextRepeat == nil || v.NextRepeat.Count != 3 {
		t.Fatalf("expected a pending repeat, got %+v", v)
	}
	if v := Inspect(q, PreStart{}); v.Current != 0 || len(v.Visible) != 5 {
		t.Fatalf("unexpected pre start view %+v", v)
	}
}

func TestInspectFinalOutOfRange(t *testing.T) {
	p := pattern.Compile("Row 1: k\nCast off")
	v := Inspect(p, Final{Instruction: 7})
	if v.Current != -1 || !v.Done {
		t.Fatalf("expected no highlighted instruction, got %+v", v)
	}
}

func TestClamp(t *testing.T) {
	p := pattern.Compile("Cast on 4\nRow 1: k\nRow 2: p\nRepeat rows 1 to 2 twice\nCast off")
	section := p.Repeats[0]
	tests := []struct {
		name string
		in   Cursor
		want Cursor
	}{
		{"final kept", Final{Instruction: 4}, Final{Instruction: 4}},
		{"final past end", Final{Instruction: 7}, AtRow{Index: 1}},
		{"final on a row", Final{Instruction: 1}, AtRow{Index: 1}},
		{"final on a marker", Final{Instruction: 3}, AtRow{Index: 1}},
		{"final negative", Final{Instruction: -2}, AtRow{Index: 1}},
		{"row kept", AtRow{Index: 1}, AtRow{Index: 1}},
		{"row past end", AtRow{Index: 9}, AtRow{Index: 1}},
		{"row negative", AtRow{Index: -3}, AtRow{Index: 0}},
		{"repeat past end", InRepeat{Index: 5, Repeat: section, Completed: 2}, InRepeat{Index: 1, Repeat: section, Completed: 2}},
		{"prestart kept", PreStart{}, PreStart{}},
		{"nil", nil, PreStart{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(p, tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("expected %#v, got %#v", tt.want, got)
			}
		})
	}

	empty := pattern.Compile("Cast on 4\nCast off")
	if got := Clamp(empty, Final{Instruction: 9}); got != (AtRow{Index: 0}) {
		t.Fatalf("expected natural start without rows, got %#v", got)
	}
}

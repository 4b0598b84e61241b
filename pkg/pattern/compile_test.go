package pattern

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"testing"
	"time"
)

func TestCompileRangeExpands(t *testing.T) {
	p := Compile("Rows 1-3 (edge): knit")
	if len(p.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(p.Instructions))
	}
	for i, in := range p.Instructions {
		row, ok := in.(NumberedRow)
		if !ok {
			t.Fatalf("instruction %d: expected NumberedRow, got %T", i, in)
		}
		if row.Number != i+1 {
			t.Fatalf("instruction %d: expected number %d, got %d", i, i+1, row.Number)
		}
		if row.SourceLine != 0 {
			t.Fatalf("instruction %d: expected source line 0, got %d", i, row.SourceLine)
		}
	}
	want := []string{"Row 1: knit", "Row 2: knit", "Row 3: knit"}
	for i, w := range want {
		if got := p.Instructions[i].String(); got != w {
			t.Fatalf("instruction %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestCompileSingleRowKeepsLine(t *testing.T) {
	p := Compile("  row 7: K2tog to end")
	row, ok := p.Instructions[0].(NumberedRow)
	if !ok {
		t.Fatalf("expected NumberedRow, got %T", p.Instructions[0])
	}
	if row.Number != 7 || row.Text != "  row 7: K2tog to end" {
		t.Fatalf("unexpected row %+v", row)
	}
}

func TestCompileRepeatClassification(t *testing.T) {
	tests := []struct {
		line  string
		start int
		end   int
		kind  RepeatKind
		count int
	}{
		{"Repeat rows 2 to 4 four times", 2, 4, Specified, 4},
		{"Repeat rows 2 to 4 until desired length", 2, 4, UserDecided, 0},
		{"Repeat rows 2-4 to complete pattern", 2, 4, Specified, 1},
		{"repeat row 1-2 12 times", 1, 2, Specified, 12},
		{"Repeat rows 5 to 8", 5, 8, UserDecided, 0},
		{"Repeat rows 5 to 8 many times", 5, 8, UserDecided, 0},
		{"Repeat rows 1 to 6 TEN TIMES", 1, 6, Specified, 10},
		{"Repeat rows 3 8 once more", 3, 8, UserDecided, 0},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			p := Compile(tt.line)
			if len(p.Repeats) != 1 {
				t.Fatalf("expected one repeat section, got %d", len(p.Repeats))
			}
			got := p.Repeats[0]
			if got.Start != tt.start || got.End != tt.end || got.Kind != tt.kind || got.Count != tt.count {
				t.Fatalf("unexpected section %+v", got)
			}
			marker, ok := p.Instructions[0].(RepeatMarker)
			if !ok {
				t.Fatalf("expected RepeatMarker, got %T", p.Instructions[0])
			}
			if marker.RepeatSection != got {
				t.Fatalf("marker %+v does not match section %+v", marker.RepeatSection, got)
			}
		})
	}
}

func TestCompileFallbackAndBlankLines(t *testing.T) {
	p := Compile("Cast on 10\n\n   \nRow 1: knit\r\nCast off")
	if len(p.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(p.Instructions))
	}
	if _, ok := p.Instructions[0].(PlainInstruction); !ok {
		t.Fatalf("expected PlainInstruction first, got %T", p.Instructions[0])
	}
	if got := p.Instructions[1].Source(); got != 1 {
		t.Fatalf("blank lines must not count, expected source 1 got %d", got)
	}
	if got := p.Instructions[1].String(); got != "Row 1: knit" {
		t.Fatalf("expected carriage return trimmed, got %q", got)
	}
	if got := p.Instructions[2].String(); got != "Cast off" {
		t.Fatalf("unexpected final text %q", got)
	}
}

func TestCompileRangeAtIntLimit(t *testing.T) {
	done := make(chan Pattern, 1)
	go func() {
		done <- Compile(fmt.Sprintf("Rows %d-%d: knit", math.MaxInt-1, math.MaxInt))
	}()
	select {
	case p := <-done:
		if len(p.Instructions) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(p.Instructions))
		}
		if row := p.Instructions[1].(NumberedRow); row.Number != math.MaxInt {
			t.Fatalf("expected last row %d, got %d", math.MaxInt, row.Number)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("compile did not return")
	}
}

func TestCompileOversizedRangeStaysPlain(t *testing.T) {
	line := fmt.Sprintf("Rows 1-%d: knit", MaxRangeRows+1)
	p := Compile(line)
	if len(p.Instructions) != 1 {
		t.Fatalf("expected 1 instruction, got %d", len(p.Instructions))
	}
	if in, ok := p.Instructions[0].(PlainInstruction); !ok || in.Text != line {
		t.Fatalf("expected plain %q, got %#v", line, p.Instructions[0])
	}

	p = Compile(fmt.Sprintf("Rows 1-%d: knit", MaxRangeRows))
	if len(p.Instructions) != MaxRangeRows {
		t.Fatalf("expected %d rows at the limit, got %d", MaxRangeRows, len(p.Instructions))
	}
}

func TestCompileScenario(t *testing.T) {
	p := Compile("Cast on 10\nRow 1: knit\nRow 2: purl\nRepeat rows 1 to 2 three times\nCast off")
	kinds := []string{}
	for _, in := range p.Instructions {
		kinds = append(kinds, reflect.TypeOf(in).Name())
	}
	want := []string{"PlainInstruction", "NumberedRow", "NumberedRow", "RepeatMarker", "PlainInstruction"}
	if !reflect.DeepEqual(kinds, want) {
		t.Fatalf("expected %v, got %v", want, kinds)
	}
	m := p.Instructions[3].(RepeatMarker)
	if m.Start != 1 || m.End != 2 || m.Kind != Specified || m.Count != 3 {
		t.Fatalf("unexpected marker %+v", m)
	}
	if !p.HasPreamble() {
		t.Fatalf("expected preamble before first row")
	}
	if got := p.Rows(); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Fatalf("unexpected row view %v", got)
	}
	if got := p.MarkerIndex(1, 2); got != 3 {
		t.Fatalf("expected marker at 3, got %d", got)
	}
	if got := p.RowIndexAt(2); got != 1 {
		t.Fatalf("expected row view position 1, got %d", got)
	}
}

func TestCompileDeterministic(t *testing.T) {
	text := "Cast on\nRows 1-4: k1 p1\nRepeat rows 1 to 4 twice\nRow 5: bind\nno idea what this is"
	a, b := Compile(text), Compile(text)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("compile is not deterministic")
	}
}

func TestInstructionsJSON(t *testing.T) {
	p := Compile("Cast on 10\nRow 1: knit\nRepeat rows 1 to 1 until done\nCast off")
	b, err := json.Marshal(p.Instructions)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Instructions
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, p.Instructions) {
		t.Fatalf("expected %#v, got %#v", p.Instructions, back)
	}
}

func TestInstructionsLegacyJSON(t *testing.T) {
	legacy := `[
		{"number": null, "text": "Cast on", "originalIndex": 0, "isRepeatInstruction": false},
		{"number": 1, "text": "Row 1: knit", "originalIndex": 1, "isRepeatInstruction": false},
		{"number": null, "text": "Repeat rows 1 to 1 two times", "originalIndex": 2, "isRepeatInstruction": true,
		 "repeatStart": 1, "repeatEnd": 1, "repeatType": "specified", "specifiedRepeats": 2}
	]`
	var in Instructions
	if err := json.Unmarshal([]byte(legacy), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(in) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(in))
	}
	m, ok := in[2].(RepeatMarker)
	if !ok {
		t.Fatalf("expected marker, got %T", in[2])
	}
	if m.Kind != Specified || m.Count != 2 || m.SourceLine != 2 {
		t.Fatalf("unexpected marker %+v", m)
	}
	if r := in[1].(NumberedRow); r.Number != 1 || r.SourceLine != 1 {
		t.Fatalf("unexpected row %+v", r)
	}
}

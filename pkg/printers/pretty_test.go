package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/rowcount/pkg/cursor"
	"tableflip.dev/rowcount/pkg/project"
)

const knitting = "Cast on 10\nRow 1: knit\nRow 2: purl\nRepeat rows 1 to 2 three times\nCast off"

func init() {
	color.NoColor = true
}

func TestPosition(t *testing.T) {
	p := project.New("Scarf", knitting, 0, 0, time.Now())
	if got := Position(p); got != "getting started" {
		t.Fatalf("unexpected %q", got)
	}
	p.Cursor = cursor.AtRow{Index: 1}
	if got := Position(p); got != "row 2" {
		t.Fatalf("unexpected %q", got)
	}
	p.Cursor = cursor.Final{Instruction: 4}
	if got := Position(p); got != "finishing: Cast off" {
		t.Fatalf("unexpected %q", got)
	}
}

func TestHintAndProgress(t *testing.T) {
	p := project.New("Scarf", knitting, 2, 0, time.Now())
	if got := Hint(p.View()); got != "start repeat rows 1-2 x3" {
		t.Fatalf("unexpected hint %q", got)
	}
	p.Cursor = cursor.InRepeat{Index: 1, Repeat: p.Pattern.Repeats[0], Completed: 2}
	v := p.View()
	if got := RepeatProgress(v); got != "rows 1-2, pass 3 of 3" {
		t.Fatalf("unexpected progress %q", got)
	}
	if got := Hint(v); got != "finish repeats" {
		t.Fatalf("unexpected hint %q", got)
	}
}

func TestInstructionsHighlightsCurrent(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out}
	p := project.New("Scarf", knitting, 1, 0, time.Now())
	pp.Instructions(p)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %q", out.String())
	}
	if !strings.HasPrefix(lines[1], " ▶  Row 1: knit") {
		t.Fatalf("expected row 1 highlighted, got %q", lines[1])
	}
}

func TestProjectsTable(t *testing.T) {
	var out bytes.Buffer
	pp := &PrettyPrint{Out: &out}
	p := project.New("Scarf", knitting, 0, 90*time.Minute, time.Now())
	pp.Projects([]*project.Project{p})
	if !strings.Contains(out.String(), "Scarf") || !strings.Contains(out.String(), "1h 30m 0s") {
		t.Fatalf("unexpected table %q", out.String())
	}
}

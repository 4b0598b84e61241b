package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	rangePattern  = regexp.MustCompile(`(?i)Rows?\s+(\d+)\s*-\s*(\d+)\s*(?:\([^)]+\))?\s*:\s*(.+)`)
	rowPattern    = regexp.MustCompile(`(?i)Row\s+(\d+):\s*(.+)`)
	repeatPattern = regexp.MustCompile(`(?i)repeat\s+rows?\s+(\d+)\s*-?\s*(?:to\s+)?(\d+)(?:\s+(.*?))?$`)
	timesPattern  = regexp.MustCompile(`(?i)(\w+)\s+times?`)

	numberWords = map[string]int{
		"one":   1,
		"two":   2,
		"three": 3,
		"four":  4,
		"five":  5,
		"six":   6,
		"seven": 7,
		"eight": 8,
		"nine":  9,
		"ten":   10,
	}
)

// MaxRangeRows bounds how many rows a single "Rows a-b" line expands to.
// Wider ranges are kept as plain instructions.
const MaxRangeRows = 10000

// Pattern is the compiled form of a pattern text.
type Pattern struct {
	Instructions Instructions
	Repeats      []RepeatSection
}

// Compile turns pattern text into instructions and repeat sections. It never
// fails: lines that match no known shape become PlainInstructions.
func Compile(text string) Pattern {
	var p Pattern
	for idx, line := range nonBlankLines(text) {
		switch {
		case compileRange(&p, idx, line):
		case compileRow(&p, idx, line):
		case compileRepeat(&p, idx, line):
		default:
			p.Instructions = append(p.Instructions, PlainInstruction{Text: line, SourceLine: idx})
		}
	}
	return p
}

// nonBlankLines splits on newlines and drops lines that are empty once
// trimmed. Source line indices count only the lines that remain.
func nonBlankLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func compileRange(p *Pattern, idx int, line string) bool {
	m := rangePattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return false
	}
	if end >= start && end-start >= MaxRangeRows {
		return false
	}
	for n := start; n <= end; n++ {
		p.Instructions = append(p.Instructions, NumberedRow{
			Number:     n,
			Text:       fmt.Sprintf("Row %d: %s", n, m[3]),
			SourceLine: idx,
		})
		if n == end {
			break
		}
	}
	return true
}

func compileRow(p *Pattern, idx int, line string) bool {
	m := rowPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return false
	}
	p.Instructions = append(p.Instructions, NumberedRow{Number: n, Text: line, SourceLine: idx})
	return true
}

func compileRepeat(p *Pattern, idx int, line string) bool {
	m := repeatPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	start, err1 := strconv.Atoi(m[1])
	end, err2 := strconv.Atoi(m[2])
	if err1 != nil || err2 != nil {
		return false
	}
	kind, count := classifyRepeat(m[3])
	section := RepeatSection{
		Start:      start,
		End:        end,
		Text:       line,
		SourceLine: idx,
		Kind:       kind,
		Count:      count,
	}
	p.Repeats = append(p.Repeats, section)
	p.Instructions = append(p.Instructions, RepeatMarker{RepeatSection: section})
	return true
}

// classifyRepeat reads the words after "repeat rows A to B".
func classifyRepeat(rest string) (RepeatKind, int) {
	lower := strings.ToLower(rest)
	switch {
	case strings.Contains(lower, "to complete"):
		return Specified, 1
	case strings.Contains(lower, "until"):
		return UserDecided, 0
	}
	m := timesPattern.FindStringSubmatch(lower)
	if m == nil {
		return UserDecided, 0
	}
	if n, ok := numberWords[m[1]]; ok {
		return Specified, n
	}
	if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
		return Specified, n
	}
	return UserDecided, 0
}

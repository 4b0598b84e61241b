package pattern

import (
	"encoding/json"
	"fmt"
)

// Instructions is an ordered instruction sequence. It serializes as a list of
// flat records: number, text, sourceLineIndex, isRepeatMarker and, for
// markers, repeatStart, repeatEnd, repeatKind and specifiedCount.
type Instructions []Instruction

type wireInstruction struct {
	Number          *int       `json:"number"`
	Text            string     `json:"text"`
	SourceLineIndex *int       `json:"sourceLineIndex,omitempty"`
	IsRepeatMarker  bool       `json:"isRepeatMarker"`
	RepeatStart     *int       `json:"repeatStart,omitempty"`
	RepeatEnd       *int       `json:"repeatEnd,omitempty"`
	RepeatKind      RepeatKind `json:"repeatKind,omitempty"`
	SpecifiedCount  *int       `json:"specifiedCount,omitempty"`

	// Field names written by the first release.
	OriginalIndex       *int       `json:"originalIndex,omitempty"`
	IsRepeatInstruction bool       `json:"isRepeatInstruction,omitempty"`
	RepeatType          RepeatKind `json:"repeatType,omitempty"`
	SpecifiedRepeats    *int       `json:"specifiedRepeats,omitempty"`
}

type wireSection struct {
	Start           int        `json:"start"`
	End             int        `json:"end"`
	Text            string     `json:"text"`
	SourceLineIndex *int       `json:"sourceLineIndex,omitempty"`
	RepeatKind      RepeatKind `json:"repeatKind,omitempty"`
	SpecifiedCount  *int       `json:"specifiedCount"`

	OriginalIndex    *int       `json:"originalIndex,omitempty"`
	RepeatType       RepeatKind `json:"repeatType,omitempty"`
	SpecifiedRepeats *int       `json:"specifiedRepeats,omitempty"`
}

func intPtr(v int) *int { return &v }

func firstInt(vals ...*int) int {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

func firstKind(vals ...RepeatKind) RepeatKind {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return UserDecided
}

func countPtr(kind RepeatKind, count int) *int {
	if kind != Specified {
		return nil
	}
	return intPtr(count)
}

// MarshalJSON implements json.Marshaler.
func (r RepeatSection) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireSection{
		Start:           r.Start,
		End:             r.End,
		Text:            r.Text,
		SourceLineIndex: intPtr(r.SourceLine),
		RepeatKind:      r.Kind,
		SpecifiedCount:  countPtr(r.Kind, r.Count),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RepeatSection) UnmarshalJSON(b []byte) error {
	var w wireSection
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*r = RepeatSection{
		Start:      w.Start,
		End:        w.End,
		Text:       w.Text,
		SourceLine: firstInt(w.SourceLineIndex, w.OriginalIndex),
		Kind:       firstKind(w.RepeatKind, w.RepeatType),
		Count:      firstInt(w.SpecifiedCount, w.SpecifiedRepeats),
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (in Instructions) MarshalJSON() ([]byte, error) {
	out := make([]wireInstruction, 0, len(in))
	for _, i := range in {
		w := wireInstruction{
			Text:            i.String(),
			SourceLineIndex: intPtr(i.Source()),
		}
		switch v := i.(type) {
		case NumberedRow:
			w.Number = intPtr(v.Number)
		case RepeatMarker:
			w.IsRepeatMarker = true
			w.RepeatStart = intPtr(v.Start)
			w.RepeatEnd = intPtr(v.End)
			w.RepeatKind = v.Kind
			w.SpecifiedCount = countPtr(v.Kind, v.Count)
		case PlainInstruction:
		default:
			return nil, fmt.Errorf("pattern: unknown instruction type %T", i)
		}
		out = append(out, w)
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler. Both the current and the
// first-release field names are understood.
func (in *Instructions) UnmarshalJSON(b []byte) error {
	var wire []wireInstruction
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	out := make(Instructions, 0, len(wire))
	for _, w := range wire {
		line := firstInt(w.SourceLineIndex, w.OriginalIndex)
		switch {
		case w.IsRepeatMarker || w.IsRepeatInstruction:
			out = append(out, RepeatMarker{RepeatSection: RepeatSection{
				Start:      firstInt(w.RepeatStart),
				End:        firstInt(w.RepeatEnd),
				Text:       w.Text,
				SourceLine: line,
				Kind:       firstKind(w.RepeatKind, w.RepeatType),
				Count:      firstInt(w.SpecifiedCount, w.SpecifiedRepeats),
			}})
		case w.Number != nil:
			out = append(out, NumberedRow{Number: *w.Number, Text: w.Text, SourceLine: line})
		default:
			out = append(out, PlainInstruction{Text: w.Text, SourceLine: line})
		}
	}
	*in = out
	return nil
}

package domain

import (
	"fmt"
	"strings"
	"time"
)

// NoteLayout is the timestamp layout used by note files and the stack
// snapshot: calendar date plus wall-clock time, no zone.
const NoteLayout = "2006-01-02 15:04"

// NoteTime wraps time.Time so JSON round-trips use NoteLayout instead of
// RFC3339. Note-file timestamps carry no zone, so values are parsed as UTC
// and only ever compared against each other.
type NoteTime struct {
	time.Time
}

func (t NoteTime) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.Format(NoteLayout))), nil
}

func (t *NoteTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := time.Parse(NoteLayout, s)
	if err != nil {
		return fmt.Errorf("parsing note timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}

// IntBool is a bool persisted as 0 or 1, matching the snapshot schema.
type IntBool bool

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0", "false":
		*b = false
	case "1", "true":
		*b = true
	default:
		return fmt.Errorf("invalid bool value %q", string(data))
	}
	return nil
}

// ParsedEntry is one recognized service line from a note file. Produced by
// the parser, consumed by the time calculator and code resolver, then
// discarded.
type ParsedEntry struct {
	Verb      string
	Noun      string // empty when the line carried no noun
	At        time.Time
	Notes     string
	Close     bool // line carried the close-on-push token
	Line      int  // 1-based line number in the note file
}

// StackableEntry is a ParsedEntry after code resolution and duration
// calculation, ready to be pushed. Pushed flips to true only on confirmed
// success (or a confirmed duplicate).
type StackableEntry struct {
	ID          string   `json:"id"`
	VerbCode    int      `json:"verbCode"`
	NounCode    *int     `json:"nounCode"`
	At          NoteTime `json:"datetime"`
	Notes       string   `json:"notes"`
	DurationMin int      `json:"computedDurationMinutes"`
	Pushed      IntBool  `json:"pushed"`
	Line        int      `json:"line,omitempty"`
}

// Package noteparse turns raw note-file text into parsed service entries.
// It is a pure transformation: reading the file is the caller's job, and the
// parser never touches the stack or the database.
package noteparse

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mbetts/wosync/internal/domain"
)

const (
	// ProcessedMarker flags a line as already synchronized in a prior pass.
	// The parser skips any line containing it.
	ProcessedMarker = "=+"

	// CloseToken marks the final entry of a file as "close the work order
	// once this batch is pushed".
	CloseToken = "=|"
)

// lineKind classifies a note-file line. Each line is matched against the
// shapes exactly once, in order.
type lineKind int

const (
	lineBlank lineKind = iota
	lineProcessed
	lineBaseline
	lineService
	lineUnrecognized
)

var (
	// [Verb] (2025-03-24 09:00) => notes   or   [Verb, Noun] (...) => notes
	serviceRe = regexp.MustCompile(`^\[\s*([^,\]]+?)\s*(?:,\s*([^\]]+?)\s*)?\]\s*\(([^)]+)\)\s*=>\s*(.*)$`)

	// --- notes imported 2025-03-24 08:50 ---
	baselineRe = regexp.MustCompile(`^-{2,}\s*notes imported\s+(.+?)\s*-{2,}$`)
)

// timestamp layouts accepted in service lines and the baseline header.
var noteLayouts = []string{"2006-01-02 15:04", "2006-01-02 15-04"}

// DroppedLine records a line excluded from staging with the reason why,
// so the caller can warn without failing the whole file.
type DroppedLine struct {
	Line   int
	Text   string
	Reason domain.DropReason
}

// Result is the outcome of parsing one note file.
type Result struct {
	Entries        []domain.ParsedEntry
	ImportBaseline *time.Time
	Dropped        []DroppedLine
}

// MisplacedCloseError is the hard failure raised when the close token
// appears on any entry other than the last. Nothing from the file stages.
type MisplacedCloseError struct {
	Line int
}

func (e *MisplacedCloseError) Error() string {
	return fmt.Sprintf("close token %q on line %d: only the last entry may carry it", CloseToken, e.Line)
}

// Parse extracts service entries and the optional import-baseline timestamp
// from raw note-file text. Malformed timestamps drop the entry softly; a
// misplaced close token fails the whole file.
func Parse(text string) (*Result, error) {
	res := &Result{}

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		switch classify(line) {
		case lineBlank, lineUnrecognized, lineProcessed:
			continue

		case lineBaseline:
			m := baselineRe.FindStringSubmatch(line)
			if ts, ok := parseStamp(m[1]); ok {
				res.ImportBaseline = &ts
			} else {
				res.Dropped = append(res.Dropped, DroppedLine{Line: lineNo, Text: line, Reason: domain.DropBadTimestamp})
			}

		case lineService:
			entry, ok := parseService(line, lineNo)
			if !ok {
				res.Dropped = append(res.Dropped, DroppedLine{Line: lineNo, Text: line, Reason: domain.DropBadTimestamp})
				continue
			}
			res.Entries = append(res.Entries, entry)
		}
	}

	// The close token is positional: valid on the last parsed entry only.
	for i, e := range res.Entries {
		if e.Close && i != len(res.Entries)-1 {
			return nil, &MisplacedCloseError{Line: e.Line}
		}
	}

	return res, nil
}

func classify(line string) lineKind {
	switch {
	case line == "":
		return lineBlank
	case strings.Contains(line, ProcessedMarker):
		return lineProcessed
	case baselineRe.MatchString(line):
		return lineBaseline
	case serviceRe.MatchString(line):
		return lineService
	}
	return lineUnrecognized
}

func parseService(line string, lineNo int) (domain.ParsedEntry, bool) {
	m := serviceRe.FindStringSubmatch(line)

	notes := m[4]
	closed := false
	if strings.HasSuffix(strings.TrimSpace(notes), CloseToken) {
		closed = true
		notes = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(notes), CloseToken))
	}

	ts, ok := parseStamp(m[3])
	if !ok {
		return domain.ParsedEntry{}, false
	}

	return domain.ParsedEntry{
		Verb:  strings.TrimSpace(m[1]),
		Noun:  strings.TrimSpace(m[2]),
		At:    ts,
		Notes: strings.TrimSpace(notes),
		Close: closed,
		Line:  lineNo,
	}, true
}

func parseStamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range noteLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

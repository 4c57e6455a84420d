package domain

import "errors"

// ErrBadNumber marks a malformed work order or control number.
var ErrBadNumber = errors.New("invalid number")

type PushState string

const (
	PushPending   PushState = "pending"
	PushDuplicate PushState = "skipped_duplicate"
	PushDone      PushState = "pushed"
	PushFailed    PushState = "failed"
)

// Terminal reports whether the state ends processing of an entry for a run.
func (s PushState) Terminal() bool {
	switch s {
	case PushDuplicate, PushDone, PushFailed:
		return true
	}
	return false
}

type DropReason string

const (
	DropBadTimestamp DropReason = "bad_timestamp"
	DropUnknownVerb  DropReason = "unknown_verb"
	DropUnknownNoun  DropReason = "unknown_noun"
	DropMissingNoun  DropReason = "missing_noun"
)

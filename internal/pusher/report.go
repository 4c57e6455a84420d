package pusher

import (
	"time"

	"github.com/mbetts/wosync/internal/domain"
)

// ClosureState records the close-on-push outcome for one work order.
type ClosureState string

const (
	CloseNotRequested ClosureState = ""
	CloseDone         ClosureState = "closed"
	CloseBlocked      ClosureState = "blocked" // a failed entry blocked the attempt
	CloseFailed       ClosureState = "failed"  // attempted but not confirmed closed
)

// EntryReport is the outcome of one staged service for this run.
type EntryReport struct {
	EntryID  string
	VerbCode int
	At       time.Time
	State    domain.PushState
	Err      string // set for failed entries; submission and verification failures read the same here
}

// OrderReport is the outcome of one work order for this run.
type OrderReport struct {
	Number  string
	Entries []EntryReport
	Closure ClosureState
	Err     string // order-level failure, e.g. the existing-services listing
}

// Report summarizes a push run.
type Report struct {
	RunID   string
	DryRun  bool
	Pushed  int
	Skipped int
	Failed  int
	Orders  []OrderReport
}

// WouldSubmit counts entries a dry run planned for submission.
func (r *Report) WouldSubmit() int {
	n := 0
	for _, or := range r.Orders {
		for _, er := range or.Entries {
			if er.State == domain.PushPending {
				n++
			}
		}
	}
	return n
}

func (r *Report) count(state domain.PushState) {
	switch state {
	case domain.PushDone:
		r.Pushed++
	case domain.PushDuplicate:
		r.Skipped++
	case domain.PushFailed:
		r.Failed++
	}
}

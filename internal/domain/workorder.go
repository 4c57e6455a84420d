package domain

import (
	"fmt"
	"time"
)

// WorkOrder is a row in the local reference database, mirroring the remote
// system's bookkeeping for one order.
type WorkOrder struct {
	Number        string
	ControlNumber string
	Open          bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StackedWorkOrder aggregates the staged entries for one work order.
// Services are kept in chronological order; the whole aggregate is replaced
// when the order is re-staged.
type StackedWorkOrder struct {
	Number        string            `json:"workOrderNumber"`
	ControlNumber *string           `json:"controlNumber"`
	Services      []*StackableEntry `json:"services"`
	Notes         string            `json:"notes"`
	CloseOnPush   bool              `json:"closeOnPush"`
	SourceFile    string            `json:"sourceFile,omitempty"`
}

// Stack is the ordered set of staged work orders, the sole unit exchanged
// with the stack store. Order reflects staging order, not push priority.
type Stack []*StackedWorkOrder

// Find returns the stacked order with the given number, or nil.
func (s Stack) Find(number string) *StackedWorkOrder {
	for _, wo := range s {
		if wo.Number == number {
			return wo
		}
	}
	return nil
}

// Pending returns the services not yet pushed, in stored order.
func (w *StackedWorkOrder) Pending() []*StackableEntry {
	var out []*StackableEntry
	for _, svc := range w.Services {
		if !bool(svc.Pushed) {
			out = append(out, svc)
		}
	}
	return out
}

// FullyPushed reports whether every service has been pushed or skipped.
func (w *StackedWorkOrder) FullyPushed() bool {
	for _, svc := range w.Services {
		if !bool(svc.Pushed) {
			return false
		}
	}
	return true
}

// Validate checks aggregate-level invariants before the order is staged.
func (w *StackedWorkOrder) Validate() error {
	if !ValidWorkOrderNumber(w.Number) {
		return fmt.Errorf("work order number %q: %w", w.Number, ErrBadNumber)
	}
	if w.ControlNumber != nil && !ValidControlNumber(*w.ControlNumber) {
		return fmt.Errorf("control number %q: %w", *w.ControlNumber, ErrBadNumber)
	}
	if len(w.Services) == 0 {
		return fmt.Errorf("work order %s has no services", w.Number)
	}
	return nil
}

// ValidWorkOrderNumber reports whether s is a 7-digit work order number.
func ValidWorkOrderNumber(s string) bool {
	return allDigits(s, 7)
}

// ValidControlNumber reports whether s is an 8-digit control number.
func ValidControlNumber(s string) bool {
	return allDigits(s, 8)
}

func allDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

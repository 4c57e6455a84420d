package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/mbetts/wosync/internal/domain"
)

// EntryOption mutates a fixture StackableEntry.
type EntryOption func(*domain.StackableEntry)

func WithNoun(code int) EntryOption {
	return func(e *domain.StackableEntry) {
		e.NounCode = &code
	}
}

func WithPushed() EntryOption {
	return func(e *domain.StackableEntry) {
		e.Pushed = true
	}
}

func WithDuration(minutes int) EntryOption {
	return func(e *domain.StackableEntry) {
		e.DurationMin = minutes
	}
}

// NewEntry builds a staged service entry fixture at the given wall time.
func NewEntry(verbCode int, at time.Time, opts ...EntryOption) *domain.StackableEntry {
	e := &domain.StackableEntry{
		ID:       uuid.New().String(),
		VerbCode: verbCode,
		At:       domain.NoteTime{Time: at},
		Notes:    "fixture notes",
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewStackedOrder builds a staged work order fixture.
func NewStackedOrder(number string, closeOnPush bool, services ...*domain.StackableEntry) *domain.StackedWorkOrder {
	ctrl := "90000001"
	return &domain.StackedWorkOrder{
		Number:        number,
		ControlNumber: &ctrl,
		Services:      services,
		Notes:         "combined fixture notes",
		CloseOnPush:   closeOnPush,
	}
}

// Day returns a fixed test day at the given wall-clock time.
func Day(hh, mm int) time.Time {
	return time.Date(2025, 3, 24, hh, mm, 0, 0, time.UTC)
}

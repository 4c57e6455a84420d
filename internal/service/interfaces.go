package service

import (
	"context"

	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/noteparse"
	"github.com/mbetts/wosync/internal/pusher"
	"github.com/mbetts/wosync/internal/repository"
)

// StageResult is the outcome of staging one note file.
type StageResult struct {
	Order   *domain.StackedWorkOrder
	Staged  int
	Dropped []noteparse.DroppedLine // soft exclusions: bad timestamps, unknown codes
	Clamped int                     // entries whose negative delta floored at zero
}

type StageService interface {
	// StageFile parses a note file and stages its entries for the given
	// work order, replacing any prior staged state for that order.
	StageFile(ctx context.Context, path, workOrderNumber string) (*StageResult, error)

	// MarkProcessed appends the processed sentinel to the note-file lines
	// of entries that have been pushed, so a later staging pass skips them.
	MarkProcessed(ctx context.Context, order *domain.StackedWorkOrder) error
}

// PushOptions selects push behavior for one run.
type PushOptions struct {
	DryRun bool

	// MarkFiles rewrites each pushed order's source note file afterwards,
	// tagging pushed lines with the processed sentinel.
	MarkFiles bool
}

type PushService interface {
	Push(ctx context.Context, opts PushOptions) (*pusher.Report, error)
}

type StackService interface {
	List(ctx context.Context) (domain.Stack, error)
	Show(ctx context.Context, number string) (*domain.StackedWorkOrder, error)
	Remove(ctx context.Context, number string) error
	Clear(ctx context.Context) error
	// Prune drops fully pushed orders and returns how many were removed.
	Prune(ctx context.Context) (int, error)
}

type WorkOrderService interface {
	Add(ctx context.Context, number, controlNumber string, open bool) error
	Get(ctx context.Context, number string) (*domain.WorkOrder, error)
	List(ctx context.Context, openOnly bool) ([]*domain.WorkOrder, error)
	Close(ctx context.Context, number string) error
	Remove(ctx context.Context, number string) error
}

type CodeService interface {
	AddVerb(ctx context.Context, keyword string, code int, requiresNoun bool) error
	AddNoun(ctx context.Context, keyword string, code int) error
	Table(ctx context.Context) (*repository.CodeTable, error)
	// ImportFile loads a TOML reference file into the code tables in one
	// transaction.
	ImportFile(ctx context.Context, path string) (verbs, nouns int, err error)
}

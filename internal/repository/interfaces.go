package repository

import (
	"context"

	"github.com/mbetts/wosync/internal/domain"
)

// CodeTable is the full verb/noun reference data, loaded once and cached by
// the code resolver for the life of the process.
type CodeTable struct {
	Verbs map[string]VerbDef
	Nouns map[string]int
}

// VerbDef is one verb keyword's remote code and whether the remote form
// requires a noun alongside it.
type VerbDef struct {
	Code         int
	RequiresNoun bool
}

type WorkOrderRepo interface {
	Get(ctx context.Context, number string) (*domain.WorkOrder, error)
	List(ctx context.Context, openOnly bool) ([]*domain.WorkOrder, error)
	Upsert(ctx context.Context, wo *domain.WorkOrder) error
	MarkClosed(ctx context.Context, number string) error
	Delete(ctx context.Context, number string) error
}

type ReferenceRepo interface {
	LoadCodeTable(ctx context.Context) (*CodeTable, error)
	UpsertVerb(ctx context.Context, keyword string, def VerbDef) error
	UpsertNoun(ctx context.Context, keyword string, code int) error
	DeleteVerb(ctx context.Context, keyword string) error
	DeleteNoun(ctx context.Context, keyword string) error
}

// Package codes maps human verb/noun keywords to the numeric codes the
// remote system expects.
package codes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/mbetts/wosync/internal/repository"
)

// ErrUnknown marks a keyword absent from the code table.
var ErrUnknown = errors.New("unknown keyword")

// VerbDef mirrors the reference table's verb definition.
type VerbDef = repository.VerbDef

// Resolver resolves keywords against the reference code table. The table is
// loaded lazily on first use and cached for the life of the process; it holds
// no external resources, so there is no teardown.
type Resolver struct {
	refs repository.ReferenceRepo

	once    sync.Once
	table   *repository.CodeTable
	loadErr error
}

// NewResolver creates a Resolver over the given reference repository.
func NewResolver(refs repository.ReferenceRepo) *Resolver {
	return &Resolver{refs: refs}
}

// Verb resolves a verb keyword. Lookups are exact-match on the trimmed
// keyword, case-sensitive.
func (r *Resolver) Verb(ctx context.Context, keyword string) (VerbDef, error) {
	table, err := r.load(ctx)
	if err != nil {
		return VerbDef{}, err
	}
	def, ok := table.Verbs[strings.TrimSpace(keyword)]
	if !ok {
		return VerbDef{}, fmt.Errorf("verb %q: %w", keyword, ErrUnknown)
	}
	return def, nil
}

// Noun resolves a noun keyword to its remote code.
func (r *Resolver) Noun(ctx context.Context, keyword string) (int, error) {
	table, err := r.load(ctx)
	if err != nil {
		return 0, err
	}
	code, ok := table.Nouns[strings.TrimSpace(keyword)]
	if !ok {
		return 0, fmt.Errorf("noun %q: %w", keyword, ErrUnknown)
	}
	return code, nil
}

func (r *Resolver) load(ctx context.Context) (*repository.CodeTable, error) {
	r.once.Do(func() {
		r.table, r.loadErr = r.refs.LoadCodeTable(ctx)
	})
	if r.loadErr != nil {
		return nil, fmt.Errorf("loading code table: %w", r.loadErr)
	}
	return r.table, nil
}

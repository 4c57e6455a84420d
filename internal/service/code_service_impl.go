package service

import (
	"context"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/mbetts/wosync/internal/db"
	"github.com/mbetts/wosync/internal/repository"
)

type codeService struct {
	refs repository.ReferenceRepo
	uow  db.UnitOfWork
	obs  UseCaseObserver
}

// NewCodeService exposes verb/noun reference-table maintenance.
func NewCodeService(refs repository.ReferenceRepo, uow db.UnitOfWork, observers ...UseCaseObserver) CodeService {
	return &codeService{refs: refs, uow: uow, obs: observerOrNoop(observers)}
}

func (s *codeService) AddVerb(ctx context.Context, keyword string, code int, requiresNoun bool) error {
	return s.refs.UpsertVerb(ctx, keyword, repository.VerbDef{Code: code, RequiresNoun: requiresNoun})
}

func (s *codeService) AddNoun(ctx context.Context, keyword string, code int) error {
	return s.refs.UpsertNoun(ctx, keyword, code)
}

func (s *codeService) Table(ctx context.Context) (*repository.CodeTable, error) {
	return s.refs.LoadCodeTable(ctx)
}

// codeImportFile is the TOML shape accepted by ImportFile:
//
//	[verbs.Inspected]
//	code = 10
//	[verbs.Replaced]
//	code = 20
//	requires_noun = true
//
//	[nouns]
//	Filter = 300
type codeImportFile struct {
	Verbs map[string]verbImport `toml:"verbs"`
	Nouns map[string]int        `toml:"nouns"`
}

type verbImport struct {
	Code         int  `toml:"code"`
	RequiresNoun bool `toml:"requires_noun"`
}

func (s *codeService) ImportFile(ctx context.Context, path string) (verbs, nouns int, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "codes_import", started, err, map[string]any{"verbs": verbs, "nouns": nouns})
	}()

	var file codeImportFile
	if _, err = toml.DecodeFile(path, &file); err != nil {
		return 0, 0, fmt.Errorf("parsing code file %s: %w", path, err)
	}

	// All or nothing: a bad row must not leave a half-imported table.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txRefs := repository.NewSQLiteReferenceRepo(tx)
		for keyword, v := range file.Verbs {
			if err := txRefs.UpsertVerb(ctx, keyword, repository.VerbDef{Code: v.Code, RequiresNoun: v.RequiresNoun}); err != nil {
				return err
			}
			verbs++
		}
		for keyword, code := range file.Nouns {
			if err := txRefs.UpsertNoun(ctx, keyword, code); err != nil {
				return err
			}
			nouns++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return verbs, nouns, nil
}

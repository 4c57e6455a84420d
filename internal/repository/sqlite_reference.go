package repository

import (
	"context"
	"fmt"

	"github.com/mbetts/wosync/internal/db"
)

// SQLiteReferenceRepo implements ReferenceRepo over the verb_codes and
// noun_codes tables.
type SQLiteReferenceRepo struct {
	db db.DBTX
}

// NewSQLiteReferenceRepo creates a new SQLiteReferenceRepo.
func NewSQLiteReferenceRepo(dbtx db.DBTX) *SQLiteReferenceRepo {
	return &SQLiteReferenceRepo{db: dbtx}
}

func (r *SQLiteReferenceRepo) LoadCodeTable(ctx context.Context) (*CodeTable, error) {
	table := &CodeTable{
		Verbs: make(map[string]VerbDef),
		Nouns: make(map[string]int),
	}

	rows, err := r.db.QueryContext(ctx, `SELECT keyword, code, requires_noun FROM verb_codes`)
	if err != nil {
		return nil, fmt.Errorf("loading verb codes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var keyword string
		var code, requiresNoun int
		if err := rows.Scan(&keyword, &code, &requiresNoun); err != nil {
			return nil, fmt.Errorf("scanning verb code: %w", err)
		}
		table.Verbs[keyword] = VerbDef{Code: code, RequiresNoun: intToBool(requiresNoun)}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating verb codes: %w", err)
	}

	nounRows, err := r.db.QueryContext(ctx, `SELECT keyword, code FROM noun_codes`)
	if err != nil {
		return nil, fmt.Errorf("loading noun codes: %w", err)
	}
	defer nounRows.Close()
	for nounRows.Next() {
		var keyword string
		var code int
		if err := nounRows.Scan(&keyword, &code); err != nil {
			return nil, fmt.Errorf("scanning noun code: %w", err)
		}
		table.Nouns[keyword] = code
	}
	if err := nounRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating noun codes: %w", err)
	}

	return table, nil
}

func (r *SQLiteReferenceRepo) UpsertVerb(ctx context.Context, keyword string, def VerbDef) error {
	query := `INSERT INTO verb_codes (keyword, code, requires_noun) VALUES (?, ?, ?)
		ON CONFLICT(keyword) DO UPDATE SET code = excluded.code, requires_noun = excluded.requires_noun`
	if _, err := r.db.ExecContext(ctx, query, keyword, def.Code, boolToInt(def.RequiresNoun)); err != nil {
		return fmt.Errorf("upserting verb code: %w", err)
	}
	return nil
}

func (r *SQLiteReferenceRepo) UpsertNoun(ctx context.Context, keyword string, code int) error {
	query := `INSERT INTO noun_codes (keyword, code) VALUES (?, ?)
		ON CONFLICT(keyword) DO UPDATE SET code = excluded.code`
	if _, err := r.db.ExecContext(ctx, query, keyword, code); err != nil {
		return fmt.Errorf("upserting noun code: %w", err)
	}
	return nil
}

func (r *SQLiteReferenceRepo) DeleteVerb(ctx context.Context, keyword string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM verb_codes WHERE keyword = ?`, keyword); err != nil {
		return fmt.Errorf("deleting verb code: %w", err)
	}
	return nil
}

func (r *SQLiteReferenceRepo) DeleteNoun(ctx context.Context, keyword string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM noun_codes WHERE keyword = ?`, keyword); err != nil {
		return fmt.Errorf("deleting noun code: %w", err)
	}
	return nil
}

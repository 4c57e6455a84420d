package remote

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mbetts/wosync/internal/domain"
)

// journalRecord is one line of the journal file.
type journalRecord struct {
	Kind        string `json:"kind"` // "service" or "close"
	WorkOrder   string `json:"workOrder"`
	EntryID     string `json:"entryId,omitempty"`
	VerbCode    int    `json:"verbCode,omitempty"`
	NounCode    *int   `json:"nounCode,omitempty"`
	At          string `json:"at,omitempty"`
	DurationMin int    `json:"durationMinutes,omitempty"`
	Notes       string `json:"notes,omitempty"`
	RecordedAt  string `json:"recordedAt"`
}

// JournalOpener opens sessions over an append-only JSONL file. It is the
// default channel: submissions are durably recorded locally and replayed
// into whatever carries them to the remote system. Duplicate detection and
// verification read the same file, so the idempotence contract holds across
// runs.
type JournalOpener struct {
	Path string
}

func (o JournalOpener) Open(ctx context.Context) (Session, error) {
	if o.Path == "" {
		return nil, fmt.Errorf("journal path not configured")
	}
	if err := os.MkdirAll(filepath.Dir(o.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	f, err := os.OpenFile(o.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	return &journalSession{path: o.Path, out: f}, nil
}

type journalSession struct {
	path string
	out  *os.File
}

func (s *journalSession) Close() error {
	return s.out.Close()
}

func (s *journalSession) append(rec journalRecord) error {
	rec.RecordedAt = time.Now().UTC().Format(time.RFC3339)
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if _, err := s.out.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("appending journal record: %w", err)
	}
	return s.out.Sync()
}

// read returns every record for one work order. Lines that do not parse are
// skipped; a truncated trailing line from a crashed run must not poison the
// whole journal.
func (s *journalSession) read(workOrder string) ([]journalRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	defer f.Close()

	var records []journalRecord
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var rec journalRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		if rec.WorkOrder == workOrder {
			records = append(records, rec)
		}
	}
	return records, scanner.Err()
}

func (s *journalSession) ListExistingServices(ctx context.Context, workOrder string) ([]ExistingService, error) {
	records, err := s.read(workOrder)
	if err != nil {
		return nil, err
	}
	var existing []ExistingService
	for _, rec := range records {
		if rec.Kind != "service" {
			continue
		}
		at, err := time.Parse(domain.NoteLayout, rec.At)
		if err != nil {
			continue
		}
		existing = append(existing, ExistingService{
			Date:        at,
			Code:        rec.VerbCode,
			Description: rec.Notes,
		})
	}
	return existing, nil
}

func (s *journalSession) SubmitService(ctx context.Context, workOrder string, entry *domain.StackableEntry) error {
	return s.append(journalRecord{
		Kind:        "service",
		WorkOrder:   workOrder,
		EntryID:     entry.ID,
		VerbCode:    entry.VerbCode,
		NounCode:    entry.NounCode,
		At:          entry.At.Format(domain.NoteLayout),
		DurationMin: entry.DurationMin,
		Notes:       entry.Notes,
	})
}

func (s *journalSession) VerifyServicePresent(ctx context.Context, workOrder string, entry *domain.StackableEntry) (bool, error) {
	records, err := s.read(workOrder)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Kind == "service" && rec.EntryID == entry.ID {
			return true, nil
		}
	}
	return false, nil
}

func (s *journalSession) CloseWorkOrder(ctx context.Context, workOrder string) error {
	return s.append(journalRecord{Kind: "close", WorkOrder: workOrder})
}

func (s *journalSession) IsClosed(ctx context.Context, workOrder string) (bool, error) {
	records, err := s.read(workOrder)
	if err != nil {
		return false, err
	}
	for _, rec := range records {
		if rec.Kind == "close" {
			return true, nil
		}
	}
	return false, nil
}

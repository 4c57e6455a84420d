package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mbetts/wosync/internal/codes"
	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/noteparse"
	"github.com/mbetts/wosync/internal/repository"
	"github.com/mbetts/wosync/internal/stack"
	"github.com/mbetts/wosync/internal/timecalc"
)

type stageService struct {
	workOrders repository.WorkOrderRepo
	resolver   *codes.Resolver
	store      *stack.Store
	log        *slog.Logger
	obs        UseCaseObserver

	// minimumDurationMin floors every staged duration. Zero keeps the
	// plain zero-clamp from the time calculator.
	minimumDurationMin int
}

// NewStageService wires the staging pipeline: parse, compute durations,
// resolve codes, persist to the stack.
func NewStageService(workOrders repository.WorkOrderRepo, resolver *codes.Resolver, store *stack.Store, log *slog.Logger, minimumDurationMin int, observers ...UseCaseObserver) StageService {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &stageService{
		workOrders:         workOrders,
		resolver:           resolver,
		store:              store,
		log:                log,
		obs:                observerOrNoop(observers),
		minimumDurationMin: minimumDurationMin,
	}
}

func (s *stageService) StageFile(ctx context.Context, path, workOrderNumber string) (result *StageResult, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "stage_file", started, err, map[string]any{"work_order": workOrderNumber})
	}()

	if !domain.ValidWorkOrderNumber(workOrderNumber) {
		return nil, fmt.Errorf("work order number %q: %w", workOrderNumber, domain.ErrBadNumber)
	}

	// Unknown numbers are rejected before anything is parsed or staged;
	// a locally closed order has nothing left to push.
	wo, err := s.workOrders.Get(ctx, workOrderNumber)
	if err != nil {
		return nil, fmt.Errorf("looking up work order %s: %w", workOrderNumber, err)
	}
	if !wo.Open {
		return nil, fmt.Errorf("work order %s is closed in the local store", workOrderNumber)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading note file: %w", err)
	}

	parsed, err := noteparse.Parse(string(raw))
	if err != nil {
		return nil, err
	}
	for _, d := range parsed.Dropped {
		s.log.Warn("dropping note line", "file", path, "line", d.Line, "reason", string(d.Reason))
	}

	result = &StageResult{Dropped: parsed.Dropped}

	annotated := timecalc.Annotate(parsed.Entries, parsed.ImportBaseline)

	var services []*domain.StackableEntry
	closeOnPush := false
	var noteLines []string

	for _, a := range annotated {
		if a.Clamped {
			result.Clamped++
			s.log.Warn("entry earlier than predecessor, duration clamped to zero",
				"file", path, "line", a.Entry.Line)
		}

		svc, dropped, err := s.resolve(ctx, a)
		if err != nil {
			return result, err // code table unavailable, not a per-entry problem
		}
		if dropped != nil {
			result.Dropped = append(result.Dropped, *dropped)
			s.log.Warn("dropping note line", "file", path, "line", dropped.Line, "reason", string(dropped.Reason))
			continue
		}

		if svc.DurationMin < s.minimumDurationMin {
			svc.DurationMin = s.minimumDurationMin
		}
		services = append(services, svc)
		noteLines = append(noteLines, a.Entry.Notes)
		if a.Entry.Close {
			closeOnPush = true
		}
	}

	if len(services) == 0 {
		return result, fmt.Errorf("no stageable entries in %s", path)
	}

	order := &domain.StackedWorkOrder{
		Number:      workOrderNumber,
		Services:    services,
		Notes:       strings.Join(noteLines, "\n"),
		CloseOnPush: closeOnPush,
		SourceFile:  absPath(path),
	}
	if wo.ControlNumber != "" {
		ctrl := wo.ControlNumber
		order.ControlNumber = &ctrl
	}
	if err := order.Validate(); err != nil {
		return result, err
	}

	if err := s.store.Upsert(order); err != nil {
		return result, fmt.Errorf("staging work order %s: %w", workOrderNumber, err)
	}

	result.Order = order
	result.Staged = len(services)
	return result, nil
}

// resolve maps one annotated entry to a stackable service, or explains why
// it must be dropped.
func (s *stageService) resolve(ctx context.Context, a timecalc.Annotated) (*domain.StackableEntry, *noteparse.DroppedLine, error) {
	def, err := s.resolver.Verb(ctx, a.Entry.Verb)
	if err != nil {
		if errors.Is(err, codes.ErrUnknown) {
			return nil, &noteparse.DroppedLine{Line: a.Entry.Line, Text: a.Entry.Verb, Reason: domain.DropUnknownVerb}, nil
		}
		return nil, nil, err
	}

	svc := &domain.StackableEntry{
		ID:          uuid.New().String(),
		VerbCode:    def.Code,
		At:          domain.NoteTime{Time: a.Entry.At},
		Notes:       a.Entry.Notes,
		DurationMin: a.DurationMin,
		Line:        a.Entry.Line,
	}

	if def.RequiresNoun {
		if a.Entry.Noun == "" {
			return nil, &noteparse.DroppedLine{Line: a.Entry.Line, Text: a.Entry.Verb, Reason: domain.DropMissingNoun}, nil
		}
		nounCode, err := s.resolver.Noun(ctx, a.Entry.Noun)
		if err != nil {
			if errors.Is(err, codes.ErrUnknown) {
				return nil, &noteparse.DroppedLine{Line: a.Entry.Line, Text: a.Entry.Noun, Reason: domain.DropUnknownNoun}, nil
			}
			return nil, nil, err
		}
		svc.NounCode = &nounCode
	}
	// A noun on a verb that does not take one is ignored, not an error.

	return svc, nil, nil
}

func (s *stageService) MarkProcessed(ctx context.Context, order *domain.StackedWorkOrder) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "mark_processed", started, err, map[string]any{"work_order": order.Number})
	}()

	if order.SourceFile == "" {
		return fmt.Errorf("work order %s has no recorded source file", order.Number)
	}

	raw, err := os.ReadFile(order.SourceFile)
	if err != nil {
		return fmt.Errorf("reading note file: %w", err)
	}

	pushedLines := make(map[int]bool)
	for _, svc := range order.Services {
		if bool(svc.Pushed) && svc.Line > 0 {
			pushedLines[svc.Line] = true
		}
	}
	if len(pushedLines) == 0 {
		return nil
	}

	lines := strings.Split(string(raw), "\n")
	changed := false
	for i := range lines {
		if !pushedLines[i+1] || strings.Contains(lines[i], noteparse.ProcessedMarker) {
			continue
		}
		lines[i] = lines[i] + " " + noteparse.ProcessedMarker
		changed = true
	}
	if !changed {
		return nil
	}

	// Atomic rewrite, same discipline as the stack snapshot.
	tmp := order.SourceFile + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "\n")), 0o600); err != nil {
		return fmt.Errorf("writing note file: %w", err)
	}
	if err := os.Rename(tmp, order.SourceFile); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replacing note file: %w", err)
	}
	return nil
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

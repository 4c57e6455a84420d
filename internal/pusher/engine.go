// Package pusher pushes staged work orders to the remote system, one entry
// at a time, with duplicate avoidance and post-submission verification.
package pusher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/remote"
	"github.com/mbetts/wosync/internal/stack"
)

// Options tunes a single push run.
type Options struct {
	DryRun bool

	// ToleranceDays widens the duplicate-date window: an existing remote
	// service with the same verb code within ±ToleranceDays counts as a
	// duplicate. Heuristic, hence tunable.
	ToleranceDays int

	Retry remote.RetryPolicy

	// KnownServices is an optional cached listing per work order number,
	// used for duplicate checks in dry-run mode only. A dry run never
	// touches the channel.
	KnownServices map[string][]remote.ExistingService
}

// Engine orchestrates push runs. One remote session is shared across all
// work orders in a run; submissions are strictly sequential.
type Engine struct {
	opener remote.Opener
	store  *stack.Store
	log    *slog.Logger
}

// New creates an Engine. A nil logger discards engine logs.
func New(opener remote.Opener, store *stack.Store, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &Engine{opener: opener, store: store, log: log}
}

// Run processes every staged work order. Entry failures never abort the
// batch; they are counted and reported. On a live run the updated stack is
// persisted once at the end so pushed entries are not retried next time.
func (e *Engine) Run(ctx context.Context, opts Options) (*Report, error) {
	stk, err := e.store.Load()
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: uuid.New().String(), DryRun: opts.DryRun}
	if len(stk) == 0 {
		return report, nil
	}

	if opts.DryRun {
		for _, wo := range stk {
			or := e.planOrder(wo, opts)
			for _, er := range or.Entries {
				if er.State == domain.PushDuplicate {
					report.Skipped++
				}
			}
			report.Orders = append(report.Orders, or)
		}
		return report, nil
	}

	session, err := e.opener.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening remote session: %w", err)
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil {
			e.log.Warn("closing remote session", "error", closeErr)
		}
	}()

	for _, wo := range stk {
		report.Orders = append(report.Orders, e.pushOrder(ctx, session, wo, opts, report))
	}

	if err := e.store.Save(stk); err != nil {
		return report, fmt.Errorf("persisting stack after push: %w", err)
	}
	return report, nil
}

// pushOrder drives the per-entry state machine for one work order.
func (e *Engine) pushOrder(ctx context.Context, ch remote.Channel, wo *domain.StackedWorkOrder, opts Options, report *Report) OrderReport {
	or := OrderReport{Number: wo.Number}

	var existing []remote.ExistingService
	listErr := opts.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		existing, err = ch.ListExistingServices(ctx, wo.Number)
		return err
	})
	if listErr != nil {
		// Without the remote listing nothing can be checked for duplicates,
		// so every pending entry fails for this run and stays retryable.
		or.Err = fmt.Sprintf("listing existing services: %v", listErr)
		e.log.Error("listing existing services", "work_order", wo.Number, "error", listErr)
		for _, svc := range wo.Pending() {
			er := entryReport(svc, domain.PushFailed, or.Err)
			or.Entries = append(or.Entries, er)
			report.count(er.State)
		}
		return or
	}

	anyFailed := false
	for _, svc := range wo.Services {
		if bool(svc.Pushed) {
			continue // terminal from a prior run
		}

		er := e.pushEntry(ctx, ch, wo.Number, svc, existing, opts)
		if er.State == domain.PushFailed {
			anyFailed = true
		}
		or.Entries = append(or.Entries, er)
		report.count(er.State)
	}

	if wo.CloseOnPush {
		or.Closure = e.closeOrder(ctx, ch, wo, anyFailed, opts)
	}
	return or
}

func (e *Engine) pushEntry(ctx context.Context, ch remote.Channel, number string, svc *domain.StackableEntry, existing []remote.ExistingService, opts Options) EntryReport {
	if isDuplicate(svc, existing, opts.ToleranceDays) {
		// Already on the remote side; mark pushed without a remote write.
		svc.Pushed = true
		e.log.Info("duplicate detected, skipping", "work_order", number, "verb_code", svc.VerbCode, "date", svc.At.Format(domain.NoteLayout))
		return entryReport(svc, domain.PushDuplicate, "")
	}

	submitErr := opts.Retry.Do(ctx, func(ctx context.Context) error {
		return ch.SubmitService(ctx, number, svc)
	})
	if submitErr != nil {
		e.log.Error("submitting service", "work_order", number, "verb_code", svc.VerbCode, "error", submitErr)
		return entryReport(svc, domain.PushFailed, fmt.Sprintf("submit: %v", submitErr))
	}

	var present bool
	verifyErr := opts.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		present, err = ch.VerifyServicePresent(ctx, number, svc)
		return err
	})
	if verifyErr != nil {
		e.log.Error("verifying service", "work_order", number, "verb_code", svc.VerbCode, "error", verifyErr)
		return entryReport(svc, domain.PushFailed, fmt.Sprintf("verify: %v", verifyErr))
	}
	if !present {
		e.log.Error("service not found after submit", "work_order", number, "verb_code", svc.VerbCode)
		return entryReport(svc, domain.PushFailed, "verify: service not present after submit")
	}

	svc.Pushed = true
	return entryReport(svc, domain.PushDone, "")
}

// closeOrder attempts close-on-push. A failed entry, or any older entry
// still unpushed, blocks the attempt.
func (e *Engine) closeOrder(ctx context.Context, ch remote.Channel, wo *domain.StackedWorkOrder, anyFailed bool, opts Options) ClosureState {
	if anyFailed || !wo.FullyPushed() {
		e.log.Warn("close blocked by unpushed entries", "work_order", wo.Number)
		return CloseBlocked
	}

	closeErr := opts.Retry.Do(ctx, func(ctx context.Context) error {
		return ch.CloseWorkOrder(ctx, wo.Number)
	})
	if closeErr != nil {
		e.log.Error("closing work order", "work_order", wo.Number, "error", closeErr)
		return CloseFailed
	}

	var closed bool
	verifyErr := opts.Retry.Do(ctx, func(ctx context.Context) error {
		var err error
		closed, err = ch.IsClosed(ctx, wo.Number)
		return err
	})
	if verifyErr != nil || !closed {
		e.log.Error("work order not confirmed closed", "work_order", wo.Number, "error", verifyErr)
		return CloseFailed
	}
	return CloseDone
}

// planOrder reports what a live run would do, without a session and without
// mutating anything. Duplicate checks use cached listings when available.
func (e *Engine) planOrder(wo *domain.StackedWorkOrder, opts Options) OrderReport {
	or := OrderReport{Number: wo.Number}
	known, haveKnown := opts.KnownServices[wo.Number]

	for _, svc := range wo.Pending() {
		state := domain.PushPending // would submit
		if haveKnown && isDuplicate(svc, known, opts.ToleranceDays) {
			state = domain.PushDuplicate
		}
		or.Entries = append(or.Entries, entryReport(svc, state, ""))
	}
	return or
}

// isDuplicate reports whether an existing remote service matches the entry's
// fingerprint: same verb code, date within ±toleranceDays.
func isDuplicate(svc *domain.StackableEntry, existing []remote.ExistingService, toleranceDays int) bool {
	for _, ex := range existing {
		if ex.Code != svc.VerbCode {
			continue
		}
		if dayDelta(ex.Date, svc.At.Time) <= toleranceDays {
			return true
		}
	}
	return false
}

// dayDelta is the absolute difference in calendar days between two stamps.
func dayDelta(a, b time.Time) int {
	ay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	by := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := ay.Sub(by)
	if d < 0 {
		d = -d
	}
	return int(d / (24 * time.Hour))
}

func entryReport(svc *domain.StackableEntry, state domain.PushState, errMsg string) EntryReport {
	return EntryReport{
		EntryID:  svc.ID,
		VerbCode: svc.VerbCode,
		At:       svc.At.Time,
		State:    state,
		Err:      errMsg,
	}
}

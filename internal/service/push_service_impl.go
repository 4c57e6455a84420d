package service

import (
	"context"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/mbetts/wosync/internal/pusher"
	"github.com/mbetts/wosync/internal/remote"
	"github.com/mbetts/wosync/internal/stack"
)

type pushService struct {
	engine  *pusher.Engine
	staging StageService
	store   *stack.Store
	log     *slog.Logger
	obs     UseCaseObserver

	toleranceDays int
	retry         remote.RetryPolicy
}

// NewPushService wraps the push engine with the configured tunables.
func NewPushService(engine *pusher.Engine, staging StageService, store *stack.Store, log *slog.Logger, toleranceDays int, retry remote.RetryPolicy, observers ...UseCaseObserver) PushService {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}
	return &pushService{
		engine:        engine,
		staging:       staging,
		store:         store,
		log:           log,
		obs:           observerOrNoop(observers),
		toleranceDays: toleranceDays,
		retry:         retry,
	}
}

func (s *pushService) Push(ctx context.Context, opts PushOptions) (report *pusher.Report, err error) {
	started := time.Now()
	defer func() {
		fields := map[string]any{"dry_run": opts.DryRun}
		if report != nil {
			fields["pushed"] = report.Pushed
			fields["skipped"] = report.Skipped
			fields["failed"] = report.Failed
		}
		observe(ctx, s.obs, "push", started, err, fields)
	}()

	report, err = s.engine.Run(ctx, pusher.Options{
		DryRun:        opts.DryRun,
		ToleranceDays: s.toleranceDays,
		Retry:         s.retry,
	})
	if err != nil {
		return report, err
	}

	if opts.MarkFiles && !opts.DryRun {
		s.markSources(ctx, report)
	}
	return report, nil
}

// markSources tags pushed lines in each order's source note file. Marking is
// best effort; a file that moved since staging only costs a warning.
func (s *pushService) markSources(ctx context.Context, report *pusher.Report) {
	stk, err := s.store.Load()
	if err != nil {
		s.log.Warn("loading stack for note-file marking", "error", err)
		return
	}
	for _, or := range report.Orders {
		order := stk.Find(or.Number)
		if order == nil || order.SourceFile == "" {
			continue
		}
		if err := s.staging.MarkProcessed(ctx, order); err != nil {
			s.log.Warn("marking note file", "work_order", or.Number, "error", err)
		}
	}
}

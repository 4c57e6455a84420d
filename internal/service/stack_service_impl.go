package service

import (
	"context"
	"fmt"
	"time"

	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/stack"
)

type stackService struct {
	store *stack.Store
	obs   UseCaseObserver
}

// NewStackService exposes stack maintenance operations.
func NewStackService(store *stack.Store, observers ...UseCaseObserver) StackService {
	return &stackService{store: store, obs: observerOrNoop(observers)}
}

func (s *stackService) List(ctx context.Context) (domain.Stack, error) {
	return s.store.Load()
}

func (s *stackService) Show(ctx context.Context, number string) (*domain.StackedWorkOrder, error) {
	stk, err := s.store.Load()
	if err != nil {
		return nil, err
	}
	order := stk.Find(number)
	if order == nil {
		return nil, fmt.Errorf("work order %s is not staged", number)
	}
	return order, nil
}

func (s *stackService) Remove(ctx context.Context, number string) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "stack_remove", started, err, map[string]any{"work_order": number})
	}()
	return s.store.Remove(number)
}

func (s *stackService) Clear(ctx context.Context) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "stack_clear", started, err, nil)
	}()
	return s.store.Clear()
}

func (s *stackService) Prune(ctx context.Context) (pruned int, err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "stack_prune", started, err, map[string]any{"pruned": pruned})
	}()

	stk, err := s.store.Load()
	if err != nil {
		return 0, err
	}

	kept := stk[:0]
	for _, wo := range stk {
		if wo.FullyPushed() {
			pruned++
			continue
		}
		kept = append(kept, wo)
	}
	if pruned == 0 {
		return 0, nil
	}
	return pruned, s.store.Save(kept)
}

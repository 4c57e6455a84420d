package service

import (
	"context"
	"time"

	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/repository"
)

type workOrderService struct {
	repo repository.WorkOrderRepo
	obs  UseCaseObserver
}

// NewWorkOrderService exposes local work-order bookkeeping.
func NewWorkOrderService(repo repository.WorkOrderRepo, observers ...UseCaseObserver) WorkOrderService {
	return &workOrderService{repo: repo, obs: observerOrNoop(observers)}
}

func (s *workOrderService) Add(ctx context.Context, number, controlNumber string, open bool) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "work_order_add", started, err, map[string]any{"work_order": number})
	}()
	return s.repo.Upsert(ctx, &domain.WorkOrder{
		Number:        number,
		ControlNumber: controlNumber,
		Open:          open,
	})
}

func (s *workOrderService) Get(ctx context.Context, number string) (*domain.WorkOrder, error) {
	return s.repo.Get(ctx, number)
}

func (s *workOrderService) List(ctx context.Context, openOnly bool) ([]*domain.WorkOrder, error) {
	return s.repo.List(ctx, openOnly)
}

func (s *workOrderService) Close(ctx context.Context, number string) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "work_order_close", started, err, map[string]any{"work_order": number})
	}()
	return s.repo.MarkClosed(ctx, number)
}

func (s *workOrderService) Remove(ctx context.Context, number string) (err error) {
	started := time.Now()
	defer func() {
		observe(ctx, s.obs, "work_order_remove", started, err, map[string]any{"work_order": number})
	}()
	return s.repo.Delete(ctx, number)
}

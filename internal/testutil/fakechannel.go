package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/mbetts/wosync/internal/domain"
	"github.com/mbetts/wosync/internal/remote"
)

// FakeChannel is a scripted in-memory remote session. Existing services are
// seeded per work order; submissions land in Submitted and become visible to
// later verifications unless a failure is scripted.
type FakeChannel struct {
	mu sync.Mutex

	Existing map[string][]remote.ExistingService
	Closed   map[string]bool

	// Scripted failures, keyed by work order number.
	FailSubmit map[string]error
	FailVerify map[string]bool // verify returns false
	FailList   map[string]error
	FailClose  map[string]error

	Submitted   map[string][]*domain.StackableEntry
	CloseCalls  []string
	ListCalls   []string
	SubmitCalls int
	OpenCount   int
	CloseCount  int // session closes, not work order closes
}

// NewFakeChannel creates an empty scripted channel.
func NewFakeChannel() *FakeChannel {
	return &FakeChannel{
		Existing:   map[string][]remote.ExistingService{},
		Closed:     map[string]bool{},
		FailSubmit: map[string]error{},
		FailVerify: map[string]bool{},
		FailList:   map[string]error{},
		FailClose:  map[string]error{},
		Submitted:  map[string][]*domain.StackableEntry{},
	}
}

// Open lets the fake act as its own remote.Opener.
func (f *FakeChannel) Open(ctx context.Context) (remote.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.OpenCount++
	return f, nil
}

func (f *FakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CloseCount++
	return nil
}

func (f *FakeChannel) ListExistingServices(ctx context.Context, workOrder string) ([]remote.ExistingService, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls = append(f.ListCalls, workOrder)
	if err := f.FailList[workOrder]; err != nil {
		return nil, err
	}
	return f.Existing[workOrder], nil
}

func (f *FakeChannel) SubmitService(ctx context.Context, workOrder string, entry *domain.StackableEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SubmitCalls++
	if err := f.FailSubmit[workOrder]; err != nil {
		return err
	}
	f.Submitted[workOrder] = append(f.Submitted[workOrder], entry)
	return nil
}

func (f *FakeChannel) VerifyServicePresent(ctx context.Context, workOrder string, entry *domain.StackableEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailVerify[workOrder] {
		return false, nil
	}
	for _, sub := range f.Submitted[workOrder] {
		if sub.ID == entry.ID {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeChannel) CloseWorkOrder(ctx context.Context, workOrder string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CloseCalls = append(f.CloseCalls, workOrder)
	if err := f.FailClose[workOrder]; err != nil {
		return err
	}
	f.Closed[workOrder] = true
	return nil
}

func (f *FakeChannel) IsClosed(ctx context.Context, workOrder string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Closed[workOrder], nil
}

// Seed adds an existing remote service for duplicate-detection tests.
func (f *FakeChannel) Seed(workOrder string, svc remote.ExistingService) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Existing[workOrder] = append(f.Existing[workOrder], svc)
}

var errSession = fmt.Errorf("session unavailable")

// FailingOpener always fails to open a session.
type FailingOpener struct{}

func (FailingOpener) Open(ctx context.Context) (remote.Session, error) {
	return nil, errSession
}

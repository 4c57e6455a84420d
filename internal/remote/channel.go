// Package remote defines the port through which staged services reach the
// remote work-order system. The concrete transport (form filling, selector
// discovery, login) lives behind this interface and is not part of the core.
package remote

import (
	"context"
	"time"

	"github.com/mbetts/wosync/internal/domain"
)

// ExistingService is one service already recorded on the remote side,
// as returned by a listing.
type ExistingService struct {
	Date        time.Time
	Code        int
	Description string
}

// Channel is the capability surface the push engine drives. Every call
// blocks until the remote interaction completes; the remote side is a single
// stateful session, so calls are never issued concurrently.
type Channel interface {
	ListExistingServices(ctx context.Context, workOrder string) ([]ExistingService, error)
	SubmitService(ctx context.Context, workOrder string, entry *domain.StackableEntry) error
	VerifyServicePresent(ctx context.Context, workOrder string, entry *domain.StackableEntry) (bool, error)
	CloseWorkOrder(ctx context.Context, workOrder string) error
	IsClosed(ctx context.Context, workOrder string) (bool, error)
}

// Session is a live channel plus its teardown. The engine opens one session
// per push run and releases it on every exit path.
type Session interface {
	Channel
	Close() error
}

// Opener acquires a remote session. Implementations own login and whatever
// transport state the session needs.
type Opener interface {
	Open(ctx context.Context) (Session, error)
}

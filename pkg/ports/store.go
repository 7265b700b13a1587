package ports

import (
	"context"
	"time"

	"github.com/aretw0/relay/pkg/domain"
)

// SessionStore persists conversation sessions. Only the session reference is
// stored (ids plus the tool cache); runs and messages stay at the provider.
type SessionStore interface {
	// Save persists the session under its ID.
	Save(ctx context.Context, session *domain.Session) error

	// Load retrieves a session by ID.
	// Returns domain.ErrSessionNotFound if it does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Session, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of stored sessions.
	List(ctx context.Context) ([]string, error)
}

// UnlockFunc releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker serializes session access across processes. Single
// process deployments can leave it nil; the session manager's local locks
// are enough there. Lock blocks until acquired or the context is cancelled.
type DistributedLocker interface {
	Lock(ctx context.Context, sessionID string, ttl time.Duration) (UnlockFunc, error)
}

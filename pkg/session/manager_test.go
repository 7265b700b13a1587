package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/relay/pkg/adapters/memory"
	"github.com/aretw0/relay/pkg/domain"
	"github.com/aretw0/relay/pkg/ports"
)

func newSession(id string) *domain.Session {
	return domain.NewSession(id, "asst_1", "thread_1", nil)
}

func TestManager_SaveAndLoad(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, newSession("sess-1")))

	loaded, err := m.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "asst_1", loaded.AssistantID)

	_, err = m.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_DeleteAndList(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, m.Save(ctx, newSession("sess-1")))
	require.NoError(t, m.Save(ctx, newSession("sess-2")))

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	require.NoError(t, m.Delete(ctx, "sess-1"))
	_, err = m.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_WithLockSerializes(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.WithLock(ctx, "sess-1", func(ctx context.Context) error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(2 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "critical sections for one session must not overlap")
}

func TestManager_LockEntriesGarbageCollected(t *testing.T) {
	m := NewManager(memory.NewStore())
	ctx := context.Background()

	require.NoError(t, m.WithLock(ctx, "sess-1", func(ctx context.Context) error { return nil }))

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks)
}

// recordingLocker tracks distributed lock usage.
type recordingLocker struct {
	lockCalls   int
	unlockCalls int
	lockErr     error
}

func (l *recordingLocker) Lock(ctx context.Context, sessionID string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	l.lockCalls++
	return func(ctx context.Context) error {
		l.unlockCalls++
		return nil
	}, nil
}

func TestManager_DistributedLocker(t *testing.T) {
	locker := &recordingLocker{}
	m := NewManager(memory.NewStore(), WithLocker(locker))
	ctx := context.Background()

	require.NoError(t, m.WithLock(ctx, "sess-1", func(ctx context.Context) error { return nil }))
	assert.Equal(t, 1, locker.lockCalls)
	assert.Equal(t, 1, locker.unlockCalls)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	locker := &recordingLocker{lockErr: errors.New("held elsewhere")}
	m := NewManager(memory.NewStore(), WithLocker(locker))

	err := m.WithLock(context.Background(), "sess-1", func(ctx context.Context) error {
		t.Fatal("fn must not run without the distributed lock")
		return nil
	})
	assert.ErrorContains(t, err, "held elsewhere")
}

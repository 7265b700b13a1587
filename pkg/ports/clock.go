package ports

import (
	"context"
	"time"
)

// Clock abstracts time for the polling loop so tests can drive it without
// real delay. Sleep must return early with the context's error when the
// context is cancelled.
type Clock interface {
	Now() time.Time
	Sleep(ctx context.Context, d time.Duration) error
}

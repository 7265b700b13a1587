package ports

import (
	"context"
	"encoding/json"
)

// ActionInvoker performs one external action. A non-success response is an
// error; callers treat every call as a single best-effort attempt.
type ActionInvoker interface {
	Execute(ctx context.Context, actionID string, payload map[string]any) (json.RawMessage, error)
}

package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrToolNotFound is returned when a tool name resolves to no catalog entry.
var ErrToolNotFound = errors.New("tool not found")

// ErrInvalidCredential is returned when the action provider rejects the API key.
var ErrInvalidCredential = errors.New("invalid action provider credential")

// SchemaFetchError indicates the action catalog document could not be
// retrieved or parsed. Catalog translation aborts entirely on this error.
type SchemaFetchError struct {
	StatusCode int
	Err        error
}

func (e *SchemaFetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("schema fetch failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("schema fetch failed: %v", e.Err)
}

func (e *SchemaFetchError) Unwrap() error { return e.Err }

// ActionExecutionError indicates one action call failed at the provider.
// It carries the raw response so the failure is diagnosable from logs.
type ActionExecutionError struct {
	ActionID   string
	StatusCode int
	Body       string
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("action %s failed: status %d: %s", e.ActionID, e.StatusCode, e.Body)
}

// ArgumentParseError indicates a tool call carried malformed JSON arguments.
// The call is skipped; the rest of the batch proceeds.
type ArgumentParseError struct {
	ToolCallID string
	Err        error
}

func (e *ArgumentParseError) Error() string {
	return fmt.Sprintf("tool call %s: malformed arguments: %v", e.ToolCallID, e.Err)
}

func (e *ArgumentParseError) Unwrap() error { return e.Err }

// RunCreationError indicates the provider refused to start a run, typically
// because the thread already has an unresolved active run. Never retried.
type RunCreationError struct {
	ThreadID string
	Err      error
}

func (e *RunCreationError) Error() string {
	return fmt.Sprintf("run creation failed on thread %s: %v", e.ThreadID, e.Err)
}

func (e *RunCreationError) Unwrap() error { return e.Err }

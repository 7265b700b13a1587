package domain

// RunStatus is the closed set of lifecycle states a run can report.
// Provider statuses outside this set map to StatusUnknown so a new upstream
// state surfaces in logs instead of being silently skipped.
type RunStatus string

const (
	StatusQueued         RunStatus = "queued"
	StatusInProgress     RunStatus = "in_progress"
	StatusRequiresAction RunStatus = "requires_action"
	StatusCancelling     RunStatus = "cancelling"
	StatusCompleted      RunStatus = "completed"
	StatusIncomplete     RunStatus = "incomplete"
	StatusExpired        RunStatus = "expired"
	StatusCancelled      RunStatus = "cancelled"
	StatusFailed         RunStatus = "failed"
	StatusUnknown        RunStatus = "unknown"
)

// ParseRunStatus maps a provider status string onto the closed enum.
// The single-l "canceled" spelling folds into StatusCancelled.
func ParseRunStatus(s string) RunStatus {
	switch RunStatus(s) {
	case StatusQueued, StatusInProgress, StatusRequiresAction, StatusCancelling,
		StatusCompleted, StatusIncomplete, StatusExpired, StatusCancelled, StatusFailed:
		return RunStatus(s)
	}
	if s == "canceled" {
		return StatusCancelled
	}
	return StatusUnknown
}

// IsTerminal reports whether no further polling can change the status.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusIncomplete, StatusExpired, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// RunSnapshot is the bridge's view of a run at one poll. PendingCalls is only
// populated while Status is StatusRequiresAction; the provider guarantees the
// batch is stable until outputs are submitted.
type RunSnapshot struct {
	ID           string            `json:"id"`
	ThreadID     string            `json:"thread_id"`
	Status       RunStatus         `json:"status"`
	PendingCalls []ToolCallRequest `json:"pending_calls,omitempty"`
	LastError    string            `json:"last_error,omitempty"`
}

// RunOutcome is the terminal result of driving one run.
// Messages is populated only when Status is StatusCompleted.
type RunOutcome struct {
	RunID    string    `json:"run_id"`
	Status   RunStatus `json:"status"`
	Messages []Message `json:"messages,omitempty"`
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRunStatus(t *testing.T) {
	tests := []struct {
		input string
		want  RunStatus
	}{
		{"queued", StatusQueued},
		{"in_progress", StatusInProgress},
		{"requires_action", StatusRequiresAction},
		{"cancelling", StatusCancelling},
		{"completed", StatusCompleted},
		{"incomplete", StatusIncomplete},
		{"expired", StatusExpired},
		{"cancelled", StatusCancelled},
		{"canceled", StatusCancelled},
		{"failed", StatusFailed},
		{"", StatusUnknown},
		{"something_new", StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRunStatus(tt.input))
		})
	}
}

func TestRunStatus_IsTerminal(t *testing.T) {
	terminal := []RunStatus{StatusCompleted, StatusIncomplete, StatusExpired, StatusCancelled, StatusFailed}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), string(s))
	}

	live := []RunStatus{StatusQueued, StatusInProgress, StatusRequiresAction, StatusCancelling, StatusUnknown}
	for _, s := range live {
		assert.False(t, s.IsTerminal(), string(s))
	}
}

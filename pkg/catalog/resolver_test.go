package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/relay/pkg/domain"
)

func TestResolve(t *testing.T) {
	defs := []domain.ToolDefinition{
		{Name: "google_sheets_find_row", ActionID: "01ABC"},
		{Name: "gmail_send_email", ActionID: "02DEF"},
		{Name: "gmail_send_email", ActionID: "03GHI"},
	}

	tests := []struct {
		name         string
		toolName     string
		wantActionID string
		wantOK       bool
	}{
		{"known tool", "google_sheets_find_row", "01ABC", true},
		{"duplicate resolves to first", "gmail_send_email", "02DEF", true},
		{"unknown tool", "slack_post_message", "", false},
		{"empty name", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, ok := Resolve(tt.toolName, defs)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantActionID, def.ActionID)
		})
	}
}

func TestResolve_EmptyCatalog(t *testing.T) {
	_, ok := Resolve("anything", nil)
	assert.False(t, ok)
}

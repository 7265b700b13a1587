package domain

// Session is the explicit conversation state passed through every bridge
// operation. It replaces the ambient assistant/thread/run fields the original
// prototype mutated in place: operations take a session and return an updated
// one, nothing is hidden in globals.
type Session struct {
	// ID identifies the session in the store; unrelated to provider ids.
	ID string `json:"id"`

	// AssistantID and ThreadID reference provider-owned objects.
	AssistantID string `json:"assistant_id"`
	ThreadID    string `json:"thread_id"`

	// ActiveRunID is the last run driven for this session, terminal or not.
	ActiveRunID string `json:"active_run_id,omitempty"`

	// Tools is the cached catalog assigned at assistant creation.
	// Resolution during requires_action scans this list.
	Tools []ToolDefinition `json:"tools"`

	// Envelope holds the ciphertext when the session is stored through the
	// encryption middleware. Empty on plaintext sessions.
	Envelope string `json:"envelope,omitempty"`
}

// NewSession creates a session bound to an assistant and thread.
func NewSession(id, assistantID, threadID string, tools []ToolDefinition) *Session {
	return &Session{
		ID:          id,
		AssistantID: assistantID,
		ThreadID:    threadID,
		Tools:       tools,
	}
}

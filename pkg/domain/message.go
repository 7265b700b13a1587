package domain

// Message roles as reported by the assistant provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a thread's conversation history, flattened to its
// first text segment. Newest-first ordering follows the provider's listing.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// AssistantInfo is the bridge's reference to a remote assistant plus the
// local tool cache used for resolution. The provider owns the assistant
// itself; this is rebuilt on every create or attach.
type AssistantInfo struct {
	ID    string           `json:"id"`
	Name  string           `json:"name"`
	Tools []ToolDefinition `json:"tools"`
}

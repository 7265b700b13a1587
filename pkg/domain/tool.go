package domain

// ParameterSchema is the flattened JSON-Schema fragment advertised for a tool.
// It mirrors the shape the assistant provider expects for function tools.
type ParameterSchema struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
	Required   []string       `json:"required,omitempty"`
}

// EmptyParameters is the schema used when an action declares no request body.
func EmptyParameters() ParameterSchema {
	return ParameterSchema{Type: "object", Properties: map[string]any{}}
}

// ToolDefinition describes one external action exposed to the assistant as a
// callable tool. Name is the callable identifier the assistant dispatches on;
// ActionID addresses the action at the provider. The two are separate fields
// on purpose: earlier iterations smuggled the action id through the tool
// description, which made resolution depend on a documentation field.
type ToolDefinition struct {
	Name       string          `json:"name"`
	ActionID   string          `json:"action_id"`
	Parameters ParameterSchema `json:"parameters"`
}

// ToolCallRequest is one pending invocation emitted by a run in
// requires_action. Arguments is the raw JSON payload as sent by the provider;
// it is parsed lazily so a malformed payload only poisons its own call.
type ToolCallRequest struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolOutput is the result submitted back for one tool call.
type ToolOutput struct {
	ToolCallID string `json:"tool_call_id"`
	Output     string `json:"output"`
}

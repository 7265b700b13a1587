// Package openai implements ports.AssistantProvider over the OpenAI
// Assistants API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/aretw0/relay/pkg/domain"
)

// DefaultModel is used when no model is configured.
const DefaultModel = openai.GPT4o

// Provider adapts the go-openai client to the bridge's provider port.
type Provider struct {
	client *openai.Client
	model  string
}

// Option configures the Provider.
type Option func(*Provider)

// WithModel selects the model assigned to created assistants.
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// New creates a Provider authenticated with the given API key.
func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		client: openai.NewClient(apiKey),
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewFromClient wraps an existing go-openai client.
func NewFromClient(client *openai.Client, opts ...Option) *Provider {
	p := &Provider{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CreateAssistant registers the assistant with the translated catalog.
func (p *Provider) CreateAssistant(ctx context.Context, name, instructions string, tools []domain.ToolDefinition) (*domain.AssistantInfo, error) {
	assistant, err := p.client.CreateAssistant(ctx, openai.AssistantRequest{
		Model:        p.model,
		Name:         &name,
		Instructions: &instructions,
		Tools:        foldTools(tools),
	})
	if err != nil {
		return nil, fmt.Errorf("create assistant: %w", err)
	}
	return assistantInfo(assistant), nil
}

// RetrieveAssistant fetches an existing assistant and lifts its tool catalog
// back into domain form.
func (p *Provider) RetrieveAssistant(ctx context.Context, assistantID string) (*domain.AssistantInfo, error) {
	assistant, err := p.client.RetrieveAssistant(ctx, assistantID)
	if err != nil {
		return nil, fmt.Errorf("retrieve assistant %s: %w", assistantID, err)
	}
	return assistantInfo(assistant), nil
}

// CreateThread opens a new conversation thread.
func (p *Provider) CreateThread(ctx context.Context) (string, error) {
	thread, err := p.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", fmt.Errorf("create thread: %w", err)
	}
	return thread.ID, nil
}

// CreateMessage appends a message to the thread.
func (p *Provider) CreateMessage(ctx context.Context, threadID, role, content string) error {
	_, err := p.client.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    role,
		Content: content,
	})
	if err != nil {
		return fmt.Errorf("create message on thread %s: %w", threadID, err)
	}
	return nil
}

// ListMessages returns the thread's messages newest first, flattened to
// their first text segment.
func (p *Provider) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	list, err := p.client.ListMessage(ctx, threadID, nil, nil, nil, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list messages on thread %s: %w", threadID, err)
	}

	messages := make([]domain.Message, 0, len(list.Messages))
	for _, msg := range list.Messages {
		content := ""
		for _, part := range msg.Content {
			if part.Text != nil {
				content = part.Text.Value
				break
			}
		}
		messages = append(messages, domain.Message{
			ID:      msg.ID,
			Role:    msg.Role,
			Content: content,
		})
	}
	return messages, nil
}

// CreateRun starts a run of the assistant against the thread.
func (p *Provider) CreateRun(ctx context.Context, threadID, assistantID string) (*domain.RunSnapshot, error) {
	run, err := p.client.CreateRun(ctx, threadID, openai.RunRequest{
		AssistantID: assistantID,
	})
	if err != nil {
		return nil, err
	}
	return snapshot(run), nil
}

// RetrieveRun re-fetches the run's current state.
func (p *Provider) RetrieveRun(ctx context.Context, threadID, runID string) (*domain.RunSnapshot, error) {
	run, err := p.client.RetrieveRun(ctx, threadID, runID)
	if err != nil {
		return nil, fmt.Errorf("retrieve run %s: %w", runID, err)
	}
	return snapshot(run), nil
}

// SubmitToolOutputs resumes a run waiting in requires_action.
func (p *Provider) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.ToolOutput) error {
	converted := make([]openai.ToolOutput, len(outputs))
	for i, out := range outputs {
		converted[i] = openai.ToolOutput{
			ToolCallID: out.ToolCallID,
			Output:     out.Output,
		}
	}

	_, err := p.client.SubmitToolOutputs(ctx, threadID, runID, openai.SubmitToolOutputsRequest{
		ToolOutputs: converted,
	})
	if err != nil {
		return fmt.Errorf("submit tool outputs for run %s: %w", runID, err)
	}
	return nil
}

// foldTools converts domain definitions into provider function tools.
// The provider only persists name/description/parameters per function, so
// the action id rides in the description slot and is lifted back out by
// liftTools on retrieval.
func foldTools(tools []domain.ToolDefinition) []openai.AssistantTool {
	converted := make([]openai.AssistantTool, len(tools))
	for i, def := range tools {
		converted[i] = openai.AssistantTool{
			Type: openai.AssistantToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.ActionID,
				Parameters:  def.Parameters,
			},
		}
	}
	return converted
}

// liftTools is the inverse of foldTools. Non-function tools are ignored.
func liftTools(tools []openai.AssistantTool) []domain.ToolDefinition {
	defs := make([]domain.ToolDefinition, 0, len(tools))
	for _, tool := range tools {
		if tool.Type != openai.AssistantToolTypeFunction || tool.Function == nil {
			continue
		}

		params := domain.EmptyParameters()
		if tool.Function.Parameters != nil {
			if raw, err := json.Marshal(tool.Function.Parameters); err == nil {
				_ = json.Unmarshal(raw, &params)
			}
		}

		defs = append(defs, domain.ToolDefinition{
			Name:       tool.Function.Name,
			ActionID:   tool.Function.Description,
			Parameters: params,
		})
	}
	return defs
}

func assistantInfo(assistant openai.Assistant) *domain.AssistantInfo {
	name := ""
	if assistant.Name != nil {
		name = *assistant.Name
	}
	return &domain.AssistantInfo{
		ID:    assistant.ID,
		Name:  name,
		Tools: liftTools(assistant.Tools),
	}
}

// snapshot maps a provider run onto the closed domain lifecycle.
func snapshot(run openai.Run) *domain.RunSnapshot {
	s := &domain.RunSnapshot{
		ID:       run.ID,
		ThreadID: run.ThreadID,
		Status:   domain.ParseRunStatus(string(run.Status)),
	}

	if run.LastError != nil {
		s.LastError = fmt.Sprintf("%s: %s", run.LastError.Code, run.LastError.Message)
	}

	if run.RequiredAction != nil && run.RequiredAction.SubmitToolOutputs != nil {
		calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
		s.PendingCalls = make([]domain.ToolCallRequest, 0, len(calls))
		for _, call := range calls {
			s.PendingCalls = append(s.PendingCalls, domain.ToolCallRequest{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
	}
	return s
}

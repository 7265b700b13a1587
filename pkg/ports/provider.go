package ports

import (
	"context"

	"github.com/aretw0/relay/pkg/domain"
)

// AssistantProvider is the behavioral boundary with the remote assistant-run
// service. It owns assistants, threads, messages, and runs; the bridge only
// holds ids. Every call is a single attempt, no retries.
type AssistantProvider interface {
	// CreateAssistant registers an assistant with the given tool catalog and
	// returns its info. The tool list is immutable for the assistant's lifetime.
	CreateAssistant(ctx context.Context, name, instructions string, tools []domain.ToolDefinition) (*domain.AssistantInfo, error)

	// RetrieveAssistant fetches an existing assistant, including the tool
	// catalog it was created with.
	RetrieveAssistant(ctx context.Context, assistantID string) (*domain.AssistantInfo, error)

	// CreateThread opens a fresh conversation container and returns its id.
	CreateThread(ctx context.Context) (string, error)

	// CreateMessage appends a message to the thread.
	CreateMessage(ctx context.Context, threadID, role, content string) error

	// ListMessages returns the thread's messages, newest first.
	ListMessages(ctx context.Context, threadID string) ([]domain.Message, error)

	// CreateRun starts a run of the assistant against the thread's messages.
	CreateRun(ctx context.Context, threadID, assistantID string) (*domain.RunSnapshot, error)

	// RetrieveRun re-fetches the current state of a run.
	RetrieveRun(ctx context.Context, threadID, runID string) (*domain.RunSnapshot, error)

	// SubmitToolOutputs resumes a run waiting in requires_action. The batch
	// may be smaller than the pending batch; missing ids keep their calls
	// stalled at the provider.
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.ToolOutput) error
}

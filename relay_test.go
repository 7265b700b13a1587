package relay

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/relay/pkg/domain"
)

const bridgeDoc = `{
  "openapi": "3.0.2",
  "info": {"title": "t", "version": "1"},
  "paths": {
    "/api/v1/exposed/01ABC/execute/": {
      "post": {"operationId": "google_sheets_find_row", "responses": {"200": {"description": "OK"}}}
    }
  }
}`

// instantClock makes polling immediate in tests.
type instantClock struct{}

func (instantClock) Now() time.Time { return time.Unix(0, 0) }

func (instantClock) Sleep(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

// scriptedProvider drives a fixed run lifecycle.
type scriptedProvider struct {
	script []*domain.RunSnapshot
	polls  int

	createdTools []domain.ToolDefinition
	userMessages []string
	submitted    [][]domain.ToolOutput
}

func (p *scriptedProvider) CreateAssistant(ctx context.Context, name, instructions string, tools []domain.ToolDefinition) (*domain.AssistantInfo, error) {
	p.createdTools = tools
	return &domain.AssistantInfo{ID: "asst_1", Name: name, Tools: tools}, nil
}

func (p *scriptedProvider) RetrieveAssistant(ctx context.Context, assistantID string) (*domain.AssistantInfo, error) {
	return &domain.AssistantInfo{ID: assistantID, Name: "relay", Tools: p.createdTools}, nil
}

func (p *scriptedProvider) CreateThread(ctx context.Context) (string, error) {
	return "thread_1", nil
}

func (p *scriptedProvider) CreateMessage(ctx context.Context, threadID, role, content string) error {
	p.userMessages = append(p.userMessages, content)
	return nil
}

func (p *scriptedProvider) ListMessages(ctx context.Context, threadID string) ([]domain.Message, error) {
	return []domain.Message{
		{ID: "msg_2", Role: domain.RoleAssistant, Content: "row found"},
		{ID: "msg_1", Role: domain.RoleUser, Content: "find it"},
	}, nil
}

func (p *scriptedProvider) CreateRun(ctx context.Context, threadID, assistantID string) (*domain.RunSnapshot, error) {
	return &domain.RunSnapshot{ID: "run_1", ThreadID: threadID, Status: domain.StatusQueued}, nil
}

func (p *scriptedProvider) RetrieveRun(ctx context.Context, threadID, runID string) (*domain.RunSnapshot, error) {
	if p.polls >= len(p.script) {
		return nil, errors.New("script exhausted")
	}
	snap := p.script[p.polls]
	p.polls++
	return snap, nil
}

func (p *scriptedProvider) SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []domain.ToolOutput) error {
	p.submitted = append(p.submitted, outputs)
	return nil
}

// fakeGateway satisfies ActionGateway.
type fakeGateway struct {
	checkErr error
	executed []string
}

func (g *fakeGateway) Check(ctx context.Context) error {
	return g.checkErr
}

func (g *fakeGateway) OpenAPIDocument(ctx context.Context) ([]byte, error) {
	return []byte(bridgeDoc), nil
}

func (g *fakeGateway) Execute(ctx context.Context, actionID string, payload map[string]any) (json.RawMessage, error) {
	g.executed = append(g.executed, actionID)
	return json.RawMessage(`{"row": 5}`), nil
}

func newTestBridge(t *testing.T, provider *scriptedProvider, gateway *fakeGateway) *Bridge {
	t.Helper()

	bridge, err := New(provider, gateway,
		WithClock(instantClock{}),
		WithPollInterval(time.Millisecond),
	)
	require.NoError(t, err)
	return bridge
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(nil, &fakeGateway{})
	assert.Error(t, err)

	_, err = New(&scriptedProvider{}, nil)
	assert.Error(t, err)
}

func TestVerifyCredentials(t *testing.T) {
	t.Run("lenient by default", func(t *testing.T) {
		gateway := &fakeGateway{checkErr: domain.ErrInvalidCredential}
		bridge := newTestBridge(t, &scriptedProvider{}, gateway)
		assert.NoError(t, bridge.VerifyCredentials(context.Background()))
	})

	t.Run("strict fails closed", func(t *testing.T) {
		gateway := &fakeGateway{checkErr: domain.ErrInvalidCredential}
		provider := &scriptedProvider{}
		bridge, err := New(provider, gateway, WithStrictAuth(true))
		require.NoError(t, err)

		err = bridge.VerifyCredentials(context.Background())
		assert.ErrorIs(t, err, domain.ErrInvalidCredential)
	})
}

func TestNewAssistant_TranslatesCatalog(t *testing.T) {
	provider := &scriptedProvider{}
	bridge := newTestBridge(t, provider, &fakeGateway{})

	info, err := bridge.NewAssistant(context.Background(), "relay", "help the user")
	require.NoError(t, err)
	assert.Equal(t, "asst_1", info.ID)
	require.Len(t, provider.createdTools, 1)
	assert.Equal(t, "google_sheets_find_row", provider.createdTools[0].Name)
	assert.Equal(t, "01ABC", provider.createdTools[0].ActionID)
}

func TestSend_FullConversationTurn(t *testing.T) {
	provider := &scriptedProvider{
		script: []*domain.RunSnapshot{
			{ID: "run_1", ThreadID: "thread_1", Status: domain.StatusInProgress},
			{ID: "run_1", ThreadID: "thread_1", Status: domain.StatusRequiresAction, PendingCalls: []domain.ToolCallRequest{
				{ID: "call_1", Name: "google_sheets_find_row", Arguments: `{"sheet": "S"}`},
			}},
			{ID: "run_1", ThreadID: "thread_1", Status: domain.StatusCompleted},
		},
	}
	gateway := &fakeGateway{}
	bridge := newTestBridge(t, provider, gateway)
	ctx := context.Background()

	info, err := bridge.NewAssistant(ctx, "relay", "help")
	require.NoError(t, err)

	sess, err := bridge.StartSession(ctx, info)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "thread_1", sess.ThreadID)

	reply, err := bridge.Send(ctx, sess.ID, "find my row")
	require.NoError(t, err)

	assert.Equal(t, []string{"find my row"}, provider.userMessages)
	assert.Equal(t, []string{"01ABC"}, gateway.executed)
	require.Len(t, provider.submitted, 1)

	assert.Equal(t, domain.StatusCompleted, reply.Status)
	assert.Equal(t, "row found", reply.Text)
	assert.Equal(t, "run_1", reply.RunID)

	// ActiveRunID persisted for the session.
	resumed, err := bridge.ResumeSession(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "run_1", resumed.ActiveRunID)
}

func TestSend_UnknownSession(t *testing.T) {
	bridge := newTestBridge(t, &scriptedProvider{}, &fakeGateway{})
	_, err := bridge.Send(context.Background(), "ghost", "hello")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSend_TerminalFailureHasNoText(t *testing.T) {
	provider := &scriptedProvider{
		script: []*domain.RunSnapshot{
			{ID: "run_1", ThreadID: "thread_1", Status: domain.StatusFailed},
		},
	}
	bridge := newTestBridge(t, provider, &fakeGateway{})
	ctx := context.Background()

	info, err := bridge.NewAssistant(ctx, "relay", "help")
	require.NoError(t, err)
	sess, err := bridge.StartSession(ctx, info)
	require.NoError(t, err)

	reply, err := bridge.Send(ctx, sess.ID, "do something")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, reply.Status)
	assert.Empty(t, reply.Text)
	assert.Empty(t, reply.Messages)
}

func TestHistory(t *testing.T) {
	provider := &scriptedProvider{}
	bridge := newTestBridge(t, provider, &fakeGateway{})
	ctx := context.Background()

	info, err := bridge.NewAssistant(ctx, "relay", "help")
	require.NoError(t, err)
	sess, err := bridge.StartSession(ctx, info)
	require.NoError(t, err)

	messages, err := bridge.History(ctx, sess.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, domain.RoleAssistant, messages[0].Role)
}

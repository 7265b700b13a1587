package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/relay/internal/logging"
	"github.com/aretw0/relay/internal/runtime"
	"github.com/aretw0/relay/pkg/adapters/memory"
	"github.com/aretw0/relay/pkg/catalog"
	"github.com/aretw0/relay/pkg/domain"
	"github.com/aretw0/relay/pkg/ports"
	"github.com/aretw0/relay/pkg/session"
)

// Version is the release version of the relay module.
const Version = "0.1.0"

// ActionGateway is the action-provider surface the bridge needs: catalog
// source, action execution, and credential validation. *actions.Client
// satisfies it.
type ActionGateway interface {
	ports.ActionInvoker
	catalog.SchemaSource

	// Check validates the provider credential; domain.ErrInvalidCredential
	// on rejection.
	Check(ctx context.Context) error
}

// Bridge is the high-level entry point for the Relay library. It wires the
// catalog translator, the action gateway, and the run loop behind a small
// session-oriented API.
type Bridge struct {
	provider   ports.AssistantProvider
	gateway    ActionGateway
	translator *catalog.Translator
	sessions   *session.Manager
	loop       *runtime.Loop
	logger     *slog.Logger
	strictAuth bool

	store    ports.SessionStore
	locker   ports.DistributedLocker
	clock    ports.Clock
	interval time.Duration
	registry prometheus.Registerer
}

// Option defines a functional option for configuring the Bridge.
type Option func(*Bridge)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// WithSessionStore injects a durable session store (default: in-memory).
func WithSessionStore(store ports.SessionStore) Option {
	return func(b *Bridge) {
		b.store = store
	}
}

// WithLocker enables distributed session locking for multi-replica serving.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(b *Bridge) {
		b.locker = locker
	}
}

// WithClock injects a time source for the poll loop.
func WithClock(clock ports.Clock) Option {
	return func(b *Bridge) {
		b.clock = clock
	}
}

// WithPollInterval sets the run poll interval.
func WithPollInterval(d time.Duration) Option {
	return func(b *Bridge) {
		b.interval = d
	}
}

// WithMetricsRegistry registers run-loop metrics with the given registerer.
func WithMetricsRegistry(reg prometheus.Registerer) Option {
	return func(b *Bridge) {
		b.registry = reg
	}
}

// WithStrictAuth makes VerifyCredentials fail closed instead of proceeding
// with a warning when the action provider rejects the API key.
func WithStrictAuth(strict bool) Option {
	return func(b *Bridge) {
		b.strictAuth = strict
	}
}

// New initializes a Bridge over an assistant provider and an action gateway.
// It performs no network calls; use VerifyCredentials to probe the gateway.
func New(provider ports.AssistantProvider, gateway ActionGateway, opts ...Option) (*Bridge, error) {
	if provider == nil {
		return nil, fmt.Errorf("assistant provider is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("action gateway is required")
	}

	b := &Bridge{
		provider: provider,
		gateway:  gateway,
		logger:   logging.NewNop(),
		interval: runtime.DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.store == nil {
		b.store = memory.NewStore()
	}

	managerOpts := []session.Option{session.WithLogger(b.logger)}
	if b.locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(b.locker))
	}
	b.sessions = session.NewManager(b.store, managerOpts...)

	b.translator = catalog.NewTranslator(gateway, catalog.WithLogger(b.logger))

	loopOpts := []runtime.Option{
		runtime.WithLogger(b.logger),
		runtime.WithInterval(b.interval),
		runtime.WithMetrics(runtime.NewMetrics(b.registry)),
	}
	if b.clock != nil {
		loopOpts = append(loopOpts, runtime.WithClock(b.clock))
	}
	b.loop = runtime.NewLoop(provider, gateway, loopOpts...)

	return b, nil
}

// VerifyCredentials probes the action provider credential. The reference
// behavior is to warn and continue, so a rejected key only fails the call
// when WithStrictAuth is set.
func (b *Bridge) VerifyCredentials(ctx context.Context) error {
	if err := b.gateway.Check(ctx); err != nil {
		if b.strictAuth {
			return err
		}
		b.logger.Warn("action provider credential check failed, continuing", "err", err)
	} else {
		b.logger.Info("action provider credential verified")
	}
	return nil
}

// NewAssistant translates the current action catalog and creates an
// assistant carrying it. A catalog fetch failure aborts before anything is
// created, so there is never a partially configured assistant.
func (b *Bridge) NewAssistant(ctx context.Context, name, instructions string) (*domain.AssistantInfo, error) {
	b.logger.Info("loading action catalog")
	tools, err := b.translator.FetchAndTranslate(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("action catalog loaded", "tools", len(tools))

	info, err := b.provider.CreateAssistant(ctx, name, instructions, tools)
	if err != nil {
		return nil, err
	}
	b.logger.Info("assistant created", "assistant_id", info.ID, "name", info.Name)
	return info, nil
}

// AttachAssistant connects to an existing assistant and rebuilds the local
// tool cache from the catalog it was created with.
func (b *Bridge) AttachAssistant(ctx context.Context, assistantID string) (*domain.AssistantInfo, error) {
	info, err := b.provider.RetrieveAssistant(ctx, assistantID)
	if err != nil {
		return nil, err
	}
	b.logger.Info("assistant attached", "assistant_id", info.ID, "name", info.Name, "tools", len(info.Tools))
	return info, nil
}

// Catalog fetches and translates the current action catalog without
// creating anything. Used by introspection commands.
func (b *Bridge) Catalog(ctx context.Context) ([]domain.ToolDefinition, error) {
	return b.translator.FetchAndTranslate(ctx)
}

// StartSession opens a fresh thread for the assistant and persists the
// session reference.
func (b *Bridge) StartSession(ctx context.Context, info *domain.AssistantInfo) (*domain.Session, error) {
	threadID, err := b.provider.CreateThread(ctx)
	if err != nil {
		return nil, err
	}

	sess := domain.NewSession(uuid.NewString(), info.ID, threadID, info.Tools)
	if err := b.sessions.Save(ctx, sess); err != nil {
		return nil, err
	}
	b.logger.Info("session started", "session_id", sess.ID, "thread_id", threadID)
	return sess, nil
}

// ResumeSession loads a previously started session.
func (b *Bridge) ResumeSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	return b.sessions.Load(ctx, sessionID)
}

// Reply is the result of one conversational turn.
type Reply struct {
	SessionID string           `json:"session_id"`
	RunID     string           `json:"run_id"`
	Status    domain.RunStatus `json:"status"`
	Text      string           `json:"text,omitempty"`
	Messages  []domain.Message `json:"messages,omitempty"`
}

// Send posts a user message to the session's thread and drives a run to a
// terminal status. The whole turn holds the session lock: the provider
// rejects overlapping runs on a thread, so turns are strictly sequential.
// Reply.Text is empty unless the run completed.
func (b *Bridge) Send(ctx context.Context, sessionID, text string) (*Reply, error) {
	var reply *Reply

	err := b.sessions.WithLock(ctx, sessionID, func(ctx context.Context) error {
		sess, err := b.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}

		if err := b.provider.CreateMessage(ctx, sess.ThreadID, domain.RoleUser, text); err != nil {
			return err
		}

		outcome, err := b.loop.Drive(ctx, sess)
		if err != nil {
			return err
		}

		if err := b.store.Save(ctx, sess); err != nil {
			return fmt.Errorf("persist session: %w", err)
		}

		reply = &Reply{
			SessionID: sess.ID,
			RunID:     outcome.RunID,
			Status:    outcome.Status,
			Messages:  outcome.Messages,
		}
		for _, msg := range outcome.Messages {
			if msg.Role == domain.RoleAssistant {
				reply.Text = msg.Content
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// History lists the session thread's messages, newest first.
func (b *Bridge) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	sess, err := b.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return b.provider.ListMessages(ctx, sess.ThreadID)
}

// Sessions exposes the session manager for callers needing listing or
// deletion.
func (b *Bridge) Sessions() *session.Manager {
	return b.sessions
}

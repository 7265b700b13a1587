// Package runtime drives the asynchronous run lifecycle: create a run, poll
// its status, execute pending tool calls on requires_action, submit the
// outputs, and stop at a terminal status.
package runtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aretw0/relay/internal/logging"
	"github.com/aretw0/relay/pkg/catalog"
	"github.com/aretw0/relay/pkg/domain"
	"github.com/aretw0/relay/pkg/ports"
)

// DefaultPollInterval matches the reference cadence. The exact value is not
// load-bearing; it only has to be constant and non-zero.
const DefaultPollInterval = 5 * time.Second

// Loop is the polling state machine for a single conversation. It is
// strictly sequential: one run at a time, tool calls in provider order,
// no retries anywhere.
type Loop struct {
	provider ports.AssistantProvider
	invoker  ports.ActionInvoker
	clock    ports.Clock
	interval time.Duration
	logger   *slog.Logger
	metrics  *Metrics
}

// Option configures the Loop.
type Option func(*Loop)

// WithClock injects a time source, letting tests drive the loop instantly.
func WithClock(clock ports.Clock) Option {
	return func(l *Loop) {
		l.clock = clock
	}
}

// WithInterval sets the poll interval. Non-positive values keep the default.
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithMetrics attaches run-loop instrumentation.
func WithMetrics(m *Metrics) Option {
	return func(l *Loop) {
		l.metrics = m
	}
}

// NewLoop creates a Loop over the given provider and invoker.
func NewLoop(provider ports.AssistantProvider, invoker ports.ActionInvoker, opts ...Option) *Loop {
	l := &Loop{
		provider: provider,
		invoker:  invoker,
		clock:    SystemClock{},
		interval: DefaultPollInterval,
		logger:   logging.NewNop(),
		metrics:  NewMetrics(nil),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Drive creates a run for the session and polls it to a terminal status.
// The session's ActiveRunID is updated in place; the caller persists it.
//
// Failures creating the run surface as *domain.RunCreationError and are
// never retried here. Per-tool-call failures inside a requires_action batch
// are isolated: the failing call's output is omitted (stalling that id at
// the provider) and the rest of the batch proceeds. There is no deadline;
// callers wanting bounded polling cancel the context.
func (l *Loop) Drive(ctx context.Context, session *domain.Session) (*domain.RunOutcome, error) {
	run, err := l.provider.CreateRun(ctx, session.ThreadID, session.AssistantID)
	if err != nil {
		return nil, &domain.RunCreationError{ThreadID: session.ThreadID, Err: err}
	}
	session.ActiveRunID = run.ID
	l.metrics.RunsStarted.Inc()
	started := l.clock.Now()
	l.logger.Info("run created", "run_id", run.ID, "thread_id", session.ThreadID)

	for {
		if err := l.clock.Sleep(ctx, l.interval); err != nil {
			return nil, err
		}

		run, err = l.provider.RetrieveRun(ctx, session.ThreadID, run.ID)
		if err != nil {
			return nil, err
		}
		l.metrics.Polls.Inc()

		switch run.Status {
		case domain.StatusQueued:
			l.logger.Debug("run queued", "run_id", run.ID)

		case domain.StatusInProgress:
			l.logger.Debug("run in progress", "run_id", run.ID)

		case domain.StatusCancelling:
			l.logger.Debug("run cancelling", "run_id", run.ID)

		case domain.StatusRequiresAction:
			l.logger.Info("run requires action", "run_id", run.ID, "pending", len(run.PendingCalls))
			outputs := l.processBatch(ctx, session.Tools, run.PendingCalls)
			if err := l.provider.SubmitToolOutputs(ctx, session.ThreadID, run.ID, outputs); err != nil {
				return nil, err
			}

		case domain.StatusCompleted:
			l.finish(run, started)
			messages, err := l.provider.ListMessages(ctx, session.ThreadID)
			if err != nil {
				return nil, err
			}
			return &domain.RunOutcome{RunID: run.ID, Status: run.Status, Messages: messages}, nil

		case domain.StatusIncomplete, domain.StatusExpired, domain.StatusCancelled, domain.StatusFailed:
			l.finish(run, started)
			return &domain.RunOutcome{RunID: run.ID, Status: run.Status}, nil

		case domain.StatusUnknown:
			l.logger.Warn("run reported unrecognized status, continuing to poll", "run_id", run.ID)
		}
	}
}

func (l *Loop) finish(run *domain.RunSnapshot, started time.Time) {
	l.metrics.RunsFinished.WithLabelValues(string(run.Status)).Inc()
	l.metrics.RunDuration.Observe(l.clock.Now().Sub(started).Seconds())
	if run.LastError != "" {
		l.logger.Warn("run finished with provider error", "run_id", run.ID, "status", run.Status, "last_error", run.LastError)
	} else {
		l.logger.Info("run finished", "run_id", run.ID, "status", run.Status)
	}
}

// processBatch resolves and executes every pending call sequentially,
// collecting outputs for the ones that succeed. A call that fails to parse,
// resolve, or execute produces no output at all: the run stalls on that id
// rather than receiving a fabricated result.
func (l *Loop) processBatch(ctx context.Context, tools []domain.ToolDefinition, calls []domain.ToolCallRequest) []domain.ToolOutput {
	outputs := make([]domain.ToolOutput, 0, len(calls))

	for _, call := range calls {
		var payload map[string]any
		if err := json.Unmarshal([]byte(call.Arguments), &payload); err != nil {
			parseErr := &domain.ArgumentParseError{ToolCallID: call.ID, Err: err}
			l.logger.Error("skipping tool call", "tool_call_id", call.ID, "tool", call.Name, "err", parseErr)
			l.metrics.ToolExecutions.WithLabelValues(OutcomeParseError).Inc()
			continue
		}

		def, ok := catalog.Resolve(call.Name, tools)
		if !ok {
			l.logger.Error("skipping unresolved tool call", "tool_call_id", call.ID, "tool", call.Name)
			l.metrics.ToolExecutions.WithLabelValues(OutcomeUnresolved).Inc()
			continue
		}

		result, err := l.invoker.Execute(ctx, def.ActionID, payload)
		if err != nil {
			l.logger.Error("tool execution failed", "tool_call_id", call.ID, "action_id", def.ActionID, "err", err)
			l.metrics.ToolExecutions.WithLabelValues(OutcomeExecError).Inc()
			continue
		}

		outputs = append(outputs, domain.ToolOutput{
			ToolCallID: call.ID,
			Output:     string(result),
		})
		l.metrics.ToolExecutions.WithLabelValues(OutcomeOK).Inc()
		l.logger.Info("tool executed", "tool_call_id", call.ID, "action_id", def.ActionID)
	}

	return outputs
}

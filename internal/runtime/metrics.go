package runtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the bridge's run-loop instrumentation.
type Metrics struct {
	RunsStarted    prometheus.Counter
	RunsFinished   *prometheus.CounterVec
	Polls          prometheus.Counter
	ToolExecutions *prometheus.CounterVec
	RunDuration    prometheus.Histogram
}

// NewMetrics creates and registers the loop metrics. A nil registerer
// yields unregistered (but usable) collectors, which keeps tests quiet.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "runs_started_total",
			Help:      "Runs created against the assistant provider.",
		}),
		RunsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "runs_finished_total",
			Help:      "Runs that reached a terminal status.",
		}, []string{"status"}),
		Polls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "run_polls_total",
			Help:      "Status polls issued while driving runs.",
		}),
		ToolExecutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "relay",
			Name:      "tool_executions_total",
			Help:      "Tool calls processed during requires_action batches.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "relay",
			Name:      "run_duration_seconds",
			Help:      "Wall time from run creation to terminal status.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
	}

	if reg != nil {
		reg.MustRegister(m.RunsStarted, m.RunsFinished, m.Polls, m.ToolExecutions, m.RunDuration)
	}
	return m
}

// Tool execution outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeParseError = "parse_error"
	OutcomeUnresolved = "unresolved"
	OutcomeExecError  = "exec_error"
)

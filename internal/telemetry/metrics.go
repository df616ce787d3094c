package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payways_submission_outcomes_total",
		Help: "Count of payment submissions by terminal state.",
	}, []string{"state"})

	RiskVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payways_risk_verdicts_total",
		Help: "Count of risk verdicts by level and source (provider or fallback).",
	}, []string{"level", "source"})

	AuthAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payways_auth_attempts_total",
		Help: "Count of register and login attempts by result.",
	}, []string{"method", "result"})

	PersistenceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payways_persistence_failures_total",
		Help: "Count of failed write-through saves per collection.",
	}, []string{"collection"})
)

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/ticket-analyzer/internal/core/domain"
)

// ClassificationMetrics implements ports.ClassificationRecorder.
type ClassificationMetrics struct {
	service string

	resultsTotal  *prometheus.CounterVec
	outcomesTotal *prometheus.CounterVec
	failuresTotal *prometheus.CounterVec
}

func NewClassificationMetrics(service string, registerer prometheus.Registerer) *ClassificationMetrics {
	resultsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classification",
			Name:      "results_total",
			Help:      "Classifications by category and sentiment.",
		},
		[]string{"service", "category", "sentiment"},
	)
	outcomesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classification",
			Name:      "normalize_outcomes_total",
			Help:      "How generator replies were normalized.",
		},
		[]string{"service", "outcome"},
	)
	failuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classification",
			Name:      "generation_failures_total",
			Help:      "Generation calls that produced no reply, by error kind.",
		},
		[]string{"service", "kind"},
	)

	registerer.MustRegister(resultsTotal, outcomesTotal, failuresTotal)

	return &ClassificationMetrics{
		service:       service,
		resultsTotal:  resultsTotal,
		outcomesTotal: outcomesTotal,
		failuresTotal: failuresTotal,
	}
}

func (m *ClassificationMetrics) RecordClassification(result domain.ClassificationResult, outcome string, err error) {
	if err != nil {
		m.failuresTotal.WithLabelValues(m.service, errorKind(err)).Inc()
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.outcomesTotal.WithLabelValues(m.service, outcome).Inc()
	m.resultsTotal.WithLabelValues(m.service, string(result.Category), string(result.Sentiment)).Inc()
}

func errorKind(err error) string {
	switch {
	case domain.IsKind(err, domain.ErrTemporary):
		return "temporary"
	case domain.IsKind(err, domain.ErrConfiguration):
		return "configuration"
	default:
		return "generation"
	}
}

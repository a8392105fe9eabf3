package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Adjustment outcomes used as label values on AdjustmentsTotal.
const (
	OutcomeCommitted      = "committed"
	OutcomeCommittedNoLog = "committed_log_missing"
	OutcomeRejected       = "rejected"
)

// Metrics bundles the service counters on a private registry so tests can
// create isolated instances.
type Metrics struct {
	AdjustmentsTotal       *prometheus.CounterVec
	VersionConflictsTotal  prometheus.Counter
	LogAppendFailuresTotal prometheus.Counter

	registry *prometheus.Registry
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		AdjustmentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solventory_adjustments_total",
			Help: "Inventory adjustment transactions by outcome.",
		}, []string{"outcome"}),
		VersionConflictsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "solventory_version_conflicts_total",
			Help: "Optimistic-lock conflicts observed while committing adjustments.",
		}),
		LogAppendFailuresTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "solventory_log_append_failures_total",
			Help: "Audit log appends that failed after the amount was committed.",
		}),
		registry: reg,
	}
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

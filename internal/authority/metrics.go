package authority

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments the Authority records against,
// mirroring the teacher's internal/adapter/inbound/http.Metrics shape
// (one struct of pre-registered instruments, injected at construction).
// The engine records these but never opens a network port itself — Handler
// exposes them for an embedding host to mount, preserving the "no network
// protocol" non-goal for the core.
type Metrics struct {
	DecisionsTotal     *prometheus.CounterVec
	StoreRebuildsTotal prometheus.Counter
	LookupDuration     prometheus.Histogram
	registry           *prometheus.Registry
}

// NewMetrics creates and registers the Authority's metrics. If reg is nil,
// a private registry is created so multiple Authority instances in the
// same process (as in tests) never collide on metric registration.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Metrics{
		registry: reg,
		DecisionsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "localauthority",
				Name:      "decisions_total",
				Help:      "Total authorization decisions, by resolved outcome",
			},
			[]string{"outcome"},
		),
		StoreRebuildsTotal: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: "localauthority",
				Name:      "store_rebuilds_total",
				Help:      "Total number of store-set rebuilds triggered by the change monitor",
			},
		),
		LookupDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "localauthority",
				Name:      "rule_lookup_duration_seconds",
				Help:      "Duration of a full three-pass rule lookup across the store set",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}
}

// Handler exposes the metrics registry as an http.Handler for an embedding
// host to mount on its own server; the Authority never listens on a port.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

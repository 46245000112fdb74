package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hanja"

// Recorder owns the study counters. Each Recorder registers on its own
// registry so tests can build as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	Judgments     *prometheus.CounterVec
	SessionsBuilt *prometheus.CounterVec
	ExtraRounds   *prometheus.CounterVec
	Resets        *prometheus.CounterVec
	PersistErrors *prometheus.CounterVec
}

func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		Judgments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "judgments_total",
			Help:      "Accepted known/unknown judgments",
		}, []string{"verdict", "round"}),
		SessionsBuilt: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_loaded_total",
			Help:      "Daily sessions loaded, by how the persisted shape was recognised",
		}, []string{"outcome"}),
		ExtraRounds: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extra_rounds_started_total",
			Help:      "Supplemental rounds started",
		}, []string{"kind"}),
		Resets: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Progress resets",
		}, []string{"scope"}),
		PersistErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_errors_total",
			Help:      "Failed or unreadable persistence operations",
		}, []string{"key", "op"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

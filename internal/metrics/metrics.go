package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder abstracts metric emission so core packages can run without
// a registry in tests.
type Recorder interface {
	// ObserveVerification counts one completed verification and its duration
	ObserveVerification(status string, cached bool, seconds float64)

	// IncProviderError counts one degraded analyzer judgment
	IncProviderError(provider, kind string)
}

// PromRecorder emits service metrics to a Prometheus registry
type PromRecorder struct {
	verifications  *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
	duration       *prometheus.HistogramVec
}

// NewPromRecorder registers the service metrics with reg
func NewPromRecorder(reg prometheus.Registerer) *PromRecorder {
	factory := promauto.With(reg)

	return &PromRecorder{
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aletheia_verifications_total",
			Help: "Completed verifications by verdict status and cache reuse.",
		}, []string{"status", "cached"}),
		providerErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aletheia_provider_errors_total",
			Help: "Degraded analyzer judgments by provider and failure kind.",
		}, []string{"provider", "kind"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aletheia_verify_duration_seconds",
			Help:    "Wall time of verification requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"cached"}),
	}
}

func (r *PromRecorder) ObserveVerification(status string, cached bool, seconds float64) {
	c := strconv.FormatBool(cached)
	r.verifications.WithLabelValues(status, c).Inc()
	r.duration.WithLabelValues(c).Observe(seconds)
}

func (r *PromRecorder) IncProviderError(provider, kind string) {
	r.providerErrors.WithLabelValues(provider, kind).Inc()
}

// Nop discards all metrics
type Nop struct{}

func (Nop) ObserveVerification(string, bool, float64) {}
func (Nop) IncProviderError(string, string)           {}

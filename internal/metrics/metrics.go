package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	providerCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_provider_calls_total",
		Help: "Upstream chat-completion calls by provider and outcome.",
	}, []string{"provider", "outcome"})

	providerCallSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_provider_call_seconds",
		Help:    "Upstream chat-completion call duration.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
)

func ObserveProviderCall(provider string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	providerCallsTotal.WithLabelValues(provider, outcome).Inc()
	providerCallSeconds.WithLabelValues(provider).Observe(d.Seconds())
}

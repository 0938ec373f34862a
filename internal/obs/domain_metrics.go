package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// TrackLookupsTotal counts tracking lookups by carrier and outcome.
	TrackLookupsTotal *prometheus.CounterVec
	// UpstreamRequestsTotal counts outbound provider calls by endpoint and HTTP status.
	UpstreamRequestsTotal *prometheus.CounterVec
	// UpstreamLatency records outbound provider call latency in milliseconds.
	UpstreamLatency *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		TrackLookupsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "track_lookups_total",
			Help:      "Count of tracking lookups by carrier and outcome.",
		}, []string{"carrier", "result"})
		UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Count of outbound tracking provider calls by endpoint and status.",
		}, []string{"endpoint", "status"})
		UpstreamLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_ms",
			Help:      "Latency of outbound tracking provider calls in milliseconds.",
			Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"endpoint"})

		mustRegisterCollector(reg, TrackLookupsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				TrackLookupsTotal = v
			}
		})
		mustRegisterCollector(reg, UpstreamRequestsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				UpstreamRequestsTotal = v
			}
		})
		mustRegisterCollector(reg, UpstreamLatency, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.HistogramVec); ok {
				UpstreamLatency = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, replace func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			replace(are.ExistingCollector)
			return
		}
		panic(err)
	}
}

// ObserveTrackLookup records the outcome of a tracking lookup.
func ObserveTrackLookup(carrier, result string) {
	if TrackLookupsTotal == nil {
		return
	}
	TrackLookupsTotal.WithLabelValues(carrier, result).Inc()
}

// ObserveUpstreamCall records one outbound provider call.
func ObserveUpstreamCall(endpoint, status string, millis float64) {
	if UpstreamRequestsTotal != nil {
		UpstreamRequestsTotal.WithLabelValues(endpoint, status).Inc()
	}
	if UpstreamLatency != nil {
		UpstreamLatency.WithLabelValues(endpoint).Observe(millis)
	}
}

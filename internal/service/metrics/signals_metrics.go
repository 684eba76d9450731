package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	SignalLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quantpulse",
			Subsystem: "signals",
			Name:      "latency_seconds",
			Help:      "Latency of signal endpoints",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	SignalErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "quantpulse",
			Subsystem: "signals",
			Name:      "errors_total",
			Help:      "Errors by signal endpoint",
		},
		[]string{"endpoint"},
	)

	RegimeConfidence = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "quantpulse",
			Subsystem: "signals",
			Name:      "regime_confidence_pct",
			Help:      "Latest regime classification confidence per symbol and regime",
		},
		[]string{"symbol", "regime"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(SignalLatency, SignalErrors, RegimeConfidence)
	})
}

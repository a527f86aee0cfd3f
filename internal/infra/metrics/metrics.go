package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SyncMetrics reports reference-data synchronizer outcomes.
type SyncMetrics struct {
	Runs       *prometheus.CounterVec
	Upserts    *prometheus.CounterVec
	DurationMS prometheus.Histogram
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecom",
		Subsystem: "refdata_sync",
		Name:      "runs_total",
		Help:      "Total synchronizer runs by carrier and outcome.",
	}, []string{"carrier", "status"})
	upserts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ecom",
		Subsystem: "refdata_sync",
		Name:      "upserts_total",
		Help:      "Total reference entries upserted by carrier and kind.",
	}, []string{"carrier", "kind"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "ecom",
		Subsystem: "refdata_sync",
		Name:      "run_duration_ms",
		Help:      "Synchronizer run duration in milliseconds.",
		Buckets:   []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
	})

	reg.MustRegister(runs, upserts, duration)
	return &SyncMetrics{Runs: runs, Upserts: upserts, DurationMS: duration}
}

func Handler() http.Handler {
	return promhttp.Handler()
}

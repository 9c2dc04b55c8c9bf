// Package metrics provides Prometheus metrics for lockview.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	fetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockview_fetches_total",
			Help: "Total number of archive fetches by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	fetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lockview_fetch_duration_seconds",
			Help:    "Archive fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	staleResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockview_stale_results_total",
			Help: "Fetch results discarded because their node was gone or superseded",
		},
		[]string{"op"},
	)

	diffAnomaliesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lockview_diff_anomalies_total",
			Help: "Diff entries dropped as anomalies",
		},
		[]string{"kind"},
	)
)

// RecordFetch records a completed fetch.
func RecordFetch(op string, err error, duration time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	fetchesTotal.WithLabelValues(op, outcome).Inc()
	fetchDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordStale records a discarded result.
func RecordStale(op string) {
	staleResultsTotal.WithLabelValues(op).Inc()
}

// RecordAnomaly records a dropped diff entry.
func RecordAnomaly(kind string) {
	diffAnomaliesTotal.WithLabelValues(kind).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

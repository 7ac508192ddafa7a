package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	coremetrics "github.com/refinelab/feedplan/core/metrics"
)

// PromSink records reconciliation runs in Prometheus metrics.
type PromSink struct {
	runs          prometheus.Counter
	duration      prometheus.Histogram
	days          prometheus.Gauge
	parseFailures prometheus.Counter
}

// NewPromSink registers reconciliation metrics on the default Prometheus
// registerer. The Prometheus server should be started separately using
// cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_runs_total",
		Help: "Total number of reconciliation runs",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconcile_duration_seconds",
		Help:    "Time spent reconciling one simulation result",
		Buckets: prometheus.DefBuckets,
	})
	days := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reconcile_report_days",
		Help: "Number of day reports produced by the last run",
	})
	parseFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reconcile_parse_failures_total",
		Help: "Log events with unparsable timestamps seen across runs",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(days); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			days = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(parseFailures); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			parseFailures = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	return &PromSink{runs: runs, duration: duration, days: days, parseFailures: parseFailures}, nil
}

// RecordReconcile implements coremetrics.MetricsSink.
func (s *PromSink) RecordReconcile(ev coremetrics.ReconcileEvent) error {
	s.runs.Inc()
	s.duration.Observe(ev.Duration.Seconds())
	s.days.Set(float64(ev.Days))
	s.parseFailures.Add(float64(ev.ParseFailures))
	return nil
}

// StartPromServer exposes /metrics on the given port until ctx is cancelled.
func StartPromServer(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: ":" + port, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

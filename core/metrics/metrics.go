package metrics

import "time"

// ReconcileEvent captures one reconciliation run for observability.
type ReconcileEvent struct {
	RunID         string
	Days          int
	Events        int
	ParseFailures int
	Duration      time.Duration
	Time          time.Time
}

// MetricsSink records reconciliation runs.
type MetricsSink interface {
	RecordReconcile(ev ReconcileEvent) error
}

// NopSink discards all events.
type NopSink struct{}

// RecordReconcile implements MetricsSink.
func (NopSink) RecordReconcile(ReconcileEvent) error { return nil }

package metrics

import coremetrics "github.com/refinelab/feedplan/core/metrics"

// MultiSink fans reconciliation events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordReconcile forwards the event to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordReconcile(ev coremetrics.ReconcileEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordReconcile(ev); err != nil {
			return err
		}
	}
	return nil
}

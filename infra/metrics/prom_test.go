package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/refinelab/feedplan/core/metrics"
)

func TestPromSinkRecord(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	ev := coremetrics.ReconcileEvent{Days: 7, Events: 120, ParseFailures: 2, Duration: 5 * time.Millisecond}
	if err := sink.RecordReconcile(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := map[string]bool{}
	for _, mf := range mfs {
		found[mf.GetName()] = true
	}
	for _, name := range []string{"reconcile_runs_total", "reconcile_duration_seconds", "reconcile_report_days", "reconcile_parse_failures_total"} {
		if !found[name] {
			t.Fatalf("metric %s not registered", name)
		}
	}
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("first: %v", err)
	}
	if _, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg); err != nil {
		t.Fatalf("second registration must reuse collectors: %v", err)
	}
}

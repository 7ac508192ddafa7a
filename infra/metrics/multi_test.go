package metrics

import (
	"errors"
	"testing"
	"time"

	coremetrics "github.com/refinelab/feedplan/core/metrics"
)

type recordingSink struct {
	events []coremetrics.ReconcileEvent
	err    error
}

func (r *recordingSink) RecordReconcile(ev coremetrics.ReconcileEvent) error {
	r.events = append(r.events, ev)
	return r.err
}

func TestMultiSinkFanout(t *testing.T) {
	a := &recordingSink{}
	b := &recordingSink{}
	m := NewMultiSink(a, b)
	ev := coremetrics.ReconcileEvent{RunID: "r1", Days: 3, Duration: time.Second, Time: time.Now()}
	if err := m.RecordReconcile(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(a.events) != 1 || len(b.events) != 1 {
		t.Fatalf("fanout: %d/%d", len(a.events), len(b.events))
	}
	if a.events[0].RunID != "r1" {
		t.Fatalf("event payload: %#v", a.events[0])
	}
}

func TestMultiSinkFirstError(t *testing.T) {
	fail := &recordingSink{err: errors.New("boom")}
	after := &recordingSink{}
	m := NewMultiSink(fail, after)
	if err := m.RecordReconcile(coremetrics.ReconcileEvent{}); err == nil {
		t.Fatalf("expected error")
	}
	if len(after.events) != 0 {
		t.Fatalf("later sinks should not run after an error")
	}
}

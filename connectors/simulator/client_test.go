package simulator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/refinelab/feedplan/core/report"
)

func TestClientSimulateAgainstMock(t *testing.T) {
	srv := httptest.NewServer(NewServerMock().Routes())
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	res, err := c.Simulate(context.Background(), map[string]any{"schedulingWindow": float64(4)})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if len(res.SimulationData) != 4 {
		t.Fatalf("expected 4 snapshots, got %d", len(res.SimulationData))
	}
	// The synthetic feeds must be reconcilable end to end.
	reports := report.NewEngine(nil).Reconcile(*res)
	if len(reports) != 4 {
		t.Fatalf("expected 4 reports, got %d", len(reports))
	}
	if reports[0].CertifiedStock != 900000 {
		t.Fatalf("certified day 1: %v", reports[0].CertifiedStock)
	}
	if reports[0].ArrivalVolume != 80000 || reports[0].CargoTypes[0] != "Arab Light" {
		t.Fatalf("arrival join: %#v", reports[0])
	}
	last := reports[len(reports)-1]
	if last.DisplayTimeRange == last.Date {
		t.Fatalf("final day window not resolved: %q", last.DisplayTimeRange)
	}
}

func TestClientSimulateServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success": false, "error": "Simulation Infeasible"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if _, err := c.Simulate(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error for success=false")
	}
}

func TestClientSimulateBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if _, err := c.Simulate(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error for status 500")
	}
}

func TestClientAPIKeyHeader(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-Key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, APIKey: "secret"})
	if _, err := c.Simulate(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("api key not sent, got %q", gotKey)
	}
}

func TestClientSaveLoadInputs(t *testing.T) {
	srv := httptest.NewServer(NewServerMock().Routes())
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	plan := map[string]any{"numTanks": float64(12), "processingRate": float64(50000)}
	if err := c.SaveInputs(context.Background(), plan); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := c.LoadInputs(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got["numTanks"] != float64(12) {
		t.Fatalf("inputs did not round trip: %#v", got)
	}
}

func TestClientContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := c.Simulate(ctx, map[string]any{}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestConfigValidate(t *testing.T) {
	if err := (Config{}).Validate(); err == nil {
		t.Fatalf("missing base_url must fail")
	}
	if err := (Config{BaseURL: "http://localhost:5000"}).Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestSyntheticResultShape(t *testing.T) {
	res := SyntheticResult(2, time.Date(2025, 8, 1, 8, 0, 0, 0, time.UTC))
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	// The wire shape must use the service's column names.
	for _, want := range []string{`"simulation_data"`, `"Opening Stock (bbl)"`, `"Vessel Name"`, `"Total Volume Discharged (bbl)"`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("wire shape missing %s", want)
		}
	}
}

package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"

	"github.com/refinelab/feedplan/core/model"
	"github.com/refinelab/feedplan/core/report"
	"github.com/refinelab/feedplan/infra/history"
	"github.com/refinelab/feedplan/infra/logger"
)

// RunSource provides the most recent reconciled run.
type RunSource interface {
	LatestRun(ctx context.Context) (*history.RunRecord, error)
}

// HistorySource lists past reconciled runs.
type HistorySource interface {
	QueryRuns(ctx context.Context, q history.RunQuery) ([]history.RunRecord, error)
}

// PlanStore persists named plan input forms.
type PlanStore interface {
	SavePlan(ctx context.Context, name string, plan map[string]any) error
	LoadPlan(ctx context.Context, name string) (map[string]any, error)
}

// RemoteSaver mirrors plan inputs to the simulation service. Saves are
// best-effort; a failure must not reject the local write.
type RemoteSaver interface {
	SaveInputs(ctx context.Context, plan map[string]any) error
}

// Cache keeps the latest completed run in memory so handlers answer without a
// store round trip. It falls back to the given source until the first run of
// the process completes.
type Cache struct {
	mu       sync.RWMutex
	rec      *history.RunRecord
	fallback RunSource
}

// NewCache creates a Cache backed by fallback, which may be nil.
func NewCache(fallback RunSource) *Cache {
	return &Cache{fallback: fallback}
}

// Set replaces the cached run.
func (c *Cache) Set(rec history.RunRecord) {
	c.mu.Lock()
	c.rec = &rec
	c.mu.Unlock()
}

// LatestRun returns the cached run, or the fallback's latest when none is
// cached yet.
func (c *Cache) LatestRun(ctx context.Context) (*history.RunRecord, error) {
	c.mu.RLock()
	rec := c.rec
	c.mu.RUnlock()
	if rec != nil {
		return rec, nil
	}
	if c.fallback == nil {
		return nil, nil
	}
	return c.fallback.LatestRun(ctx)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// NewReportsHandler returns an HTTP handler exposing the latest enriched
// per-day reports via GET /api/reports. An empty array means no run completed
// yet.
func NewReportsHandler(src RunSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rec, err := src.LatestRun(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		reports := []model.DayReport{}
		if rec != nil {
			reports = rec.Reports
		}
		writeJSON(w, reports)
	})
}

// NewSummaryHandler returns an HTTP handler exposing the latest run summary
// via GET /api/reports/summary. 404 when no run completed yet.
func NewSummaryHandler(src RunSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rec, err := src.LatestRun(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if rec == nil {
			http.Error(w, "no completed run", http.StatusNotFound)
			return
		}
		writeJSON(w, rec.Summary)
	})
}

// NewAlertsHandler returns an HTTP handler exposing the latest run's alerts
// via GET /api/alerts.
func NewAlertsHandler(src RunSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		rec, err := src.LatestRun(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		alerts := []model.Alert{}
		if rec != nil && rec.Result.Alerts != nil {
			alerts = rec.Result.Alerts
		}
		writeJSON(w, alerts)
	})
}

// NewRunsHandler returns an HTTP handler exposing the run history via
// GET /api/runs. ?since= filters by feed day ("DD/MM/YYYY"), ?limit= caps the
// count; unparsable values are ignored.
func NewRunsHandler(hist HistorySource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := history.RunQuery{}
		if s := r.URL.Query().Get("since"); s != "" {
			if day, ok := report.ParseDay(s); ok {
				q.Since = day
			}
		}
		if s := r.URL.Query().Get("limit"); s != "" {
			if n, err := strconv.Atoi(s); err == nil && n > 0 {
				q.Limit = n
			}
		}
		recs, err := hist.QueryRuns(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if recs == nil {
			recs = []history.RunRecord{}
		}
		writeJSON(w, recs)
	})
}

// NewPlanHandler returns an HTTP handler for plan inputs: POST /api/plan
// saves the form, GET /api/plan loads it. The ?name= query selects the form,
// defaulting to "default". Remote mirroring failures are logged only.
func NewPlanHandler(store PlanStore, remote RemoteSaver) http.Handler {
	log := logger.New("api-plan")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "default"
		}
		switch r.Method {
		case http.MethodPost:
			var plan map[string]any
			if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			if err := store.SavePlan(r.Context(), name, plan); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if remote != nil {
				if err := remote.SaveInputs(r.Context(), plan); err != nil {
					log.Warnf("remote save failed for plan %s: %v", name, err)
				}
			}
			writeJSON(w, map[string]any{"success": true, "message": "Inputs saved"})
		case http.MethodGet:
			plan, err := store.LoadPlan(r.Context(), name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if plan == nil {
				plan = map[string]any{}
			}
			writeJSON(w, plan)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})
}

// Routes mounts all report endpoints on a new mux.
func Routes(src RunSource, hist HistorySource, store PlanStore, remote RemoteSaver) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/reports", NewReportsHandler(src))
	mux.Handle("/api/reports/summary", NewSummaryHandler(src))
	mux.Handle("/api/alerts", NewAlertsHandler(src))
	mux.Handle("/api/runs", NewRunsHandler(hist))
	mux.Handle("/api/plan", NewPlanHandler(store, remote))
	return mux
}

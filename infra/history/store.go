package history

import (
	"context"
	"time"

	"github.com/refinelab/feedplan/core/model"
)

// RunRecord captures one reconciled simulation run.
type RunRecord struct {
	RunID     string                 `json:"run_id"`
	CreatedAt time.Time              `json:"created_at"`
	Result    model.SimulationResult `json:"result"`
	Reports   []model.DayReport      `json:"reports"`
	Summary   model.RunSummary       `json:"summary"`
}

// RunQuery defines filters for retrieving run records.
type RunQuery struct {
	Since time.Time
	Limit int
}

// Store persists reconciled runs and the user's plan input forms. Saves are
// best-effort from the caller's point of view: a failed write must never abort
// a reporting run.
type Store interface {
	AppendRun(ctx context.Context, rec RunRecord) error
	QueryRuns(ctx context.Context, q RunQuery) ([]RunRecord, error)
	LatestRun(ctx context.Context) (*RunRecord, error)
	SavePlan(ctx context.Context, name string, plan map[string]any) error
	LoadPlan(ctx context.Context, name string) (map[string]any, error)
	Close() error
}

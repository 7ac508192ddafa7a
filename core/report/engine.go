package report

import (
	"math"

	"github.com/refinelab/feedplan/core/model"
)

// Engine reconciles the three simulation feeds into enriched per-day reports.
// It is stateless: every invocation is a pure function of its inputs and the
// output retains no references into them, so concurrent runs over independent
// results need no coordination.
type Engine struct {
	extractor StockExtractor
}

// NewEngine creates an Engine. A nil extractor selects the default
// RegexStockExtractor.
func NewEngine(extractor StockExtractor) *Engine {
	if extractor == nil {
		extractor = RegexStockExtractor{}
	}
	return &Engine{extractor: extractor}
}

// Reconcile produces one DayReport per daily snapshot, index-aligned with the
// simulation_data feed. Bad records degrade: an unparsable event timestamp
// drops only that event, a missing numeric field defaults to 0 and a join
// without matches yields empty aggregates. There is no fatal path.
func (e *Engine) Reconcile(res model.SimulationResult) []model.DayReport {
	idx := NewEventIndex(res.SimulationLog)
	reports := make([]model.DayReport, 0, len(res.SimulationData))
	for i, snap := range res.SimulationData {
		day := DayKey(snap.Date)
		events := idx.ForDay(day)

		opening := ParseVolume(snap.OpeningStock)
		certified := e.extractor.CertifiedStock(events)
		arrivals := AggregateArrivals(events, res.CargoReport, day)
		ready := ParseCount(snap.ReadyTanks)

		rep := model.DayReport{
			Day:              i + 1,
			Date:             snap.Date,
			DisplayTimeRange: snap.Date,
			OpeningStock:     opening,
			ClosingStock:     ParseVolume(snap.ClosingStock),
			Processing:       ParseVolume(snap.Processing),
			CertifiedStock:   certified,
			UncertifiedStock: math.Max(0, opening-certified),
			ReadyTanks:       ready,
			ArrivalVolume:    arrivals.Volume,
			CargoTypes:       arrivals.CargoTypes,
		}
		if n := len(snap.Tanks); n > 0 {
			rep.TankUtilizationPct = 100 * float64(ready) / float64(n)
			rep.TankStates = make(map[string]string, n)
			for k, v := range snap.Tanks {
				rep.TankStates[k] = v
			}
		}
		// Only the chronologically last snapshot can be a partial day.
		if i == len(res.SimulationData)-1 {
			if window, ok := ResolveFinalWindow(res.SimulationLog, snap.Date); ok {
				rep.DisplayTimeRange = window
			}
		}
		reports = append(reports, rep)
	}
	return reports
}

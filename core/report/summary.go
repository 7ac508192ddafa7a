package report

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/refinelab/feedplan/core/model"
)

// Summarize aggregates a reconciled run into the dashboard header metrics.
// processingRate is the configured plant throughput in bbl/day; when positive
// it converts the final day's certified stock into days of remaining feed.
func Summarize(reports []model.DayReport, processingRate float64) model.RunSummary {
	s := model.RunSummary{Days: len(reports)}
	if len(reports) == 0 {
		return s
	}
	certified := make([]float64, len(reports))
	for i, r := range reports {
		certified[i] = r.CertifiedStock
		s.TotalProcessed += r.Processing
		s.TotalArrivalVolume += r.ArrivalVolume
	}
	s.MeanCertifiedStock = stat.Mean(certified, nil)
	s.MaxCertifiedStock = floats.Max(certified)
	s.MeanDailyProcessed = s.TotalProcessed / float64(len(reports))
	if processingRate > 0 {
		s.DaysOfStockRemaining = reports[len(reports)-1].CertifiedStock / processingRate
	}
	return s
}

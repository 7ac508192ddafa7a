package report

import (
	"math"
	"testing"

	"github.com/refinelab/feedplan/core/model"
)

func TestSummarize(t *testing.T) {
	reports := []model.DayReport{
		{CertifiedStock: 100000, Processing: 50000, ArrivalVolume: 2000},
		{CertifiedStock: 300000, Processing: 30000, ArrivalVolume: 0},
	}
	s := Summarize(reports, 50000)
	if s.Days != 2 {
		t.Fatalf("days: %d", s.Days)
	}
	if math.Abs(s.MeanCertifiedStock-200000) > 1e-9 {
		t.Fatalf("mean: %v", s.MeanCertifiedStock)
	}
	if s.MaxCertifiedStock != 300000 {
		t.Fatalf("max: %v", s.MaxCertifiedStock)
	}
	if s.TotalProcessed != 80000 || s.MeanDailyProcessed != 40000 {
		t.Fatalf("processed: %v / %v", s.TotalProcessed, s.MeanDailyProcessed)
	}
	if s.TotalArrivalVolume != 2000 {
		t.Fatalf("arrivals: %v", s.TotalArrivalVolume)
	}
	if math.Abs(s.DaysOfStockRemaining-6) > 1e-9 {
		t.Fatalf("days remaining: %v", s.DaysOfStockRemaining)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, 50000)
	if s.Days != 0 || s.MaxCertifiedStock != 0 {
		t.Fatalf("empty summary: %#v", s)
	}
}

func TestSummarizeNoRate(t *testing.T) {
	reports := []model.DayReport{{CertifiedStock: 100}}
	if s := Summarize(reports, 0); s.DaysOfStockRemaining != 0 {
		t.Fatalf("rate 0 must not divide: %v", s.DaysOfStockRemaining)
	}
}

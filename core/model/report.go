package model

// DayReport is the enriched per-day record produced by the reconciliation
// engine: the daily snapshot figures cross-referenced with the event log and
// the cargo manifest. One DayReport exists per DailySnapshot, in feed order.
type DayReport struct {
	// Day is the 1-based day index within the run.
	Day  int    `json:"day"`
	Date string `json:"date"`
	// DisplayTimeRange is the label shown for the day. It equals Date except on
	// the final, possibly partial, day where it is resolved to an explicit
	// "start to end" range when the log allows it.
	DisplayTimeRange   string            `json:"display_time_range"`
	OpeningStock       float64           `json:"opening_stock_bbl"`
	ClosingStock       float64           `json:"closing_stock_bbl"`
	Processing         float64           `json:"processing_bbl"`
	CertifiedStock     float64           `json:"certified_stock_bbl"`
	UncertifiedStock   float64           `json:"uncertified_stock_bbl"`
	ReadyTanks         int               `json:"ready_tanks"`
	TankUtilizationPct float64           `json:"tank_utilization_pct"`
	ArrivalVolume      float64           `json:"arrival_volume_bbl"`
	CargoTypes         []string          `json:"cargo_types"`
	TankStates         map[string]string `json:"tank_states,omitempty"`
}

// RunSummary aggregates a reconciled run for the dashboard header metrics.
type RunSummary struct {
	Days                 int     `json:"days"`
	MeanCertifiedStock   float64 `json:"mean_certified_stock_bbl"`
	MaxCertifiedStock    float64 `json:"max_certified_stock_bbl"`
	TotalProcessed       float64 `json:"total_processed_bbl"`
	MeanDailyProcessed   float64 `json:"mean_daily_processed_bbl"`
	TotalArrivalVolume   float64 `json:"total_arrival_volume_bbl"`
	DaysOfStockRemaining float64 `json:"days_of_stock_remaining"`
}

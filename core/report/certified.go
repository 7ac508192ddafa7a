package report

import (
	"regexp"

	"github.com/refinelab/feedplan/core/model"
)

// StockExtractor mines the certified stock total out of a day's events.
// Free-text mining is fragile, so the rule sits behind this interface and can
// be swapped or hardened without touching the engine.
type StockExtractor interface {
	CertifiedStock(events []model.LogEvent) float64
}

// totalPattern matches the running total in a DAILY_STATUS message, e.g.
// "Day starts - STOCK: ..., TOTAL: 45,230 bbl".
var totalPattern = regexp.MustCompile(`TOTAL:\s*([0-9][0-9,]*(?:\.[0-9]+)?)\s*bbl`)

// RegexStockExtractor extracts the certified total from the first DAILY_STATUS
// event of the day, in delivery order. When several DAILY_STATUS events exist
// for one day the first wins; a missing event or a message without the TOTAL
// pattern yields 0, never an error.
type RegexStockExtractor struct{}

// CertifiedStock implements StockExtractor.
func (RegexStockExtractor) CertifiedStock(events []model.LogEvent) float64 {
	for _, ev := range events {
		if ev.Event != EventDailyStatus {
			continue
		}
		m := totalPattern.FindStringSubmatch(ev.Message)
		if m == nil {
			return 0
		}
		return ParseVolume(m[1])
	}
	return 0
}

package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/refinelab/feedplan/core/model"
)

// WriteJSON writes the enriched daily reports to w in JSON format.
func WriteJSON(w io.Writer, reports []model.DayReport) error {
	enc := json.NewEncoder(w)
	return enc.Encode(reports)
}

// WriteCSV writes the enriched daily reports to w in CSV format.
func WriteCSV(w io.Writer, reports []model.DayReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"day", "date", "time_range", "opening_stock_bbl", "closing_stock_bbl",
		"processing_bbl", "certified_stock_bbl", "uncertified_stock_bbl",
		"ready_tanks", "tank_utilization_pct", "arrival_volume_bbl", "cargo_types",
	}); err != nil {
		return err
	}
	for _, r := range reports {
		rec := []string{
			strconv.Itoa(r.Day),
			r.Date,
			r.DisplayTimeRange,
			strconv.FormatFloat(r.OpeningStock, 'f', -1, 64),
			strconv.FormatFloat(r.ClosingStock, 'f', -1, 64),
			strconv.FormatFloat(r.Processing, 'f', -1, 64),
			strconv.FormatFloat(r.CertifiedStock, 'f', -1, 64),
			strconv.FormatFloat(r.UncertifiedStock, 'f', -1, 64),
			strconv.Itoa(r.ReadyTanks),
			strconv.FormatFloat(r.TankUtilizationPct, 'f', 1, 64),
			strconv.FormatFloat(r.ArrivalVolume, 'f', -1, 64),
			strings.Join(r.CargoTypes, "; "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

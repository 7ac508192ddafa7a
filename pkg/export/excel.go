package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/refinelab/feedplan/core/model"
)

const (
	summarySheet  = "Daily Summary"
	arrivalsSheet = "Cargo Arrivals"
	logSheet      = "Simulation Log"
)

// WriteExcel writes an Excel workbook with a Daily Summary sheet, a Cargo
// Arrivals sheet, the raw Simulation Log and a certified stock trend chart.
func WriteExcel(w io.Writer, reports []model.DayReport, cargo []model.CargoRecord, events []model.LogEvent) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := writeSummarySheet(f, reports); err != nil {
		return err
	}
	if _, err := f.NewSheet(arrivalsSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeArrivalsSheet(f, cargo); err != nil {
		return err
	}
	if _, err := f.NewSheet(logSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := writeLogSheet(f, events); err != nil {
		return err
	}
	if len(reports) > 0 {
		if err := addStockChart(f, len(reports)); err != nil {
			return err
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, reports []model.DayReport) error {
	headers := []string{
		"Day", "Date", "Time Range", "Opening Stock (bbl)", "Closing Stock (bbl)",
		"Processing (bbl)", "Certified Stock (bbl)", "Uncertified Stock (bbl)",
		"Ready Tanks", "Tank Utilization (%)", "Arrival Volume (bbl)", "Cargo Types",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return err
		}
	}
	for row, r := range reports {
		values := []any{
			r.Day, r.Date, r.DisplayTimeRange, r.OpeningStock, r.ClosingStock,
			r.Processing, r.CertifiedStock, r.UncertifiedStock,
			r.ReadyTanks, r.TankUtilizationPct, r.ArrivalVolume, strings.Join(r.CargoTypes, "; "),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(summarySheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(summarySheet, "B", "C", 20)
}

func writeArrivalsSheet(f *excelize.File, cargo []model.CargoRecord) error {
	headers := []string{
		"Vessel Name", "Cargo Type", "Berth", "Arrival Date", "Arrival Time",
		"Total Volume Discharged (bbl)",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(arrivalsSheet, cell, h); err != nil {
			return err
		}
	}
	for row, c := range cargo {
		values := []any{
			c.VesselName, c.CargoType, c.Berth, c.ArrivalDate, c.ArrivalTime,
			c.VolumeDischarged,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(arrivalsSheet, cell, v); err != nil {
				return err
			}
		}
	}
	return f.SetColWidth(arrivalsSheet, "A", "F", 22)
}

func writeLogSheet(f *excelize.File, events []model.LogEvent) error {
	headers := []string{"Timestamp", "Level", "Event", "Tank", "Cargo", "Message"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(logSheet, cell, h); err != nil {
			return err
		}
	}
	for row, e := range events {
		values := []any{
			e.Timestamp, e.Level, e.Event, e.Tank.String(), e.Cargo.String(), e.Message,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(logSheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(logSheet, "A", "A", 18); err != nil {
		return err
	}
	return f.SetColWidth(logSheet, "F", "F", 60)
}

func addStockChart(f *excelize.File, days int) error {
	series := fmt.Sprintf("'%s'!$G$2:$G$%d", summarySheet, days+1)
	cats := fmt.Sprintf("'%s'!$B$2:$B$%d", summarySheet, days+1)
	return f.AddChart(summarySheet, "N2", &excelize.Chart{
		Type:  excelize.Line,
		Title: []excelize.RichTextRun{{Text: "Certified Stock Trend"}},
		Series: []excelize.ChartSeries{{
			Name:       "Certified Stock (bbl)",
			Categories: cats,
			Values:     series,
		}},
	})
}

package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/refinelab/feedplan/core/model"
)

func sampleReports() []model.DayReport {
	return []model.DayReport{
		{
			Day: 1, Date: "01/08/2025 08:00", DisplayTimeRange: "01/08/2025 08:00",
			OpeningStock: 1200000, ClosingStock: 1150000, Processing: 50000,
			CertifiedStock: 900000, UncertifiedStock: 300000,
			ReadyTanks: 3, TankUtilizationPct: 75, ArrivalVolume: 80000,
			CargoTypes: []string{"Arab Light", "Murban"},
		},
		{
			Day: 2, Date: "02/08/2025 08:00", DisplayTimeRange: "02/08 08:00 to 02/08 14:30",
			OpeningStock: 1150000, ClosingStock: 1100000, Processing: 50000,
			CertifiedStock: 850000, UncertifiedStock: 300000,
			ReadyTanks: 3, TankUtilizationPct: 75,
			CargoTypes: []string{},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleReports()); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out []model.DayReport
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out) != 2 || out[0].CertifiedStock != 900000 {
		t.Fatalf("unexpected output %#v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleReports()); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "day" || rows[0][6] != "certified_stock_bbl" {
		t.Fatalf("header: %v", rows[0])
	}
	if rows[1][6] != "900000" || rows[1][11] != "Arab Light; Murban" {
		t.Fatalf("row 1: %v", rows[1])
	}
	if rows[2][2] != "02/08 08:00 to 02/08 14:30" {
		t.Fatalf("time range not exported: %v", rows[2])
	}
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "day,") {
		t.Fatalf("header missing: %q", buf.String())
	}
}

func TestWriteExcel(t *testing.T) {
	cargo := []model.CargoRecord{
		{
			VesselName: "MT HORIZON 1", CargoType: "Arab Light", Berth: "BERTH 1",
			ArrivalDate: "01/08/2025", ArrivalTime: "12:00", VolumeDischarged: "80,000",
		},
	}
	events := []model.LogEvent{
		{Timestamp: "01/08/2025 08:00", Level: "Info", Event: "DAILY_STATUS", Message: "TOTAL: 900,000 bbl"},
		{Timestamp: "01/08/2025 12:00", Level: "Success", Event: "ARRIVAL", Tank: "2", Cargo: "MT HORIZON 1", Message: "Vessel MT HORIZON 1 arrived"},
	}
	var buf bytes.Buffer
	if err := WriteExcel(&buf, sampleReports(), cargo, events); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer func() { _ = f.Close() }()

	got, err := f.GetCellValue("Daily Summary", "G2")
	if err != nil || got != "900000" {
		t.Fatalf("certified cell: %q %v", got, err)
	}
	vessel, err := f.GetCellValue("Cargo Arrivals", "A2")
	if err != nil || vessel != "MT HORIZON 1" {
		t.Fatalf("vessel cell: %q %v", vessel, err)
	}
	sheets := f.GetSheetList()
	if len(sheets) != 3 || sheets[0] != "Daily Summary" || sheets[1] != "Cargo Arrivals" || sheets[2] != "Simulation Log" {
		t.Fatalf("sheets: %v", sheets)
	}
	for cell, want := range map[string]string{
		"A1": "Timestamp", "F1": "Message",
		"C2": "DAILY_STATUS",
		"D3": "2", "E3": "MT HORIZON 1", "F3": "Vessel MT HORIZON 1 arrived",
	} {
		got, err := f.GetCellValue("Simulation Log", cell)
		if err != nil || got != want {
			t.Fatalf("log sheet %s: %q %v", cell, got, err)
		}
	}
}

func TestWriteExcelNoReports(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteExcel(&buf, nil, nil, nil); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("empty workbook")
	}
}

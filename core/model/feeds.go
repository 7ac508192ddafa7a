package model

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// FlexString decodes JSON strings, numbers and null into a plain string.
// The simulation service is loose about field types: tank identifiers arrive
// as numbers, vessel names as strings, and absent values as null.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == "" {
		*f = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = FlexString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	// Render integral floats without the trailing ".0" python tends to emit.
	if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	if v, err := n.Float64(); err == nil && v == float64(int64(v)) {
		*f = FlexString(strconv.FormatInt(int64(v), 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the decoded value.
func (f FlexString) String() string { return string(f) }

var tankColumn = regexp.MustCompile(`^Tank\s?(\d+)$`)

// DailySnapshot is one row of the simulation_data feed: aggregate figures for a
// single simulated calendar day. Numeric fields arrive as display strings with
// thousands separators and must be parsed by the consumer. The per-tank status
// columns vary with the configured tank count, so they are collected into Tanks.
type DailySnapshot struct {
	Date         string
	OpeningStock string
	ClosingStock string
	Processing   string
	ReadyTanks   string
	EmptyTanks   string
	// Tanks maps column names like "Tank7" to the tank state at day start.
	Tanks map[string]string
}

// UnmarshalJSON decodes the fixed columns and collects TankN status columns.
func (d *DailySnapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]FlexString
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Date = raw["Date"].String()
	d.OpeningStock = raw["Opening Stock (bbl)"].String()
	d.ClosingStock = raw["Closing Stock (bbl)"].String()
	d.Processing = raw["Processing (bbl)"].String()
	d.ReadyTanks = raw["Ready Tanks"].String()
	d.EmptyTanks = raw["Empty Tanks"].String()
	for k, v := range raw {
		if tankColumn.MatchString(k) {
			if d.Tanks == nil {
				d.Tanks = make(map[string]string)
			}
			d.Tanks[k] = v.String()
		}
	}
	return nil
}

// MarshalJSON restores the service's column names.
func (d DailySnapshot) MarshalJSON() ([]byte, error) {
	raw := map[string]string{
		"Date":                d.Date,
		"Opening Stock (bbl)": d.OpeningStock,
		"Closing Stock (bbl)": d.ClosingStock,
		"Processing (bbl)":    d.Processing,
		"Ready Tanks":         d.ReadyTanks,
		"Empty Tanks":         d.EmptyTanks,
	}
	for k, v := range d.Tanks {
		raw[k] = v
	}
	return json.Marshal(raw)
}

// LogEvent is one row of the simulation_log feed. Rows are not guaranteed to be
// in chronological order and timestamps must be parsed before comparison.
type LogEvent struct {
	Timestamp string     `json:"Timestamp"`
	Level     string     `json:"Level"`
	Event     string     `json:"Event"`
	Tank      FlexString `json:"Tank"`
	Cargo     FlexString `json:"Cargo"`
	Message   string     `json:"Message"`
}

// CargoRecord is one row of the cargo_report feed: a vessel cargo parcel.
// (ArrivalDate, VesselName) is not unique; a vessel may discharge in several
// parcels, so consumers must aggregate over all matching rows.
type CargoRecord struct {
	VesselName       string `json:"Vessel Name"`
	CargoType        string `json:"Cargo Type"`
	Berth            string `json:"Berth,omitempty"`
	ArrivalDate      string `json:"Arrival Date"`
	ArrivalTime      string `json:"Arrival Time,omitempty"`
	VolumeDischarged string `json:"Total Volume Discharged (bbl)"`
}

// Alert is a warning or danger log entry surfaced by the simulation service.
type Alert struct {
	Day     int    `json:"day"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

// SimulationResult is the full response of a simulation run: the three feeds
// the reconciliation engine consumes plus service-level status.
type SimulationResult struct {
	Success        bool            `json:"success"`
	Error          string          `json:"error,omitempty"`
	SimulationData []DailySnapshot `json:"simulation_data"`
	SimulationLog  []LogEvent      `json:"simulation_log"`
	CargoReport    []CargoRecord   `json:"cargo_report"`
	Alerts         []Alert         `json:"alerts,omitempty"`
}

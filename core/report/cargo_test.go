package report

import (
	"reflect"
	"testing"

	"github.com/refinelab/feedplan/core/model"
)

func TestAggregateArrivalsMultiParcel(t *testing.T) {
	day := "05/08/2025"
	events := []model.LogEvent{
		{Timestamp: "05/08/2025 06:00", Event: "ARRIVAL", Cargo: "MT AURORA"},
	}
	manifest := []model.CargoRecord{
		{VesselName: "MT AURORA", CargoType: "Arab Light", ArrivalDate: "05/08/2025", VolumeDischarged: "1,000"},
		{VesselName: "MT AURORA", CargoType: "Murban", ArrivalDate: "05/08/2025", VolumeDischarged: "2,000"},
	}
	got := AggregateArrivals(events, manifest, day)
	if got.Volume != 3000 {
		t.Fatalf("two parcels must both contribute: got %v want 3000", got.Volume)
	}
	if !reflect.DeepEqual(got.CargoTypes, []string{"Arab Light", "Murban"}) {
		t.Fatalf("cargo types: %v", got.CargoTypes)
	}
}

func TestAggregateArrivalsEventOrder(t *testing.T) {
	day := "05/08/2025"
	events := []model.LogEvent{
		{Event: "ARRIVAL", Cargo: "B"},
		{Event: "ARRIVAL", Cargo: "A"},
	}
	manifest := []model.CargoRecord{
		{VesselName: "A", CargoType: "Basrah", ArrivalDate: "05/08/2025", VolumeDischarged: "10"},
		{VesselName: "B", CargoType: "Bonny Light", ArrivalDate: "05/08/2025", VolumeDischarged: "20"},
	}
	got := AggregateArrivals(events, manifest, day)
	// Order follows the arrival events, not the manifest.
	if !reflect.DeepEqual(got.CargoTypes, []string{"Bonny Light", "Basrah"}) {
		t.Fatalf("order: %v", got.CargoTypes)
	}
	if got.Volume != 30 {
		t.Fatalf("volume: %v", got.Volume)
	}
}

func TestAggregateArrivalsNoMatch(t *testing.T) {
	day := "05/08/2025"
	events := []model.LogEvent{
		{Event: "ARRIVAL", Cargo: "OFF MANIFEST"},
		{Event: "TANK_READY", Cargo: "MT AURORA"}, // not an arrival
	}
	manifest := []model.CargoRecord{
		{VesselName: "MT AURORA", CargoType: "Murban", ArrivalDate: "05/08/2025", VolumeDischarged: "500"},
		{VesselName: "OFF MANIFEST", CargoType: "Murban", ArrivalDate: "06/08/2025", VolumeDischarged: "500"},
	}
	got := AggregateArrivals(events, manifest, day)
	if got.Volume != 0 || len(got.CargoTypes) != 0 {
		t.Fatalf("off-manifest or wrong-day arrivals must contribute nothing: %#v", got)
	}
	if got.CargoTypes == nil {
		t.Fatalf("cargo types must be an empty slice, not nil")
	}
}

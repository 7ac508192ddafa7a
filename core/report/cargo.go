package report

import "github.com/refinelab/feedplan/core/model"

// ArrivalSummary is the cargo activity reconciled for one day.
type ArrivalSummary struct {
	// Volume is the total discharged volume over every manifest row matched by
	// the day's arrival events.
	Volume float64
	// CargoTypes lists the matched parcel types in arrival-event order.
	// Duplicates are kept; a vessel discharging two parcels contributes twice.
	CargoTypes []string
}

// AggregateArrivals joins the day's ARRIVAL events against the cargo manifest
// on (arrival day, vessel name). The manifest key is the event's cargo field;
// all matching rows contribute, modelling a vessel discharging in several
// parcels. An arrival with no manifest match contributes nothing.
func AggregateArrivals(dayEvents []model.LogEvent, manifest []model.CargoRecord, day string) ArrivalSummary {
	out := ArrivalSummary{CargoTypes: []string{}}
	for _, ev := range dayEvents {
		if ev.Event != EventArrival {
			continue
		}
		vessel := ev.Cargo.String()
		for _, rec := range manifest {
			if rec.VesselName != vessel || DayKey(rec.ArrivalDate) != day {
				continue
			}
			out.Volume += ParseVolume(rec.VolumeDischarged)
			out.CargoTypes = append(out.CargoTypes, rec.CargoType)
		}
	}
	return out
}

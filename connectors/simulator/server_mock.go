package simulator

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/refinelab/feedplan/core/model"
	"github.com/refinelab/feedplan/infra/logger"
)

// ServerMock mimics the simulation service for local development and tests.
// It answers /api/simulate with a synthetic but well-formed run and keeps the
// plan inputs of /api/save_inputs in memory.
type ServerMock struct {
	mu   sync.Mutex
	plan map[string]any
	log  logger.Logger
}

// NewServerMock creates a mock simulation service.
func NewServerMock() *ServerMock {
	return &ServerMock{log: logger.New("simulator-mock")}
}

// Routes returns the HTTP handler exposing the mocked endpoints.
func (s *ServerMock) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/simulate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var plan map[string]any
		if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		days := 3
		if v, ok := plan["schedulingWindow"].(float64); ok && v > 0 {
			days = int(v)
		}
		start := time.Date(2025, 8, 1, 8, 0, 0, 0, time.UTC)
		res := SyntheticResult(days, start)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			s.log.Errorf("encode result: %v", err)
		}
	})
	mux.HandleFunc("/api/save_inputs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var plan map[string]any
		if err := json.NewDecoder(r.Body).Decode(&plan); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.plan = plan
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"success": true, "message": "Inputs saved"}`)
	})
	mux.HandleFunc("/api/load_inputs", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		plan := s.plan
		s.mu.Unlock()
		if plan == nil {
			plan = map[string]any{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(plan); err != nil {
			s.log.Errorf("encode inputs: %v", err)
		}
	})
	return mux
}

// SyntheticResult builds a deterministic run of the given length: one snapshot
// per day, a DAILY_STATUS/ARRIVAL/DAILY_END event trio, and a manifest row per
// arrival. The final day ends at 14:30 to exercise partial-day handling.
func SyntheticResult(days int, start time.Time) model.SimulationResult {
	res := model.SimulationResult{Success: true}
	stock := 1200000.0
	for d := 0; d < days; d++ {
		dayStart := start.AddDate(0, 0, d)
		certified := stock * 0.75
		processed := 50000.0
		date := dayStart.Format("02/01/2006 15:04")
		dayKey := dayStart.Format("02/01/2006")

		res.SimulationData = append(res.SimulationData, model.DailySnapshot{
			Date:         date,
			OpeningStock: FormatVolume(stock),
			ClosingStock: FormatVolume(stock - processed),
			Processing:   FormatVolume(processed),
			ReadyTanks:   "3",
			EmptyTanks:   "1",
			Tanks: map[string]string{
				"Tank1": "READY", "Tank2": "READY", "Tank3": "READY", "Tank4": "EMPTY",
			},
		})
		res.SimulationLog = append(res.SimulationLog,
			model.LogEvent{
				Timestamp: date, Level: "Info", Event: "DAILY_STATUS",
				Message: fmt.Sprintf("Day starts - STOCK: READY TANKS (3): %s bbl, FEEDING TANKS: None, TOTAL: %s bbl",
					FormatVolume(certified), FormatVolume(certified)),
			},
			model.LogEvent{
				Timestamp: dayStart.Add(4 * time.Hour).Format("02/01/2006 15:04"),
				Level:     "Success", Event: "ARRIVAL",
				Cargo:   model.FlexString(fmt.Sprintf("MT HORIZON %d", d+1)),
				Message: fmt.Sprintf("Vessel MT HORIZON %d arrived at berth", d+1),
			},
		)
		end := dayStart.Add(15*time.Hour + 59*time.Minute)
		if d == days-1 {
			end = dayStart.Add(6*time.Hour + 30*time.Minute) // partial final day
		}
		res.SimulationLog = append(res.SimulationLog, model.LogEvent{
			Timestamp: end.Format("02/01/2006 15:04"), Level: "Info", Event: "DAILY_END",
			Message: fmt.Sprintf("Day ends with 3 READY tanks, Processed: %s bbl", FormatVolume(processed)),
		})
		res.CargoReport = append(res.CargoReport, model.CargoRecord{
			VesselName:       fmt.Sprintf("MT HORIZON %d", d+1),
			CargoType:        "Arab Light",
			Berth:            "BERTH 1",
			ArrivalDate:      dayKey,
			ArrivalTime:      "12:00",
			VolumeDischarged: FormatVolume(80000),
		})
		stock -= processed
	}
	return res
}

// FormatVolume renders a volume the way the service does: rounded with
// thousands separators, e.g. 1200000 -> "1,200,000".
func FormatVolume(v float64) string {
	s := strconv.FormatInt(int64(math.Round(v)), 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

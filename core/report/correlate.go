package report

import "github.com/refinelab/feedplan/core/model"

// Event types the reconciliation engine keys on.
const (
	EventDailyStatus = "DAILY_STATUS"
	EventDailyEnd    = "DAILY_END"
	EventArrival     = "ARRIVAL"
)

// EventIndex groups log events by the day portion of their timestamp. The
// feed is not guaranteed chronological; events are kept in delivery order
// within each day.
type EventIndex struct {
	byDay map[string][]model.LogEvent
}

// NewEventIndex builds the day index in a single pass over the log.
// An event whose timestamp truncates to an empty key is unreachable by any
// day and is dropped.
func NewEventIndex(events []model.LogEvent) *EventIndex {
	idx := &EventIndex{byDay: make(map[string][]model.LogEvent)}
	for _, ev := range events {
		key := DayKey(ev.Timestamp)
		if key == "" {
			continue
		}
		idx.byDay[key] = append(idx.byDay[key], ev)
	}
	return idx
}

// ForDay returns the events whose truncated day equals key, in delivery order.
// Unknown keys yield an empty subset.
func (ix *EventIndex) ForDay(key string) []model.LogEvent {
	return ix.byDay[key]
}

// Days reports how many distinct day keys the index holds.
func (ix *EventIndex) Days() int { return len(ix.byDay) }

// CountParseFailures reports how many events carry a timestamp that does not
// parse. Such events still receive a truncated day key but can never take part
// in time comparisons.
func CountParseFailures(events []model.LogEvent) int {
	n := 0
	for _, ev := range events {
		if _, ok := ParseTimestamp(ev.Timestamp); !ok {
			n++
		}
	}
	return n
}

package report

import (
	"fmt"
	"time"

	"github.com/refinelab/feedplan/core/model"
)

// windowLayout is the short day/month form used in the resolved range label.
const windowLayout = "02/01 15:04"

// ResolveFinalWindow computes the true elapsed range of the final, possibly
// partial, reporting day. It scans the whole log for DAILY_END events and
// selects the one with the maximum parsed timestamp; ties keep the first
// maximal event in delivery order. The second return value is false when no
// DAILY_END parses or the nominal start does not parse, in which case the
// caller keeps the default single-timestamp label.
func ResolveFinalWindow(events []model.LogEvent, nominalStart string) (string, bool) {
	var (
		latest time.Time
		found  bool
	)
	for _, ev := range events {
		if ev.Event != EventDailyEnd {
			continue
		}
		ts, ok := ParseTimestamp(ev.Timestamp)
		if !ok {
			continue
		}
		if !found || ts.After(latest) {
			latest = ts
			found = true
		}
	}
	if !found {
		return "", false
	}
	start, ok := ParseTimestamp(nominalStart)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%s to %s", start.Format(windowLayout), latest.Format(windowLayout)), true
}

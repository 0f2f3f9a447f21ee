// Package record assembles one date's fetched fragments into the flat
// record the store writes.
package record

import (
	"time"

	"github.com/fitglue/garmin-daily/pkg/rollup"
	"github.com/fitglue/garmin-daily/pkg/sources"
	"github.com/fitglue/garmin-daily/pkg/window"
)

// Record maps schema field keys to values. A missing key means the value
// was absent for that date; the reconciler decides what a missing key does
// to a stored cell.
type Record map[string]any

// Merge combines the per-source fragments and the day's activity summary
// into one record. Later fragments win on key collisions, so order the
// sources accordingly. Date and weekday are always present; the activity
// columns are always present, zeroed when the day had no activities.
func Merge(date time.Time, frags []sources.Fragment, summary *rollup.Summary) Record {
	rec := Record{
		"Date":    window.DateKey(date),
		"weekday": date.Weekday().String(),
	}

	for _, frag := range frags {
		for k, v := range frag {
			rec[k] = v
		}
	}

	var s rollup.Summary
	if summary != nil {
		s = *summary
	}
	rec["ActivityCount"] = float64(s.Count)
	rec["ActivityDistanceMi"] = s.DistanceMi
	rec["ActivityDurationMin"] = s.DurationMin
	rec["ActivityCalories"] = s.Calories
	rec["ActivityNames"] = s.Names
	rec["ActivityTypes"] = s.Types
	rec["PrimarySport"] = s.PrimarySport
	rec["ActivityTypesUnique"] = s.TypesUnique
	rec["ActTrainingEff"] = s.TrainingEffects
	rec["ActAerobicEff"] = s.AerobicEffects
	rec["ActAnaerobicEff"] = s.AnaerobicEffects

	return rec
}

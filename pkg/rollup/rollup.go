// Package rollup turns the flat activity list into per-date daily summaries:
// counts, distance/duration/calorie totals and the joined name, type and
// training-effect lists.
package rollup

import (
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitglue/garmin-daily/pkg/units"
	"github.com/fitglue/garmin-daily/pkg/window"
)

// Event is one recorded activity, reduced to the fields the daily summary
// needs.
type Event struct {
	Date            string // YYYY-MM-DD, from the local start time
	Name            string
	Type            string
	DistanceMeters  float64
	DurationSeconds float64
	Calories        float64
	TrainingEffect  string
	AerobicEffect   string
	AnaerobicEffect string
}

// Summary aggregates one date's activities. List columns are space-joined
// in activity order; TypesUnique is sorted and de-duplicated.
type Summary struct {
	Count            int
	DistanceMi       float64
	DurationMin      float64
	Calories         float64
	Names            string
	Types            string
	PrimarySport     string
	TypesUnique      string
	TrainingEffects  string
	AerobicEffects   string
	AnaerobicEffects string
}

var (
	trainingEffectPaths  = []string{"trainingEffectLabel", "overallTrainingEffectMessage", "trainingEffectMessage"}
	aerobicEffectPaths   = []string{"aerobicTrainingEffectMessage", "aerobicTrainingEffectLabel"}
	anaerobicEffectPaths = []string{"anaerobicTrainingEffectMessage", "anaerobicTrainingEffectLabel"}
)

// ParseEvents decodes the raw activity-list payload. Entries without a
// usable start time are dropped; everything else is kept even when partial.
func ParseEvents(body []byte) []Event {
	var events []Event
	for _, a := range gjson.ParseBytes(body).Array() {
		start := first(a, "startTimeLocal", "startTimeGMT").String()
		if len(start) < 10 {
			continue
		}
		date := start[:10]
		if _, err := time.Parse("2006-01-02", date); err != nil {
			continue
		}

		events = append(events, Event{
			Date:            date,
			Name:            first(a, "activityName", "activityId").String(),
			Type:            a.Get("activityType.typeKey").String(),
			DistanceMeters:  a.Get("distance").Float(),
			DurationSeconds: a.Get("duration").Float(),
			Calories:        a.Get("calories").Float(),
			TrainingEffect:  first(a, trainingEffectPaths...).String(),
			AerobicEffect:   first(a, aerobicEffectPaths...).String(),
			AnaerobicEffect: first(a, anaerobicEffectPaths...).String(),
		})
	}
	return events
}

// Summarize aggregates events into per-date summaries, keeping only dates
// inside [start, end].
func Summarize(events []Event, start, end time.Time) map[string]Summary {
	startKey, endKey := window.DateKey(start), window.DateKey(end)

	type acc struct {
		count                 int
		distMeters, durSec    float64
		cal                   float64
		names, types          []string
		te, ae, ane           []string
	}
	byDate := map[string]*acc{}

	for _, e := range events {
		if e.Date < startKey || e.Date > endKey {
			continue
		}
		day, ok := byDate[e.Date]
		if !ok {
			day = &acc{}
			byDate[e.Date] = day
		}
		day.count++
		day.distMeters += e.DistanceMeters
		day.durSec += e.DurationSeconds
		day.cal += e.Calories
		if e.Name != "" {
			day.names = append(day.names, e.Name)
		}
		if e.Type != "" {
			day.types = append(day.types, e.Type)
		}
		if e.TrainingEffect != "" {
			day.te = append(day.te, e.TrainingEffect)
		}
		if e.AerobicEffect != "" {
			day.ae = append(day.ae, e.AerobicEffect)
		}
		if e.AnaerobicEffect != "" {
			day.ane = append(day.ane, e.AnaerobicEffect)
		}
	}

	out := make(map[string]Summary, len(byDate))
	for date, day := range byDate {
		out[date] = Summary{
			Count:            day.count,
			DistanceMi:       units.MetersToMiles(day.distMeters),
			DurationMin:      units.SecondsToMinutes(day.durSec),
			Calories:         units.Round0(day.cal),
			Names:            strings.Join(day.names, " "),
			Types:            strings.Join(day.types, " "),
			PrimarySport:     primarySport(day.types),
			TypesUnique:      uniqueSorted(day.types),
			TrainingEffects:  strings.Join(day.te, " "),
			AerobicEffects:   strings.Join(day.ae, " "),
			AnaerobicEffects: strings.Join(day.ane, " "),
		}
	}
	return out
}

// primarySport is the most frequent type; ties go to the type seen first.
func primarySport(types []string) string {
	counts := map[string]int{}
	for _, t := range types {
		counts[t]++
	}
	seen := map[string]bool{}
	best, bestCount := "", 0
	for _, t := range types {
		if seen[t] {
			continue
		}
		seen[t] = true
		if counts[t] > bestCount {
			best, bestCount = t, counts[t]
		}
	}
	return best
}

func uniqueSorted(types []string) string {
	seen := map[string]bool{}
	var uniq []string
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			uniq = append(uniq, t)
		}
	}
	sort.Strings(uniq)
	return strings.Join(uniq, " ")
}

func first(root gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		if v := root.Get(path); v.Exists() && v.Type != gjson.Null && v.String() != "" {
			return v
		}
	}
	return gjson.Result{}
}

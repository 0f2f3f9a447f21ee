package sources

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitglue/garmin-daily/pkg/window"
)

// Intensity is a window-batched adapter for daily intensity minutes.
// The weekly-goal convention weights vigorous minutes double:
// total = moderate + 2*vigorous. All three columns are volatile.
type Intensity struct {
	API API

	byDate map[string]intensityDay
}

type intensityDay struct {
	moderate, vigorous *float64
}

func (i *Intensity) Name() string { return "intensity" }

// Prime fetches the whole window's intensity summaries in one call.
func (i *Intensity) Prime(ctx context.Context, start, end time.Time) error {
	i.byDate = map[string]intensityDay{}

	body, err := i.API.IntensityMinutes(ctx, window.DateKey(start), window.DateKey(end))
	if err != nil {
		return err
	}

	root := gjson.ParseBytes(body)
	rows := root
	if !root.IsArray() {
		rows = root.Get("values")
	}

	for _, row := range rows.Array() {
		date := row.Get("calendarDate").String()
		if date == "" {
			continue
		}
		var day intensityDay
		if v := firstPresent(row, "moderateValue", "moderateIntensityMinutes"); v.Type == gjson.Number {
			f := v.Float()
			day.moderate = &f
		}
		if v := firstPresent(row, "vigorousValue", "vigorousIntensityMinutes"); v.Type == gjson.Number {
			f := v.Float()
			day.vigorous = &f
		}
		i.byDate[date] = day
	}
	return nil
}

func (i *Intensity) Fetch(ctx context.Context, date time.Time) Result {
	frag := Fragment{}
	day, ok := i.byDate[window.DateKey(date)]
	if !ok {
		return Result{Fragment: frag}
	}

	if day.moderate != nil {
		frag["IntensityMod"] = *day.moderate
	}
	if day.vigorous != nil {
		frag["IntensityVig"] = *day.vigorous
	}
	if day.moderate != nil || day.vigorous != nil {
		var mod, vig float64
		if day.moderate != nil {
			mod = *day.moderate
		}
		if day.vigorous != nil {
			vig = *day.vigorous
		}
		frag["IntensityMin"] = mod + 2*vig
	}
	return Result{Fragment: frag}
}

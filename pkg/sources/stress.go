package sources

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitglue/garmin-daily/pkg/units"
	"github.com/fitglue/garmin-daily/pkg/window"
)

// Stress fetches the combined daily stress and body battery payload:
// average/max stress, per-level stress durations, and body battery
// average/max/min derived from the day's readings.
type Stress struct {
	API API
}

func (s *Stress) Name() string { return "stress" }

// duration fields have drifted between *Duration and *DurationSeconds
// across backend versions.
var stressDurations = []struct {
	key   string
	paths []string
}{
	{"StressRestH", []string{"restStressDuration", "restStressDurationSeconds"}},
	{"StressLowH", []string{"lowStressDuration", "lowStressDurationSeconds"}},
	{"StressMediumH", []string{"mediumStressDuration", "mediumStressDurationSeconds"}},
	{"StressHighH", []string{"highStressDuration", "highStressDurationSeconds"}},
	{"StressUncatH", []string{"uncategorizedStressDuration", "uncategorizedStressDurationSeconds"}},
}

func (s *Stress) Fetch(ctx context.Context, date time.Time) Result {
	body, err := s.API.BodyBatteryStress(ctx, window.DateKey(date))
	if err != nil {
		return failed(err)
	}

	root := gjson.ParseBytes(body)
	frag := Fragment{}

	setNum(frag, "StressAvg", firstPresent(root, "avgStressLevel", "averageStressLevel"))
	setNum(frag, "StressMax", firstPresent(root, "maxStressLevel"))

	for _, d := range stressDurations {
		if v := firstPresent(root, d.paths...); v.Exists() && v.Type == gjson.Number {
			frag[d.key] = units.SecondsToHours(v.Float())
		}
	}

	setNum(frag, "BodyBatteryMax", firstPresent(root, "maxBodyBattery", "bodyBatteryMax"))

	levels := bodyBatteryLevels(root)
	if len(levels) > 0 {
		sum, min := 0.0, levels[0]
		for _, lv := range levels {
			sum += lv
			if lv < min {
				min = lv
			}
		}
		frag["BodyBatteryAvg"] = units.Round1(sum / float64(len(levels)))
		frag["BodyBatteryMin"] = min
	}

	return Result{Fragment: frag}
}

// bodyBatteryLevels extracts the day's body battery readings. The payload
// carries them either as tuples [timestamp, status, level, version] or as
// objects with a "level" field.
func bodyBatteryLevels(root gjson.Result) []float64 {
	readings := firstPresent(root, "bodyBatteryValuesArray", "bodyBatteryReadings")
	if !readings.Exists() || !readings.IsArray() {
		return nil
	}

	var levels []float64
	for _, item := range readings.Array() {
		var v gjson.Result
		if item.IsArray() {
			tuple := item.Array()
			if len(tuple) < 3 {
				continue
			}
			v = tuple[2]
		} else {
			v = item.Get("level")
		}
		if v.Type == gjson.Number {
			levels = append(levels, v.Float())
		}
	}
	return levels
}

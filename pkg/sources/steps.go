package sources

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitglue/garmin-daily/pkg/units"
	"github.com/fitglue/garmin-daily/pkg/window"
)

// Steps fetches the daily step summary: step count, goal and walked
// distance.
type Steps struct {
	API API
}

func (s *Steps) Name() string { return "steps" }

func (s *Steps) Fetch(ctx context.Context, date time.Time) Result {
	body, err := s.API.DailySteps(ctx, window.DateKey(date))
	if err != nil {
		return failed(err)
	}

	frag := Fragment{}
	entries := gjson.ParseBytes(body).Array()
	if len(entries) == 0 {
		return Result{Fragment: frag}
	}

	entry := entries[0]
	setNum(frag, "Steps", entry.Get("totalSteps"))
	setNum(frag, "StepGoal", entry.Get("stepGoal"))
	frag["WalkDistanceMi"] = units.MetersToMiles(entry.Get("totalDistance").Float())
	return Result{Fragment: frag}
}

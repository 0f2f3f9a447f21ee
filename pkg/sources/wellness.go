package sources

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitglue/garmin-daily/pkg/units"
	"github.com/fitglue/garmin-daily/pkg/window"
)

// Readiness fetches the 0-100 training readiness score. The endpoint
// answers with either a bare object or a one-element list.
type Readiness struct {
	API API
}

func (r *Readiness) Name() string { return "readiness" }

func (r *Readiness) Fetch(ctx context.Context, date time.Time) Result {
	body, err := r.API.TrainingReadiness(ctx, window.DateKey(date))
	if err != nil {
		return failed(err)
	}

	root := gjson.ParseBytes(body)
	if root.IsArray() {
		items := root.Array()
		if len(items) == 0 {
			return Result{Fragment: Fragment{}}
		}
		root = items[0]
	}

	frag := Fragment{}
	setNum(frag, "TrainingReadiness", firstPresent(root, "score", "trainingReadiness"))
	return Result{Fragment: frag}
}

// TrainingStatus fetches the aggregated training status phrase.
type TrainingStatus struct {
	API API
}

func (t *TrainingStatus) Name() string { return "training-status" }

var trainingStatusPaths = []string{
	"mostRecentTrainingStatus.latestTrainingStatusData.trainingStatusFeedbackPhrase",
	"mostRecentTrainingStatus.trainingStatus",
	"trainingStatusFeedbackPhrase",
	"trainingStatus",
}

func (t *TrainingStatus) Fetch(ctx context.Context, date time.Time) Result {
	body, err := t.API.TrainingStatus(ctx, window.DateKey(date))
	if err != nil {
		return failed(err)
	}

	frag := Fragment{}
	if v := firstPresent(gjson.ParseBytes(body), trainingStatusPaths...); v.Exists() {
		frag["TrainingStatus"] = v.String()
	}
	return Result{Fragment: frag}
}

// Respiration fetches the average overall breaths per minute.
type Respiration struct {
	API API
}

func (r *Respiration) Name() string { return "respiration" }

func (r *Respiration) Fetch(ctx context.Context, date time.Time) Result {
	body, err := r.API.Respiration(ctx, window.DateKey(date))
	if err != nil {
		return failed(err)
	}

	frag := Fragment{}
	setNum(frag, "RespirationRateAvg", firstPresent(gjson.ParseBytes(body),
		"avgOverallBreathsPerMin", "avgSleepRespirationValue"))
	return Result{Fragment: frag}
}

// Weight fetches the day's weight. The provider reports grams; the sheet
// column is pounds.
type Weight struct {
	API API
}

func (w *Weight) Name() string { return "weight" }

var weightPaths = []string{
	"totalAverage.weight",
	"dateWeightList.0.weight",
	"weight",
}

func (w *Weight) Fetch(ctx context.Context, date time.Time) Result {
	body, err := w.API.Weight(ctx, window.DateKey(date))
	if err != nil {
		return failed(err)
	}

	frag := Fragment{}
	if grams := firstPresent(gjson.ParseBytes(body), weightPaths...); grams.Type == gjson.Number {
		frag["WeightLb"] = units.GramsToPounds(grams.Float())
	}
	return Result{Fragment: frag}
}

package sources

import (
	"context"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitglue/garmin-daily/pkg/units"
	"github.com/fitglue/garmin-daily/pkg/window"
)

// Sleep fetches the nightly sleep detail: stage hours, start/end times,
// resting heart rate and the quality sub-scores.
//
// Total sleep is deep+light+REM; awake time is tracked in its own column and
// excluded from the total. Start/end timestamps come from the first present
// field among the provider's historical aliases, GMT before local.
type Sleep struct {
	API API
	Loc *time.Location
}

func (s *Sleep) Name() string { return "sleep" }

var (
	sleepStartPaths = []string{
		"dailySleepDTO.sleepStartTimestampGMT",
		"sleepStartTimestampGMT",
		"dailySleepDTO.sleepStartTimestampLocal",
	}
	sleepEndPaths = []string{
		"dailySleepDTO.sleepEndTimestampGMT",
		"sleepEndTimestampGMT",
		"dailySleepDTO.sleepEndTimestampLocal",
	}
	restingHRPaths = []string{
		"restingHeartRate",
		"dailySleepDTO.restingHeartRate",
	}
	sleepScorePaths = []string{
		"sleepScores",
		"dailySleepDTO.sleepScores",
	}
)

func (s *Sleep) Fetch(ctx context.Context, date time.Time) Result {
	body, err := s.API.SleepData(ctx, window.DateKey(date))
	if err != nil {
		return failed(err)
	}

	root := gjson.ParseBytes(body)
	daily := root.Get("dailySleepDTO")

	frag := Fragment{}
	deep := daily.Get("deepSleepSeconds").Float()
	light := daily.Get("lightSleepSeconds").Float()
	rem := daily.Get("remSleepSeconds").Float()
	awake := daily.Get("awakeSleepSeconds").Float()

	frag["SleepTotalH"] = units.SecondsToHours(deep + light + rem)
	frag["SleepLightH"] = units.SecondsToHours(light)
	frag["SleepDeepH"] = units.SecondsToHours(deep)
	frag["SleepRemH"] = units.SecondsToHours(rem)
	frag["SleepAwakeH"] = units.SecondsToHours(awake)

	setNum(frag, "RestingHR", firstPresent(root, restingHRPaths...))

	if start := firstPresent(root, sleepStartPaths...); start.Exists() {
		if iso := units.MillisToLocalISO(start.Int(), s.Loc); iso != "" {
			frag["SleepStart"] = iso
		}
	}
	if end := firstPresent(root, sleepEndPaths...); end.Exists() {
		if iso := units.MillisToLocalISO(end.Int(), s.Loc); iso != "" {
			frag["SleepEnd"] = iso
		}
	}

	scores := firstPresent(root, sleepScorePaths...)
	if scores.Exists() {
		addSleepScores(frag, scores)
	}

	return Result{Fragment: frag}
}

// addSleepScores extracts the quality sub-scores. Plain qualifier columns
// get the qualitative label; the percentage/count columns get
// "value(qualifier)" when both exist, else the bare value.
func addSleepScores(frag Fragment, scores gjson.Result) {
	setStr(frag, "SS_overall", scoreQualifier(scores, "overall"))
	setStr(frag, "SS_total_duration", scoreQualifier(scores, "totalDuration"))
	setStr(frag, "SS_stress", scoreQualifier(scores, "stress"))
	setStr(frag, "SS_restlessness", scoreQualifier(scores, "restlessness"))

	setFormattedScore(frag, "SS_awake_count", scores, "awakeCount")
	setFormattedScore(frag, "SS_rem_percentage", scores, "remPercentage")
	setFormattedScore(frag, "SS_light_percentage", scores, "lightPercentage", "light_percentage")
	setFormattedScore(frag, "SS_deep_percentage", scores, "deepPercentage", "deep_percentage")

	setNum(frag, "SleepScoreOverall", scores.Get("overall.score"))
}

func scoreQualifier(scores gjson.Result, key string) gjson.Result {
	return firstPresent(scores, key+".qualifierKey", key+".qualifier")
}

func setFormattedScore(frag Fragment, fieldKey string, scores gjson.Result, keys ...string) {
	for _, key := range keys {
		item := scores.Get(key)
		if !item.Exists() || !item.IsObject() {
			continue
		}

		score := firstPresent(item, "score", "value", "percentage")
		qual := firstPresent(item, "qualifierKey", "qualifier")

		switch {
		case score.Exists() && qual.Exists():
			frag[fieldKey] = fmt.Sprintf("%s(%s)", score.String(), qual.String())
		case qual.Exists():
			frag[fieldKey] = qual.String()
		case score.Exists():
			frag[fieldKey] = score.String()
		default:
			continue
		}
		return
	}
}

// Package schema declares the daily-record field schema consumed by the
// header writer, the merge policy and the row builder. Adding or removing a
// metric is a one-line change here.
package schema

import "strings"

// Field is one column of the daily sheet.
type Field struct {
	// Key is the stable identifier used by source adapters and records.
	Key string
	// Title is the human-readable column header.
	Title string
	// Volatile marks metrics the provider may compute late. An absent
	// fetched value must not erase a previously stored one.
	Volatile bool
}

// Fields is the full ordered column list. The Date key is always first; it
// is the sole upsert index.
var Fields = []Field{
	{Key: "Date", Title: "Date"},
	{Key: "weekday", Title: "weekday"},
	{Key: "WeightLb", Title: "Weight (lb)"},
	{Key: "TrainingReadiness", Title: "Training Readiness (0-100)"},
	{Key: "TrainingStatus", Title: "Training Status"},
	{Key: "RestingHR", Title: "Resting HR"},
	{Key: "HRV", Title: "HRV", Volatile: true},
	{Key: "RespirationRateAvg", Title: "Respiration Rate Avg (BPM)"},
	{Key: "SleepScoreOverall", Title: "Sleep Score (0-100)"},
	{Key: "SleepTotalH", Title: "Sleep Total (h)"},
	{Key: "SleepLightH", Title: "Sleep Light (h)"},
	{Key: "SleepDeepH", Title: "Sleep Deep (h)"},
	{Key: "SleepRemH", Title: "Sleep REM (h)"},
	{Key: "SleepAwakeH", Title: "Sleep Awake (h)"},
	{Key: "SleepStart", Title: "Sleep Start (local)"},
	{Key: "SleepEnd", Title: "Sleep End (local)"},
	{Key: "SS_overall", Title: "Sleep Overall (q)"},
	{Key: "SS_total_duration", Title: "Sleep Duration (q)"},
	{Key: "SS_stress", Title: "Sleep Stress (q)"},
	{Key: "SS_awake_count", Title: "Sleep Awake Count (q)"},
	{Key: "SS_rem_percentage", Title: "Sleep REM % (q)"},
	{Key: "SS_restlessness", Title: "Sleep Restlessness (q)"},
	{Key: "SS_light_percentage", Title: "Sleep Light % (q)"},
	{Key: "SS_deep_percentage", Title: "Sleep Deep % (q)"},
	{Key: "StressAvg", Title: "Stress Avg"},
	{Key: "StressMax", Title: "Stress Max"},
	{Key: "StressRestH", Title: "Rest Stress Duration (h)"},
	{Key: "StressLowH", Title: "Low Stress Duration (h)"},
	{Key: "StressMediumH", Title: "Medium Stress Duration (h)"},
	{Key: "StressHighH", Title: "High Stress Duration (h)"},
	{Key: "StressUncatH", Title: "Uncategorized Stress Duration (h)"},
	{Key: "BodyBatteryAvg", Title: "Body Battery Avg"},
	{Key: "BodyBatteryMax", Title: "Body Battery Max"},
	{Key: "BodyBatteryMin", Title: "Body Battery Min"},
	{Key: "Steps", Title: "Steps"},
	{Key: "StepGoal", Title: "Step Goal"},
	{Key: "WalkDistanceMi", Title: "Walk Distance (mi)"},
	{Key: "ActivityCount", Title: "Activities (#)"},
	{Key: "ActivityDistanceMi", Title: "Activity Distance (mi)"},
	{Key: "ActivityDurationMin", Title: "Activity Duration (min)"},
	{Key: "ActivityCalories", Title: "Activity Calories"},
	{Key: "ActivityNames", Title: "Activity Names"},
	{Key: "ActivityTypes", Title: "Activity Types"},
	{Key: "PrimarySport", Title: "primary_sport"},
	{Key: "ActivityTypesUnique", Title: "activity_types_unique"},
	{Key: "ActTrainingEff", Title: "Training Effect (list)"},
	{Key: "ActAerobicEff", Title: "Aerobic Effect (list)"},
	{Key: "ActAnaerobicEff", Title: "Anaerobic Effect (list)"},
	{Key: "IntensityMin", Title: "Intensity Minutes", Volatile: true},
	{Key: "IntensityMod", Title: "Intensity Moderate (min)", Volatile: true},
	{Key: "IntensityVig", Title: "Intensity Vigorous (min)", Volatile: true},
}

// Titles returns the ordered header row.
func Titles() []string {
	titles := make([]string, len(Fields))
	for i, f := range Fields {
		titles[i] = f.Title
	}
	return titles
}

// VolatileSet returns the set of volatile field keys. A non-empty override
// (comma-separated keys, as from the VOLATILE_FIELDS env var) replaces the
// declared defaults; unknown keys are ignored.
func VolatileSet(override string) map[string]bool {
	known := make(map[string]bool, len(Fields))
	defaults := make(map[string]bool)
	for _, f := range Fields {
		known[f.Key] = true
		if f.Volatile {
			defaults[f.Key] = true
		}
	}

	if strings.TrimSpace(override) == "" {
		return defaults
	}

	set := make(map[string]bool)
	for _, part := range strings.Split(override, ",") {
		key := strings.TrimSpace(part)
		if key != "" && known[key] {
			set[key] = true
		}
	}
	return set
}

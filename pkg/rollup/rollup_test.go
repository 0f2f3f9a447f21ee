package rollup

import (
	"testing"
	"time"
)

const activitiesPayload = `[
	{
		"activityId": 101,
		"activityName": "Morning Run",
		"startTimeLocal": "2025-03-05 07:12:00",
		"distance": 8046.7,
		"duration": 2700,
		"calories": 512.4,
		"activityType": {"typeKey": "running"},
		"trainingEffectLabel": "TEMPO",
		"aerobicTrainingEffectMessage": "Improving aerobic base",
		"anaerobicTrainingEffectMessage": "No benefit"
	},
	{
		"activityId": 102,
		"startTimeLocal": "2025-03-05 18:30:00",
		"distance": 1609.34,
		"duration": 600,
		"calories": 90,
		"activityType": {"typeKey": "walking"}
	},
	{
		"activityName": "Evening Spin",
		"startTimeGMT": "2025-03-04 19:00:00",
		"duration": 3600,
		"calories": 400.6,
		"activityType": {"typeKey": "cycling"}
	},
	{
		"activityName": "Too Old",
		"startTimeLocal": "2025-02-20 07:00:00",
		"activityType": {"typeKey": "running"}
	},
	{
		"activityName": "No Start Time"
	}
]`

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseEvents(t *testing.T) {
	events := ParseEvents([]byte(activitiesPayload))
	if len(events) != 4 {
		t.Fatalf("len(events) = %d, want 4 (entry without start time dropped)", len(events))
	}
	if events[0].Name != "Morning Run" || events[0].Type != "running" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if events[1].Name != "102" {
		t.Errorf("events[1].Name = %q, want activityId fallback", events[1].Name)
	}
	if events[2].Date != "2025-03-04" {
		t.Errorf("events[2].Date = %q, want GMT fallback date", events[2].Date)
	}
}

func TestSummarize(t *testing.T) {
	events := ParseEvents([]byte(activitiesPayload))
	byDate := Summarize(events, day(2025, 3, 1), day(2025, 3, 7))

	if len(byDate) != 2 {
		t.Fatalf("len(byDate) = %d, want 2 (out-of-window date dropped)", len(byDate))
	}

	s := byDate["2025-03-05"]
	if s.Count != 2 {
		t.Errorf("Count = %d", s.Count)
	}
	if s.DistanceMi != 6.0 {
		t.Errorf("DistanceMi = %v, want 6.0", s.DistanceMi)
	}
	if s.DurationMin != 55.0 {
		t.Errorf("DurationMin = %v, want 55.0", s.DurationMin)
	}
	if s.Calories != 602.0 {
		t.Errorf("Calories = %v, want 602 (rounded to whole)", s.Calories)
	}
	if s.Names != "Morning Run 102" {
		t.Errorf("Names = %q", s.Names)
	}
	if s.Types != "running walking" {
		t.Errorf("Types = %q", s.Types)
	}
	if s.TrainingEffects != "TEMPO" {
		t.Errorf("TrainingEffects = %q", s.TrainingEffects)
	}

	prev := byDate["2025-03-04"]
	if prev.Count != 1 || prev.DistanceMi != 0.0 || prev.Calories != 401.0 {
		t.Errorf("2025-03-04 summary = %+v", prev)
	}
}

func TestSummarizePrimarySportTieBreak(t *testing.T) {
	events := []Event{
		{Date: "2025-03-05", Type: "cycling"},
		{Date: "2025-03-05", Type: "running"},
		{Date: "2025-03-05", Type: "running"},
		{Date: "2025-03-05", Type: "cycling"},
	}
	s := Summarize(events, day(2025, 3, 5), day(2025, 3, 5))["2025-03-05"]
	if s.PrimarySport != "cycling" {
		t.Errorf("PrimarySport = %q, want first-seen winner of the tie", s.PrimarySport)
	}
	if s.TypesUnique != "cycling running" {
		t.Errorf("TypesUnique = %q, want sorted unique", s.TypesUnique)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	byDate := Summarize(nil, day(2025, 3, 1), day(2025, 3, 7))
	if len(byDate) != 0 {
		t.Errorf("expected no summaries, got %v", byDate)
	}
}

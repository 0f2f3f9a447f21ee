package record

import (
	"testing"
	"time"

	"github.com/fitglue/garmin-daily/pkg/rollup"
	"github.com/fitglue/garmin-daily/pkg/sources"
)

func TestMerge(t *testing.T) {
	date := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	frags := []sources.Fragment{
		{"Steps": 10432.0, "RestingHR": 48.0},
		{"RestingHR": 47.0, "HRV": 52.0},
	}
	summary := &rollup.Summary{Count: 2, DistanceMi: 6.0, Names: "Morning Run 102"}

	rec := Merge(date, frags, summary)

	if rec["Date"] != "2025-03-05" {
		t.Errorf("Date = %v", rec["Date"])
	}
	if rec["weekday"] != "Wednesday" {
		t.Errorf("weekday = %v", rec["weekday"])
	}
	if rec["RestingHR"] != 47.0 {
		t.Errorf("RestingHR = %v, later fragment should win", rec["RestingHR"])
	}
	if rec["Steps"] != 10432.0 || rec["HRV"] != 52.0 {
		t.Errorf("merged values = %v / %v", rec["Steps"], rec["HRV"])
	}
	if rec["ActivityCount"] != 2.0 || rec["ActivityNames"] != "Morning Run 102" {
		t.Errorf("activity columns = %v / %v", rec["ActivityCount"], rec["ActivityNames"])
	}
}

func TestMergeNoActivities(t *testing.T) {
	rec := Merge(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC), nil, nil)

	if rec["ActivityCount"] != 0.0 {
		t.Errorf("ActivityCount = %v, want zero summary", rec["ActivityCount"])
	}
	if rec["ActivityNames"] != "" || rec["PrimarySport"] != "" {
		t.Errorf("list columns should be empty, got %v / %v", rec["ActivityNames"], rec["PrimarySport"])
	}
	if _, ok := rec["Steps"]; ok {
		t.Error("no fragments were merged, Steps must be absent")
	}
}

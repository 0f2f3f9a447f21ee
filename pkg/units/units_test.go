package units

import (
	"math"
	"testing"
	"time"
)

func TestSecondsToHours(t *testing.T) {
	if got := SecondsToHours(3661); got != 1.02 {
		t.Errorf("SecondsToHours(3661) = %v, want 1.02", got)
	}
	if got := SecondsToHours(0); got != 0 {
		t.Errorf("SecondsToHours(0) = %v, want 0", got)
	}
}

func TestMetersToMilesRoundTrip(t *testing.T) {
	for _, mi := range []float64{0, 0.5, 3.1, 26.22, 100} {
		got := MetersToMiles(MilesToMeters(mi))
		if math.Abs(got-mi) > 0.005 {
			t.Errorf("round trip %v -> %v, outside 2dp tolerance", mi, got)
		}
	}
}

func TestGramsToPounds(t *testing.T) {
	// 80 kg in grams
	if got := GramsToPounds(80000); got != 176.37 {
		t.Errorf("GramsToPounds(80000) = %v, want 176.37", got)
	}
}

func TestMillisToLocalISO(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	// 2025-03-05 02:33:41.500 UTC -> 2025-03-04 21:33 EST, seconds dropped
	ms := time.Date(2025, 3, 5, 2, 33, 41, 500e6, time.UTC).UnixMilli()
	got := MillisToLocalISO(ms, loc)
	want := "2025-03-04T21:33:00-05:00"
	if got != want {
		t.Errorf("MillisToLocalISO = %q, want %q", got, want)
	}

	if got := MillisToLocalISO(0, loc); got != "" {
		t.Errorf("MillisToLocalISO(0) = %q, want empty", got)
	}
}

func TestResolveLocationFallsBackToUTC(t *testing.T) {
	loc := ResolveLocation("Not/AZone")
	if loc == nil {
		t.Fatal("ResolveLocation returned nil")
	}
}

func TestResolveLocationHonorsOverride(t *testing.T) {
	loc := ResolveLocation("America/New_York")
	if loc == nil || loc.String() != "America/New_York" {
		t.Fatalf("ResolveLocation = %v", loc)
	}
}

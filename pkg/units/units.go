// Package units holds the pure numeric and time conversions shared by the
// source adapters and the activity rollup. All conversions round to a fixed
// precision so repeated runs produce byte-identical rows.
package units

import (
	"math"
	"time"
)

const (
	metersPerMile = 1609.34
	poundsPerKg   = 2.2046226218
)

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round1 rounds to 1 decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round0 rounds to the nearest integer, kept as float64 for sheet cells.
func Round0(v float64) float64 {
	return math.Round(v)
}

// MetersToMiles converts meters to miles, 2 decimal places.
func MetersToMiles(m float64) float64 {
	return Round2(m / metersPerMile)
}

// MilesToMeters converts miles to meters.
func MilesToMeters(mi float64) float64 {
	return mi * metersPerMile
}

// SecondsToHours converts seconds to hours, 2 decimal places.
func SecondsToHours(s float64) float64 {
	return Round2(s / 3600)
}

// SecondsToMinutes converts seconds to minutes, 2 decimal places.
func SecondsToMinutes(s float64) float64 {
	return Round2(s / 60)
}

// GramsToPounds converts grams to pounds, 2 decimal places.
func GramsToPounds(g float64) float64 {
	return Round2(g / 1000 * poundsPerKg)
}

// ResolveLocation resolves the run timezone once: the explicit override
// first, then the host's local zone, then UTC. The override comes from
// configuration; this package never reads the environment itself.
func ResolveLocation(override string) *time.Location {
	if override != "" {
		if loc, err := time.LoadLocation(override); err == nil {
			return loc
		}
	}
	if loc := time.Local; loc != nil {
		return loc
	}
	return time.UTC
}

// MillisToLocalISO converts an epoch-millisecond timestamp to a localized,
// minute-truncated ISO string. Zero or negative input yields "".
func MillisToLocalISO(ms int64, loc *time.Location) string {
	if ms <= 0 {
		return ""
	}
	t := time.UnixMilli(ms).In(loc).Truncate(time.Minute)
	return t.Format("2006-01-02T15:04:05-07:00")
}

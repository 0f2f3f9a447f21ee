// Package sources contains one adapter per Garmin metric domain. Each
// adapter fetches raw data for one date (or, for list-backed metrics, once
// for the whole window) and normalizes it into a partial fragment keyed by
// the field schema. Adapters never let a fetch failure escape: the caller
// always gets a fragment, plus the error for diagnostics.
package sources

import (
	"context"
	"time"

	"github.com/tidwall/gjson"
)

// API is the slice of the Garmin Connect client the adapters consume.
// Payloads come back raw; shapes drift across backend versions, so each
// adapter owns its own candidate-path decoding.
type API interface {
	DailySteps(ctx context.Context, date string) ([]byte, error)
	SleepData(ctx context.Context, date string) ([]byte, error)
	BodyBatteryStress(ctx context.Context, date string) ([]byte, error)
	TrainingReadiness(ctx context.Context, date string) ([]byte, error)
	TrainingStatus(ctx context.Context, date string) ([]byte, error)
	Respiration(ctx context.Context, date string) ([]byte, error)
	Weight(ctx context.Context, date string) ([]byte, error)
	HRVDaily(ctx context.Context, start, end string) ([]byte, error)
	IntensityMinutes(ctx context.Context, start, end string) ([]byte, error)
	Activities(ctx context.Context, start, limit int) ([]byte, error)
}

// Fragment maps schema field keys to fetched scalar values (float64 or
// string). A missing key means the value is absent for that date.
type Fragment map[string]any

// Result is the outcome of one adapter fetch. Err is set when the fetch
// failed (transport, auth, malformed payload); the fragment is still usable
// and simply all-absent. Callers can tell "no data" from "fetch failed"
// without changing merge behavior.
type Result struct {
	Fragment Fragment
	Err      error
}

func failed(err error) Result {
	return Result{Fragment: Fragment{}, Err: err}
}

// Source produces one date's value set for one metric domain.
type Source interface {
	Name() string
	Fetch(ctx context.Context, date time.Time) Result
}

// WindowSource is a Source backed by a list endpoint: it fetches the whole
// window once up front and answers per-date lookups from the cached result.
type WindowSource interface {
	Source
	Prime(ctx context.Context, start, end time.Time) error
}

// firstPresent resolves a logical field against an ordered list of candidate
// paths, returning the first that exists and is neither null nor "".
// This is the single lookup the per-field alias lists funnel through.
func firstPresent(root gjson.Result, paths ...string) gjson.Result {
	for _, path := range paths {
		v := root.Get(path)
		if !v.Exists() || v.Type == gjson.Null {
			continue
		}
		if v.Type == gjson.String && v.String() == "" {
			continue
		}
		return v
	}
	return gjson.Result{}
}

func setNum(frag Fragment, key string, v gjson.Result) {
	if v.Exists() && v.Type == gjson.Number {
		frag[key] = v.Float()
	}
}

func setStr(frag Fragment, key string, v gjson.Result) {
	if v.Exists() && v.String() != "" {
		frag[key] = v.String()
	}
}

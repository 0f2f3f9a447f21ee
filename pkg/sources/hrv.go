package sources

import (
	"context"
	"time"

	"github.com/tidwall/gjson"

	"github.com/fitglue/garmin-daily/pkg/window"
)

// HRV is a window-batched adapter for nightly heart-rate variability. The
// list endpoint is fetched once per run; per-date lookups are answered from
// the cached map. HRV is a volatile field: the provider computes it with a
// delay, so an absent value must not erase a stored one.
type HRV struct {
	API API

	byDate map[string]float64
}

func (h *HRV) Name() string { return "hrv" }

// Prime fetches the whole window's HRV summaries in one call.
func (h *HRV) Prime(ctx context.Context, start, end time.Time) error {
	h.byDate = map[string]float64{}

	body, err := h.API.HRVDaily(ctx, window.DateKey(start), window.DateKey(end))
	if err != nil {
		return err
	}

	root := gjson.ParseBytes(body)
	rows := root
	if !root.IsArray() {
		rows = firstPresent(root, "hrvSummaries", "hrvSummaryList")
	}

	for _, row := range rows.Array() {
		date := row.Get("calendarDate").String()
		if date == "" {
			continue
		}
		if v := firstPresent(row, "lastNightAvg", "weeklyAvg"); v.Type == gjson.Number {
			h.byDate[date] = v.Float()
		}
	}
	return nil
}

func (h *HRV) Fetch(ctx context.Context, date time.Time) Result {
	frag := Fragment{}
	if v, ok := h.byDate[window.DateKey(date)]; ok {
		frag["HRV"] = v
	}
	return Result{Fragment: frag}
}

// Package run orchestrates one sync: plan the date window, prime the
// window-batched sources, fetch per date and reconcile each record into the
// store.
package run

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	shared "github.com/fitglue/garmin-daily/pkg"
	"github.com/fitglue/garmin-daily/pkg/bootstrap"
	httputil "github.com/fitglue/garmin-daily/pkg/infrastructure/http"
	"github.com/fitglue/garmin-daily/pkg/record"
	"github.com/fitglue/garmin-daily/pkg/reconcile"
	"github.com/fitglue/garmin-daily/pkg/rollup"
	"github.com/fitglue/garmin-daily/pkg/schema"
	"github.com/fitglue/garmin-daily/pkg/sources"
	"github.com/fitglue/garmin-daily/pkg/units"
	"github.com/fitglue/garmin-daily/pkg/window"
)

// API is the provider surface a run needs: a session check plus the
// per-metric fetches.
type API interface {
	sources.API
	Connect(ctx context.Context) error
}

// Summary is the outcome of one run.
type Summary struct {
	Updates     int
	Appends     int
	FailedDates []string
}

type Runner struct {
	API    API
	Store  shared.RowStore
	Cfg    *bootstrap.Config
	Logger *slog.Logger

	// WriteDelay paces successive row writes. Zero means no pacing; the
	// caller normally passes shared.WriteDelay.
	WriteDelay time.Duration

	// Now is the clock the window is planned from. Nil means time.Now.
	Now func() time.Time
}

// Run executes one sync. Per-date fetch and write failures are recorded in
// the summary and do not abort the run; only setup failures (session,
// header, index) return an error.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	logger := r.Logger.With("execution_id", uuid.NewString())

	loc := units.ResolveLocation(r.Cfg.Timezone)
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	dates := window.Plan(now().In(loc), r.Cfg.WindowDays, r.Cfg.IncludeToday)
	start, end := dates[0], dates[len(dates)-1]

	logger.Info("starting sync",
		"window_start", window.DateKey(start),
		"window_end", window.DateKey(end),
		"dates", len(dates),
	)

	if err := r.API.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect to provider: %w", err)
	}

	if err := r.Store.EnsureHeader(ctx, schema.Titles()); err != nil {
		return nil, fmt.Errorf("ensure header: %w", err)
	}

	keys, err := r.Store.KeyColumn(ctx)
	if err != nil {
		return nil, fmt.Errorf("build date index: %w", err)
	}
	rec := &reconcile.Reconciler{
		Store:    r.Store,
		Fields:   schema.Fields,
		Volatile: schema.VolatileSet(r.Cfg.VolatileFields),
		Index:    reconcile.NewIndex(keys),
	}
	logger.Debug("date index built", "rows", rec.Index.Len())

	srcs := r.buildSources(loc)
	for _, src := range srcs {
		ws, ok := src.(sources.WindowSource)
		if !ok {
			continue
		}
		if err := ws.Prime(ctx, start, end); err != nil {
			logger.Warn("window fetch failed, values will be absent",
				"source", src.Name(), "error", err)
		}
	}

	byDate := r.fetchActivities(ctx, logger, start, end)

	summary := &Summary{}
	for i, date := range dates {
		if i > 0 && r.WriteDelay > 0 {
			time.Sleep(r.WriteDelay)
		}
		if err := r.syncDate(ctx, logger, rec, srcs, byDate, date, summary); err != nil {
			return nil, err
		}
	}

	logger.Info("sync finished",
		"updates", summary.Updates,
		"appends", summary.Appends,
		"failed_dates", len(summary.FailedDates),
	)
	return summary, nil
}

func (r *Runner) buildSources(loc *time.Location) []sources.Source {
	return []sources.Source{
		&sources.Steps{API: r.API},
		&sources.Sleep{API: r.API, Loc: loc},
		&sources.Stress{API: r.API},
		&sources.Readiness{API: r.API},
		&sources.TrainingStatus{API: r.API},
		&sources.Respiration{API: r.API},
		&sources.Weight{API: r.API},
		&sources.HRV{API: r.API},
		&sources.Intensity{API: r.API},
	}
}

// fetchActivities pulls the flat activity list once and rolls it up per
// date. A failed fetch degrades to zeroed activity columns.
func (r *Runner) fetchActivities(ctx context.Context, logger *slog.Logger, start, end time.Time) map[string]rollup.Summary {
	body, err := r.API.Activities(ctx, 0, shared.ActivityFetchLimit)
	if err != nil {
		logger.Warn("activity fetch failed, activity columns will be zero", "error", err)
		return nil
	}
	events := rollup.ParseEvents(body)
	logger.Debug("activities fetched", "events", len(events))
	return rollup.Summarize(events, start, end)
}

func (r *Runner) syncDate(ctx context.Context, logger *slog.Logger, rec *reconcile.Reconciler, srcs []sources.Source, byDate map[string]rollup.Summary, date time.Time, summary *Summary) error {
	dateKey := window.DateKey(date)

	frags := make([]sources.Fragment, 0, len(srcs))
	for _, src := range srcs {
		res := src.Fetch(ctx, date)
		if res.Err != nil {
			// a rejected session will never recover within the run
			if httputil.IsAuthError(res.Err) {
				return fmt.Errorf("session rejected by %s fetch: %w", src.Name(), res.Err)
			}
			logger.Warn("source fetch failed, values will be absent",
				"source", src.Name(), "date", dateKey, "error", res.Err)
		}
		frags = append(frags, res.Fragment)
	}

	var daySummary *rollup.Summary
	if s, ok := byDate[dateKey]; ok {
		daySummary = &s
	}

	action, err := rec.Upsert(ctx, dateKey, record.Merge(date, frags, daySummary))
	if err != nil {
		logger.Error("row write failed", "date", dateKey, "error", err)
		summary.FailedDates = append(summary.FailedDates, dateKey)
		return nil
	}

	logger.Info("row written", "date", dateKey, "action", action.String())
	if action == reconcile.Appended {
		summary.Appends++
	} else {
		summary.Updates++
	}
	return nil
}

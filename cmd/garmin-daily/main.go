// garmin-daily syncs a window of recent Garmin daily health metrics into a
// Google Sheets worksheet, one row per date. Designed to run unattended on
// a schedule; a rerun over the same window updates rows in place.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	shared "github.com/fitglue/garmin-daily/pkg"
	"github.com/fitglue/garmin-daily/pkg/bootstrap"
	sentryutil "github.com/fitglue/garmin-daily/pkg/infrastructure/sentry"
	"github.com/fitglue/garmin-daily/pkg/integrations/garmin"
	"github.com/fitglue/garmin-daily/pkg/run"
	"github.com/fitglue/garmin-daily/pkg/schema"
	"github.com/fitglue/garmin-daily/pkg/storage/sheets"
)

func main() {
	godotenv.Load()

	logger := bootstrap.NewLogger("garmin-daily")

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.Error("configuration invalid", "error", err)
		os.Exit(2)
	}

	if err := sentryutil.Init(sentryutil.Config{
		DSN:         cfg.SentryDSN,
		Environment: os.Getenv("ENVIRONMENT"),
	}, logger); err != nil {
		logger.Warn("continuing without error tracking", "error", err)
	}
	defer sentryutil.Flush(2 * time.Second)
	defer sentryutil.RecoverAndCapture(logger)

	ctx := context.Background()

	summary, err := sync(ctx, cfg, logger)
	if err != nil {
		logger.Error("sync failed", "error", err)
		sentryutil.CaptureException(err, nil, logger)
		sentryutil.Flush(2 * time.Second)
		os.Exit(1)
	}

	fmt.Printf("synced: %d updated, %d appended", summary.Updates, summary.Appends)
	if len(summary.FailedDates) > 0 {
		fmt.Printf(", %d failed (%v)", len(summary.FailedDates), summary.FailedDates)
	}
	fmt.Println()

	if len(summary.FailedDates) > 0 {
		os.Exit(1)
	}
}

func sync(ctx context.Context, cfg *bootstrap.Config, logger *slog.Logger) (*run.Summary, error) {
	client, err := garmin.NewClient(cfg.TokenStore, cfg.TokenStoreTGZ)
	if err != nil {
		return nil, fmt.Errorf("garmin session: %w", err)
	}

	creds, err := credentials(cfg)
	if err != nil {
		return nil, err
	}
	store, err := sheets.New(ctx, creds, cfg.SpreadsheetID, cfg.WorksheetTitle, len(schema.Fields), logger)
	if err != nil {
		return nil, fmt.Errorf("sheets store: %w", err)
	}

	runner := &run.Runner{
		API:        client,
		Store:      store,
		Cfg:        cfg,
		Logger:     logger,
		WriteDelay: shared.WriteDelay,
	}
	return runner.Run(ctx)
}

// credentials resolves the service-account JSON, inline value first.
func credentials(cfg *bootstrap.Config) ([]byte, error) {
	if cfg.ServiceAccountJSON != "" {
		return []byte(cfg.ServiceAccountJSON), nil
	}
	data, err := os.ReadFile(cfg.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("service account file is empty")
	}
	return data, nil
}

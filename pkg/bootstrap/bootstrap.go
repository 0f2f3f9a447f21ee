// Package bootstrap loads run configuration from the environment and sets up
// structured logging. Config is built once at startup and passed by
// reference into every component that needs it; components never read the
// environment themselves.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	shared "github.com/fitglue/garmin-daily/pkg"
)

// ConfigError reports a required configuration value that is absent or
// malformed. It is fatal: the run aborts before any fetch or write.
type ConfigError struct {
	Name   string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s %s", e.Name, e.Reason)
}

// Config holds every externally supplied option for one run.
type Config struct {
	// Garmin session
	TokenStore    string // directory holding the session token files
	TokenStoreTGZ string // optional base64 gzip tarball to restore it from

	// Google Sheets destination
	ServiceAccountFile string
	ServiceAccountJSON string
	SpreadsheetID      string
	WorksheetTitle     string

	// Window
	WindowDays   int
	IncludeToday bool
	Timezone     string

	// Merge policy
	VolatileFields string // comma-separated schema keys; empty = defaults

	SentryDSN string
}

// LoadConfig reads configuration from environment variables and validates
// the required values.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		TokenStore:         os.Getenv("GARMIN_TOKEN_STORE"),
		TokenStoreTGZ:      os.Getenv("GARMIN_TOKEN_STORE_TGZ_B64"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		SpreadsheetID:      os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID"),
		WorksheetTitle:     os.Getenv("GOOGLE_SHEETS_WORKSHEET_TITLE"),
		Timezone:           firstEnv("LOCAL_TZ", "TIMEZONE", "TZ"),
		VolatileFields:     os.Getenv("VOLATILE_FIELDS"),
		SentryDSN:          os.Getenv("SENTRY_DSN"),
		WindowDays:         shared.DefaultWindowDays,
		IncludeToday:       os.Getenv("INCLUDE_TODAY") != "0",
	}

	if cfg.TokenStore == "" {
		cfg.TokenStore = shared.DefaultTokenStore
	}
	cfg.TokenStore = expandHome(cfg.TokenStore)

	if cfg.WorksheetTitle == "" {
		cfg.WorksheetTitle = shared.DefaultWorksheetTitle
	}

	if raw := os.Getenv("WINDOW_DAYS"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, &ConfigError{Name: "WINDOW_DAYS", Reason: fmt.Sprintf("must be a positive integer, got %q", raw)}
		}
		cfg.WindowDays = n
	}

	if cfg.SpreadsheetID == "" {
		return nil, &ConfigError{Name: "GOOGLE_SHEETS_SPREADSHEET_ID", Reason: "is required"}
	}
	if cfg.ServiceAccountFile == "" && cfg.ServiceAccountJSON == "" {
		return nil, &ConfigError{Name: "GOOGLE_SERVICE_ACCOUNT_FILE", Reason: "or GOOGLE_SERVICE_ACCOUNT_JSON is required"}
	}

	return cfg, nil
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return strings.TrimRight(path, "/")
}

// GetSlogHandlerOptions returns standard handler options for GCP
func GetSlogHandlerOptions(level slog.Level) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Map standard keys to Cloud Logging keys
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.LevelKey {
				return slog.Attr{Key: "severity", Value: a.Value}
			}
			return a
		},
	}
}

// ComponentHandler wraps a slog.Handler to prepend [component] to the message
type ComponentHandler struct {
	slog.Handler
	component string
}

// WithGroup implements slog.Handler
func (h *ComponentHandler) WithGroup(name string) slog.Handler {
	return &ComponentHandler{
		Handler:   h.Handler.WithGroup(name),
		component: h.component,
	}
}

// WithAttrs implements slog.Handler
func (h *ComponentHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newComp := h.component
	for _, a := range attrs {
		if a.Key == "component" {
			newComp = a.Value.String()
		}
	}
	return &ComponentHandler{
		Handler:   h.Handler.WithAttrs(attrs),
		component: newComp,
	}
}

// Handle implements slog.Handler
func (h *ComponentHandler) Handle(ctx context.Context, r slog.Record) error {
	comp := h.component

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == "component" {
			comp = a.Value.String()
			return false // stop
		}
		return true
	})

	if comp != "" {
		newMsg := fmt.Sprintf("[%s] %s", comp, r.Message)
		newRecord := slog.NewRecord(r.Time, r.Level, newMsg, r.PC)
		r.Attrs(func(a slog.Attr) bool {
			newRecord.AddAttrs(a)
			return true
		})
		r = newRecord
	}

	return h.Handler.Handle(ctx, r)
}

// NewLogger creates a configured logger instance
func NewLogger(serviceName string) *slog.Logger {
	logLevelStr := os.Getenv("LOG_LEVEL")
	var level slog.Level
	switch strings.ToLower(logLevelStr) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := GetSlogHandlerOptions(level)
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(&ComponentHandler{Handler: handler}).With("service", serviceName)
}

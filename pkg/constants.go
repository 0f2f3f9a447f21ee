package shared

import "time"

const (
	DefaultWorksheetTitle = "Garmin Daily"
	DefaultWindowDays     = 5
	DefaultTokenStore     = "~/.garmin_tokens"

	// WriteDelay paces successive row writes to stay under the Sheets
	// API quota. Pacing policy, not concurrency control.
	WriteDelay = 50 * time.Millisecond

	// ActivityFetchLimit bounds the bulk activity-list fetch per run.
	ActivityFetchLimit = 500

	SpreadsheetScope = "https://www.googleapis.com/auth/spreadsheets"
)

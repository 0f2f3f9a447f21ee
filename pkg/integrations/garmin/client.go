// Package garmin is a read-only API client for the Garmin Connect wellness
// endpoints. It resumes a previously provisioned OAuth2 session from a
// token-store directory; it does not implement the interactive login flow.
package garmin

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	httputil "github.com/fitglue/garmin-daily/pkg/infrastructure/http"
)

const (
	defaultBaseURL = "https://connectapi.garmin.com"
	userAgent      = "com.garmin.android.apps.connectmobile"
)

// Client is an API client for the Garmin Connect API.
type Client struct {
	baseURL    string
	tokenStore string
	token      *Token
	mu         sync.Mutex
	client     *http.Client
}

// NewClient resumes a session from the token store directory. The optional
// tgzB64 archive is restored into the directory first when it is empty.
// A missing or unreadable session is a fatal authentication error.
func NewClient(tokenStore, tgzB64 string) (*Client, error) {
	if err := RestoreTokenStore(tokenStore, tgzB64); err != nil {
		return nil, err
	}
	tok, err := LoadToken(tokenStore)
	if err != nil {
		return nil, fmt.Errorf("no usable session in %s: %w", tokenStore, err)
	}
	return &Client{
		baseURL:    defaultBaseURL,
		tokenStore: tokenStore,
		token:      tok,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Connect validates the session, refreshing the access token if it has
// expired. Called once at run start; failure aborts the run.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token.Expired() {
		return c.refreshToken(ctx)
	}
	return nil
}

// doRequest performs an authenticated GET and returns the raw body. The
// Connect API's payload shapes drift across backend versions, so decoding is
// left to the caller.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	c.mu.Lock()
	if c.token.Expired() {
		if err := c.refreshToken(ctx); err != nil {
			c.mu.Unlock()
			return nil, err
		}
	}
	accessToken := c.token.AccessToken
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := httputil.ParseErrorResponse(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return body, nil
}

// DailySteps returns the daily step summary for one date.
func (c *Client) DailySteps(ctx context.Context, date string) ([]byte, error) {
	return c.doRequest(ctx, fmt.Sprintf("/usersummary-service/stats/steps/daily/%s/%s", date, date))
}

// SleepData returns the sleep detail payload for one date.
func (c *Client) SleepData(ctx context.Context, date string) ([]byte, error) {
	return c.doRequest(ctx, fmt.Sprintf("/wellness-service/wellness/dailySleepData?date=%s&nonSleepBufferMinutes=60", date))
}

// BodyBatteryStress returns the combined stress and body battery payload
// for one date.
func (c *Client) BodyBatteryStress(ctx context.Context, date string) ([]byte, error) {
	return c.doRequest(ctx, "/wellness-service/wellness/dailyStress/"+date)
}

// TrainingReadiness returns the training readiness payload for one date.
func (c *Client) TrainingReadiness(ctx context.Context, date string) ([]byte, error) {
	return c.doRequest(ctx, "/metrics-service/metrics/trainingreadiness/"+date)
}

// TrainingStatus returns the aggregated training status for one date.
func (c *Client) TrainingStatus(ctx context.Context, date string) ([]byte, error) {
	return c.doRequest(ctx, "/metrics-service/metrics/trainingstatus/aggregated/"+date)
}

// Respiration returns the daily respiration payload for one date.
func (c *Client) Respiration(ctx context.Context, date string) ([]byte, error) {
	return c.doRequest(ctx, "/wellness-service/wellness/daily/respiration/"+date)
}

// Weight returns the weight day view for one date.
func (c *Client) Weight(ctx context.Context, date string) ([]byte, error) {
	return c.doRequest(ctx, "/weight-service/weight/dayview/"+date)
}

// HRVDaily returns the HRV summaries for an inclusive date range.
func (c *Client) HRVDaily(ctx context.Context, start, end string) ([]byte, error) {
	return c.doRequest(ctx, fmt.Sprintf("/hrv-service/hrv/daily/%s/%s", start, end))
}

// IntensityMinutes returns the intensity-minute summaries for an inclusive
// date range.
func (c *Client) IntensityMinutes(ctx context.Context, start, end string) ([]byte, error) {
	return c.doRequest(ctx, fmt.Sprintf("/usersummary-service/stats/im/daily/%s/%s", start, end))
}

// Activities returns the most recent activity summaries, newest first.
func (c *Client) Activities(ctx context.Context, start, limit int) ([]byte, error) {
	return c.doRequest(ctx, fmt.Sprintf("/activitylist-service/activities/search/activities?start=%d&limit=%d", start, limit))
}

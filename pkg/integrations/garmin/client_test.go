package garmin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	tok := &Token{
		AccessToken:  "valid",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
	if err := SaveToken(dir, tok); err != nil {
		t.Fatal(err)
	}

	c, err := NewClient(dir, "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	c.baseURL = srv.URL
	return c
}

func TestDailyStepsSendsBearer(t *testing.T) {
	var gotAuth, gotPath string
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		w.Write([]byte(`[{"totalSteps":1234}]`))
	}))

	body, err := c.DailySteps(context.Background(), "2025-03-05")
	if err != nil {
		t.Fatalf("DailySteps: %v", err)
	}
	if gotAuth != "Bearer valid" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotPath != "/usersummary-service/stats/steps/daily/2025-03-05/2025-03-05" {
		t.Errorf("path = %q", gotPath)
	}
	if string(body) != `[{"totalSteps":1234}]` {
		t.Errorf("body = %s", body)
	}
}

func TestDoRequestSurfacesAPIError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"quota"}`, http.StatusTooManyRequests)
	}))

	if _, err := c.Weight(context.Background(), "2025-03-05"); err == nil {
		t.Fatal("expected error for 429 response")
	}
}

func TestExpiredTokenRefreshedBeforeRequest(t *testing.T) {
	refreshed := false
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/di-oauth2-service/oauth/token" {
			refreshed = true
			if err := r.ParseForm(); err != nil || r.Form.Get("refresh_token") != "refresh" {
				t.Errorf("unexpected refresh form: %v", r.Form)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "fresh",
				"expires_in":   3600,
			})
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer fresh" {
			t.Errorf("Authorization = %q, want refreshed token", got)
		}
		w.Write([]byte(`{}`))
	}))
	c.token.ExpiresAt = time.Now().Add(-time.Hour).Unix()

	if _, err := c.Respiration(context.Background(), "2025-03-05"); err != nil {
		t.Fatalf("Respiration: %v", err)
	}
	if !refreshed {
		t.Error("expected a token refresh before the request")
	}
	// Old refresh token is kept when the response omits a new one.
	if c.token.RefreshToken != "refresh" {
		t.Errorf("RefreshToken = %q", c.token.RefreshToken)
	}
}

func TestConnectFailsWithoutRefreshToken(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c.token.RefreshToken = ""
	c.token.ExpiresAt = time.Now().Add(-time.Hour).Unix()

	if err := c.Connect(context.Background()); err == nil {
		t.Fatal("expected fatal error for expired session without refresh token")
	}
}

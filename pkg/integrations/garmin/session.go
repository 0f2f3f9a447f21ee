package garmin

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const tokenFileName = "oauth2_token.json"

// Token is the persisted OAuth2 session token for the Connect API.
type Token struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // epoch seconds
}

// Expired reports whether the access token is expired or expiring within
// the next minute.
func (t *Token) Expired() bool {
	if t.ExpiresAt == 0 {
		return false
	}
	return time.Now().Add(1 * time.Minute).After(time.Unix(t.ExpiresAt, 0))
}

// RestoreTokenStore extracts a base64-encoded gzip tarball into dir when the
// directory is missing or empty. This is how CI environments provision the
// session without an interactive login.
func RestoreTokenStore(dir, b64 string) error {
	if b64 == "" {
		return nil
	}
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token store: %w", err)
	}

	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return fmt.Errorf("decode token store archive: %w", err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("open token store archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read token store archive: %w", err)
		}
		// Flatten: token files only, no nested directories or links.
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		name := filepath.Base(hdr.Name)
		if name == "" || strings.HasPrefix(name, ".") {
			continue
		}
		content, err := io.ReadAll(tr)
		if err != nil {
			return fmt.Errorf("read %s from archive: %w", hdr.Name, err)
		}
		if err := os.WriteFile(filepath.Join(dir, name), content, 0o600); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}
}

// LoadToken reads the persisted session token from the token store.
func LoadToken(dir string) (*Token, error) {
	data, err := os.ReadFile(filepath.Join(dir, tokenFileName))
	if err != nil {
		return nil, fmt.Errorf("read session token: %w", err)
	}
	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("session token has no access token")
	}
	return &tok, nil
}

// SaveToken persists the session token back to the token store so the next
// run can resume it.
func SaveToken(dir string, tok *Token) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create token store: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session token: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, tokenFileName), data, 0o600); err != nil {
		return fmt.Errorf("write session token: %w", err)
	}
	return nil
}

// refreshToken exchanges the refresh token for a new access token and
// persists the result. An auth failure here is fatal for the run.
func (c *Client) refreshToken(ctx context.Context) error {
	if c.token.RefreshToken == "" {
		return fmt.Errorf("session expired and no refresh token present; re-provision %s", c.tokenStore)
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", c.token.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/di-oauth2-service/oauth/token", strings.NewReader(data.Encode()))
	if err != nil {
		return fmt.Errorf("create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return fmt.Errorf("refresh failed with status %d", resp.StatusCode)
	}

	var result struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode refresh response: %w", err)
	}

	c.token.AccessToken = result.AccessToken
	c.token.ExpiresAt = time.Now().Add(time.Duration(result.ExpiresIn) * time.Second).Unix()
	// Garmin does not always rotate refresh tokens; keep the old one when
	// the response omits it.
	if result.RefreshToken != "" {
		c.token.RefreshToken = result.RefreshToken
	}

	return SaveToken(c.tokenStore, c.token)
}

package garmin

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	dir := t.TempDir()
	tok := &Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Now().Add(time.Hour).Unix(),
	}
	if err := SaveToken(dir, tok); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	loaded, err := LoadToken(dir)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Errorf("loaded token mismatch: %+v", loaded)
	}
}

func TestLoadTokenMissing(t *testing.T) {
	if _, err := LoadToken(t.TempDir()); err == nil {
		t.Fatal("expected error for empty token store")
	}
}

func TestTokenExpired(t *testing.T) {
	past := &Token{AccessToken: "a", ExpiresAt: time.Now().Add(-time.Hour).Unix()}
	if !past.Expired() {
		t.Error("past token should be expired")
	}

	soon := &Token{AccessToken: "a", ExpiresAt: time.Now().Add(30 * time.Second).Unix()}
	if !soon.Expired() {
		t.Error("token expiring within a minute should count as expired")
	}

	fresh := &Token{AccessToken: "a", ExpiresAt: time.Now().Add(time.Hour).Unix()}
	if fresh.Expired() {
		t.Error("fresh token should not be expired")
	}

	noExpiry := &Token{AccessToken: "a"}
	if noExpiry.Expired() {
		t.Error("token without expiry should not be expired")
	}
}

func tokenArchive(t *testing.T, name, content string) string {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	if err := tw.WriteHeader(&tar.Header{Name: name, Mode: 0o600, Size: int64(len(content)), Typeflag: tar.TypeReg}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestRestoreTokenStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tokens")
	b64 := tokenArchive(t, "nested/oauth2_token.json", `{"access_token":"a","refresh_token":"r"}`)

	if err := RestoreTokenStore(dir, b64); err != nil {
		t.Fatalf("RestoreTokenStore: %v", err)
	}

	// Nested paths are flattened into the store root.
	tok, err := LoadToken(dir)
	if err != nil {
		t.Fatalf("LoadToken after restore: %v", err)
	}
	if tok.AccessToken != "a" {
		t.Errorf("AccessToken = %q", tok.AccessToken)
	}
}

func TestRestoreTokenStoreSkipsPopulatedDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, tokenFileName), []byte(`{"access_token":"keep"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	b64 := tokenArchive(t, tokenFileName, `{"access_token":"overwrite"}`)
	if err := RestoreTokenStore(dir, b64); err != nil {
		t.Fatalf("RestoreTokenStore: %v", err)
	}

	tok, err := LoadToken(dir)
	if err != nil {
		t.Fatal(err)
	}
	if tok.AccessToken != "keep" {
		t.Error("restore must not overwrite an already populated token store")
	}
}

func TestRestoreTokenStoreNoArchive(t *testing.T) {
	if err := RestoreTokenStore(t.TempDir(), ""); err != nil {
		t.Fatalf("RestoreTokenStore with empty archive: %v", err)
	}
}

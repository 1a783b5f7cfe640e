package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/router-for-me/TrackerSync/sdk/tracker"
	"github.com/tidwall/gjson"
)

func TestExtractString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		expected string
	}{
		{"top-level access_token", `{"access_token":"tok-abc"}`, "tok-abc"},
		{"nested token.access_token", `{"token":{"access_token":"tok-nested"}}`, "tok-nested"},
		{"top-level takes precedence over nested", `{"access_token":"tok-top","token":{"access_token":"tok-nested"}}`, "tok-top"},
		{"empty object", `{}`, ""},
		{"whitespace-only access_token", `{"access_token":"   "}`, ""},
		{"wrong type access_token", `{"access_token":12345}`, ""},
		{"token is not an object", `{"token":"not-a-map"}`, ""},
		{"nested whitespace-only", `{"token":{"access_token":"  "}}`, ""},
		{"fallback to nested when top-level empty", `{"access_token":"","token":{"access_token":"tok-fallback"}}`, "tok-fallback"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := extractString([]byte(tt.data), "access_token")
			if got != tt.expected {
				t.Errorf("extractString() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFileCredentialStore_SaveLoadDelete(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewFileCredentialStore(dir)
	store.now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	cred := &tracker.Credential{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		ExpiresAt:    time.Date(2026, 11, 19, 12, 0, 0, 0, time.UTC),
	}
	path, err := store.Save(ctx, "MyAnimeList", cred)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, "myanimelist.json"); path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if got := gjson.GetBytes(raw, "type").String(); got != "myanimelist" {
		t.Fatalf("type = %q", got)
	}
	if got := gjson.GetBytes(raw, "expires_at").String(); got != "2026-11-19T12:00:00Z" {
		t.Fatalf("expires_at = %q", got)
	}
	if got := gjson.GetBytes(raw, "last_refresh").String(); got != "2026-10-19T12:00:00Z" {
		t.Fatalf("last_refresh = %q", got)
	}

	loaded, err := store.Load(ctx, "myanimelist")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.AccessToken != cred.AccessToken || loaded.RefreshToken != cred.RefreshToken || !loaded.ExpiresAt.Equal(cred.ExpiresAt) {
		t.Fatalf("Load() = %+v, want %+v", loaded, cred)
	}

	if err = store.Delete(ctx, "myanimelist"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err = store.Load(ctx, "myanimelist"); !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("Load() after delete error = %v, want ErrNotLoggedIn", err)
	}
	if err = store.Delete(ctx, "myanimelist"); err != nil {
		t.Fatalf("second Delete() error = %v", err)
	}
}

func TestFileCredentialStore_SavePreservesUnknownKeys(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "myanimelist.json")
	if err := os.WriteFile(path, []byte(`{"label":"main account","access_token":"old"}`), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	store := NewFileCredentialStore(dir)
	if _, err := store.Save(context.Background(), "myanimelist", &tracker.Credential{AccessToken: "new", RefreshToken: "r"}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if got := gjson.GetBytes(raw, "label").String(); got != "main account" {
		t.Fatalf("label = %q, want preserved", got)
	}
	if got := gjson.GetBytes(raw, "access_token").String(); got != "new" {
		t.Fatalf("access_token = %q, want new", got)
	}
}

func TestFileCredentialStore_LoadNestedLayout(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	data := `{"type":"myanimelist","token":{"access_token":"nested-a","refresh_token":"nested-r","expires_at":"2026-12-01T00:00:00Z"}}`
	if err := os.WriteFile(filepath.Join(dir, "myanimelist.json"), []byte(data), 0o600); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	cred, err := NewFileCredentialStore(dir).Load(context.Background(), "myanimelist")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cred.AccessToken != "nested-a" || cred.RefreshToken != "nested-r" {
		t.Fatalf("unexpected credential %+v", cred)
	}
	if !cred.ExpiresAt.Equal(time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("ExpiresAt = %v", cred.ExpiresAt)
	}
}

func TestFileCredentialStore_Errors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if _, err := NewFileCredentialStore("").Load(ctx, "myanimelist"); err == nil {
		t.Error("Load() without directory expected error")
	}

	store := NewFileCredentialStore(t.TempDir())
	for _, name := range []string{"", "../escape", `a\b`} {
		if _, err := store.Save(ctx, name, &tracker.Credential{AccessToken: "a"}); err == nil {
			t.Errorf("Save(%q) expected error", name)
		}
	}
	if _, err := store.Save(ctx, "myanimelist", nil); err == nil {
		t.Error("Save(nil credential) expected error")
	}
	if _, err := store.Load(ctx, "myanimelist"); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Load() of missing file error = %v, want ErrNotLoggedIn", err)
	}
}

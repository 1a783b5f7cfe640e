package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigOptional_ParsesTrackers(t *testing.T) {
	t.Setenv("MAL_CLIENT_ID", "")
	t.Setenv("TRACKER_AUTH_DIR", "")
	t.Setenv("TRACKER_PROXY_URL", "")

	dir := t.TempDir()
	configFile := filepath.Join(dir, "config.yaml")

	content := `debug: true
auth-dir: /tmp/creds
proxy-url: socks5://127.0.0.1:1080
request-timeout-seconds: 20
trackers:
  MyAnimeList:
    client-id: abc
    target-media-type: novel
    search-limit: 25
    read-policy:
      status: soft
`
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigOptional(configFile, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Debug {
		t.Fatal("expected debug to be enabled")
	}
	if cfg.AuthDir != "/tmp/creds" {
		t.Fatalf("AuthDir = %q, want %q", cfg.AuthDir, "/tmp/creds")
	}
	if cfg.ProxyURL != "socks5://127.0.0.1:1080" {
		t.Fatalf("ProxyURL = %q", cfg.ProxyURL)
	}
	if got := cfg.RequestTimeout(); got != 20*time.Second {
		t.Fatalf("RequestTimeout() = %v, want 20s", got)
	}

	tc := cfg.Tracker("myanimelist")
	if tc.ClientID != "abc" {
		t.Fatalf("ClientID = %q, want %q", tc.ClientID, "abc")
	}
	if tc.TargetMediaType != "novel" {
		t.Fatalf("TargetMediaType = %q, want %q", tc.TargetMediaType, "novel")
	}
	if tc.SearchLimit != 25 {
		t.Fatalf("SearchLimit = %d, want 25", tc.SearchLimit)
	}
	if !tc.ReadPolicy.StatusSoft() {
		t.Fatal("expected soft status policy")
	}
	if !tc.ReadPolicy.SearchSoft() {
		t.Fatal("search policy should default to soft")
	}
}

func TestLoadConfigOptional_MissingFile(t *testing.T) {
	t.Setenv("MAL_CLIENT_ID", "")
	t.Setenv("TRACKER_AUTH_DIR", "")

	missing := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadConfigOptional(missing, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AuthDir == "" {
		t.Fatal("expected default auth dir")
	}

	if _, err = LoadConfigOptional(missing, false); err == nil {
		t.Fatal("expected error for missing required config")
	}
}

func TestLoadConfigOptional_EnvOverrides(t *testing.T) {
	t.Setenv("MAL_CLIENT_ID", "from-env")
	t.Setenv("TRACKER_AUTH_DIR", "/env/auth")

	cfg, err := LoadConfigOptional("", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.AuthDir != "/env/auth" {
		t.Fatalf("AuthDir = %q, want %q", cfg.AuthDir, "/env/auth")
	}
	if got := cfg.Tracker("myanimelist").ClientID; got != "from-env" {
		t.Fatalf("ClientID = %q, want %q", got, "from-env")
	}
}

func TestTrackerConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	def := TrackerConfig{
		ClientID:        "default-client",
		BaseOAuthURL:    "https://example.com/authorize",
		TokenURL:        "https://example.com/token",
		BaseAPIURL:      "https://api.example.com/v2",
		TargetMediaType: "light_novel",
		RedirectURI:     "http://localhost:1/callback",
		ReadPolicy:      ReadPolicy{Search: FailSoft, Status: FailStrict},
	}

	got := TrackerConfig{ClientID: "mine", BaseAPIURL: "http://127.0.0.1:9/v2/"}.WithDefaults(def)

	if got.ClientID != "mine" {
		t.Fatalf("ClientID = %q, want override kept", got.ClientID)
	}
	if got.BaseAPIURL != "http://127.0.0.1:9/v2" {
		t.Fatalf("BaseAPIURL = %q, want trailing slash trimmed", got.BaseAPIURL)
	}
	if got.TokenURL != def.TokenURL || got.TargetMediaType != def.TargetMediaType {
		t.Fatalf("defaults not applied: %+v", got)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestTrackerConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  TrackerConfig
	}{
		{"missing client id", TrackerConfig{BaseOAuthURL: "a", TokenURL: "b", BaseAPIURL: "c"}},
		{"missing token url", TrackerConfig{ClientID: "x", BaseOAuthURL: "a", BaseAPIURL: "c"}},
		{"bad read policy", TrackerConfig{ClientID: "x", BaseOAuthURL: "a", TokenURL: "b", BaseAPIURL: "c", ReadPolicy: ReadPolicy{Status: "loud"}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := tt.cfg.Validate(); err == nil {
				t.Fatalf("Validate() error = nil, want error")
			}
		})
	}
}

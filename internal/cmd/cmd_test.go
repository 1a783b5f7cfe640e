package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/router-for-me/TrackerSync/internal/auth/myanimelist"
	"github.com/router-for-me/TrackerSync/internal/config"
	sdkAuth "github.com/router-for-me/TrackerSync/sdk/auth"
	"github.com/router-for-me/TrackerSync/sdk/tracker"
)

func TestParseIDs(t *testing.T) {
	tests := []struct {
		raw     string
		want    []int64
		wantErr bool
	}{
		{"42", []int64{42}, false},
		{"1, 2,3,", []int64{1, 2, 3}, false},
		{"", nil, true},
		{"abc", nil, true},
		{"5,-1", nil, true},
	}
	for _, tt := range tests {
		got, err := ParseIDs(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseIDs(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("ParseIDs(%q) = %v, want %v", tt.raw, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseIDs(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		}
	}
}

// setupRemote starts a fake API, stores a valid credential and captures command output.
func setupRemote(t *testing.T, handler http.HandlerFunc) (*config.Config, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	authDir := t.TempDir()
	cfg := &config.Config{
		AuthDir: authDir,
		Trackers: map[string]config.TrackerConfig{
			tracker.MyAnimeListName: {
				TokenURL:   srv.URL + "/token",
				BaseAPIURL: srv.URL + "/v2",
			},
		},
	}
	store := sdkAuth.NewFileCredentialStore(authDir)
	cred := &tracker.Credential{AccessToken: "stored-access", RefreshToken: "r", ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if _, err := store.Save(context.Background(), tracker.MyAnimeListName, cred); err != nil {
		t.Fatalf("seed credential: %v", err)
	}

	var out bytes.Buffer
	previous := stdout
	stdout = &out
	t.Cleanup(func() { stdout = previous })
	return cfg, &out
}

func TestDoSearch(t *testing.T) {
	cfg, out := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer stored-access" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"node":{"id":9,"title":"Spice and Wolf","media_type":"light_novel"}},{"node":{"id":10,"title":"Other","media_type":"manga"}}]}`))
	})

	if err := DoSearch(context.Background(), cfg, &Options{}, "spice"); err != nil {
		t.Fatalf("DoSearch() error = %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "Spice and Wolf") || strings.Contains(got, "Other") {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestDoStatus_KeepsOrder(t *testing.T) {
	cfg, out := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/manga/1":
			_, _ = w.Write([]byte(`{"id":1,"num_chapters":10,"my_list_status":{"status":"completed","num_chapters_read":10,"score":9}}`))
		case "/v2/manga/2":
			_, _ = w.Write([]byte(`{"id":2}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	if err := DoStatus(context.Background(), cfg, &Options{}, []int64{2, 1}); err != nil {
		t.Fatalf("DoStatus() error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("output lines = %d: %q", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "reading") || !strings.Contains(lines[0], "0/?") {
		t.Fatalf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "completed") || !strings.Contains(lines[1], "10/10") {
		t.Fatalf("second line = %q", lines[1])
	}
}

func TestDoUpdate_FillsUnsetFieldsFromRemote(t *testing.T) {
	var putBody string
	cfg, out := setupRemote(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			_, _ = w.Write([]byte(`{"id":5,"my_list_status":{"status":"reading","num_chapters_read":3,"score":7}}`))
		case http.MethodPut:
			b, _ := io.ReadAll(r.Body)
			putBody = string(b)
			_, _ = w.Write([]byte(`{"status":"reading","num_chapters_read":4,"score":7}`))
		}
	})

	err := DoUpdate(context.Background(), cfg, &Options{}, 5, UpdateRequest{Progress: 4, Score: -1})
	if err != nil {
		t.Fatalf("DoUpdate() error = %v", err)
	}
	if putBody != "status=reading&num_chapters_read=4&score=7" {
		t.Fatalf("PUT body = %q", putBody)
	}
	if !strings.Contains(out.String(), "4/?") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestDoUpdate_RejectsUnknownStatus(t *testing.T) {
	err := DoUpdate(context.Background(), &config.Config{}, &Options{}, 5, UpdateRequest{Status: "watching"})
	if err == nil || !strings.Contains(err.Error(), "unknown status") {
		t.Fatalf("DoUpdate() error = %v, want unknown status", err)
	}
}

func TestDoSearch_NotLoggedIn(t *testing.T) {
	cfg := &config.Config{AuthDir: t.TempDir()}
	err := DoSearch(context.Background(), cfg, &Options{}, "spice")
	if err != sdkAuth.ErrNotLoggedIn {
		t.Fatalf("DoSearch() error = %v, want ErrNotLoggedIn", err)
	}
}

func loginConfig(t *testing.T, redirectURI string) *config.Config {
	t.Helper()
	return &config.Config{
		AuthDir: t.TempDir(),
		Trackers: map[string]config.TrackerConfig{
			tracker.MyAnimeListName: {RedirectURI: redirectURI},
		},
	}
}

func TestDoLogin_UnknownTrackerIsError(t *testing.T) {
	err := DoLogin(context.Background(), &config.Config{AuthDir: t.TempDir()}, &Options{Tracker: "anilist", NoBrowser: true})
	if err == nil {
		t.Fatal("DoLogin() error = nil, want unknown tracker error")
	}
}

func TestDoLogin_CancelledIsNotAnError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := l.Addr().(*net.TCPAddr).Port
	_ = l.Close()

	var out bytes.Buffer
	previous := stdout
	stdout = &out
	t.Cleanup(func() { stdout = previous })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := loginConfig(t, fmt.Sprintf("http://127.0.0.1:%d/callback", port))
	if err = DoLogin(ctx, cfg, &Options{NoBrowser: true}); err != nil {
		t.Fatalf("DoLogin() error = %v, want nil", err)
	}
	if !strings.Contains(out.String(), "Not logged in") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestDoLogin_PortInUseIsError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer func() { _ = l.Close() }()
	port := l.Addr().(*net.TCPAddr).Port

	cfg := loginConfig(t, fmt.Sprintf("http://127.0.0.1:%d/callback", port))
	err = DoLogin(context.Background(), cfg, &Options{NoBrowser: true})
	var authErr *myanimelist.AuthenticationError
	if !errors.As(err, &authErr) || authErr.Type != myanimelist.ErrPortInUse.Type {
		t.Fatalf("DoLogin() error = %v, want port_in_use authentication error", err)
	}
}
